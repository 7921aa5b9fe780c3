package entity

import "time"

// Roles válidos para User.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleManager  = "manager"
)

// Estados válidos para User.
const (
	UserStatusActive = "Active"
	UserStatusLocked = "Locked"
)

// User representa una cuenta de la librería (cliente o personal interno).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Phone        string
	Address      string
	Role         string // customer, staff, manager
	Status       string // Active, Locked
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si role pertenece a la enumeración cerrada de roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleManager:
		return true
	}
	return false
}

// IsValidUserStatus indica si status pertenece a la enumeración cerrada de estados.
func IsValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusLocked
}
