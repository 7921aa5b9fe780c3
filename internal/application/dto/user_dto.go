package dto

import "time"

// CreateUserRequest entrada para registrar un usuario (password en texto, se hashea en use case).
// Role y Status no se aceptan: toda cuenta nueva es customer/Active.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Address  string `json:"address" validate:"omitempty,max=300"`
}

// UpdateUserRequest actualización parcial: solo se aplican los campos presentes (no nil).
// Password vacío equivale a "sin cambio".
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=customer staff manager"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=Active Locked"`
}

// UpdateUserStatusRequest body para PATCH /api/users/:id/status.
type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active Locked"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UserCountResponse salida de GET /api/users/count.
type UserCountResponse struct {
	Total int64 `json:"total"`
}

// LoginRequest entrada para login: Login acepta username o email.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
