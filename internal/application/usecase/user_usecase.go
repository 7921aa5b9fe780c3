package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bookstore-api/internal/application/dto"
	"github.com/jhoicas/bookstore-api/internal/application/ports"
	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	"github.com/jhoicas/bookstore-api/internal/domain/repository"
	"github.com/jhoicas/bookstore-api/pkg/logger"
)

// UserUseCase aplica reglas de negocio para cuentas de usuario.
type UserUseCase struct {
	repo   repository.UserRepository
	hasher ports.PasswordHasher
	log    *logger.Logger
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia y el hasher de contraseñas.
func NewUserUseCase(repo repository.UserRepository, hasher ports.PasswordHasher, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, hasher: hasher, log: log.Named("users"), now: time.Now}
}

// CreateUser registra una cuenta nueva. Toda cuenta nace como customer/Active.
func (uc *UserUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email y password son obligatorios", domain.ErrInvalidInput)
	}
	if err := uc.ensureUsernameFree(ctx, in.Username); err != nil {
		return nil, err
	}
	if err := uc.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         entity.RoleCustomer,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("usuario creado")
	return toUserResponse(user), nil
}

// UpdateUser aplica solo los campos presentes. La unicidad se revisa únicamente si el valor cambia.
func (uc *UserUseCase) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.Role != nil && !entity.IsValidRole(*in.Role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
	}
	if in.Status != nil && !entity.IsValidUserStatus(*in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username vacío", domain.ErrInvalidInput)
		}
		if username != user.Username {
			if err := uc.ensureUsernameFree(ctx, username); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email vacío", domain.ErrInvalidInput)
		}
		if email != user.Email {
			if err := uc.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hashear password: %w", err)
		}
		user.PasswordHash = hash
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	user.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ToggleStatus cambia el estado de la cuenta (Active / Locked).
func (uc *UserUseCase) ToggleStatus(ctx context.Context, id, status string) (*dto.UserResponse, error) {
	if !entity.IsValidUserStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Status = status
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("status", status).Msg("estado de usuario actualizado")
	return toUserResponse(user), nil
}

// ListUsers lista usuarios paginados.
func (uc *UserUseCase) ListUsers(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar usuarios: %w", err)
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetUser obtiene un usuario por ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// CountUsers total de cuentas registradas.
func (uc *UserUseCase) CountUsers(ctx context.Context) (int64, error) {
	return uc.repo.Count(ctx)
}

func (uc *UserUseCase) ensureUsernameFree(ctx context.Context, username string) error {
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("buscar username: %w", err)
	}
	if existing != nil {
		return domain.ErrUsernameAlreadyExists
	}
	return nil
}

func (uc *UserUseCase) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("buscar email: %w", err)
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
