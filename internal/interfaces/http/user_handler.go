package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bookstore-api/internal/application/dto"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

// UserService operaciones de cuentas usadas por los handlers.
type UserService interface {
	CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error)
	ToggleStatus(ctx context.Context, id, status string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	CountUsers(ctx context.Context) (int64, error)
}

// UserHandler administración de usuarios.
type UserHandler struct {
	uc UserService
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc UserService) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Security     BearerAuth
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListUsers(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Count GET /api/users/count
func (h *UserHandler) Count(c *fiber.Ctx) error {
	n, err := h.uc.CountUsers(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UserCountResponse{Total: n})
}

// GetByID GET /api/users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario (parcial)
// @Description  Solo un manager puede cambiar role o status; el propio usuario edita sus datos.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if (in.Role != nil || in.Status != nil) && GetRole(c) != entity.RoleManager {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo un manager puede cambiar rol o estado"})
	}
	out, err := h.uc.UpdateUser(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/users/:id/status (bloquear / desbloquear).
func (h *UserHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateUserStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ToggleStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
