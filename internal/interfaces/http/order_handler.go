package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bookstore-api/internal/application/dto"
	"github.com/jhoicas/bookstore-api/internal/domain"
)

// OrderService checkout y ciclo de vida del pedido.
type OrderService interface {
	Checkout(ctx context.Context, in dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	GetPaymentForOrder(ctx context.Context, orderID string) (*dto.PaymentResponse, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]dto.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, orderID, status, actorID string) (*dto.OrderResponse, error)
	CancelOrder(ctx context.Context, orderID, userID string) (*dto.OrderResponse, error)
}

// ReceiptService genera el comprobante PDF de un pedido.
type ReceiptService interface {
	DownloadReceipt(ctx context.Context, orderID, requesterID string, privileged bool) ([]byte, string, error)
}

// InventoryService consulta los movimientos de inventario de un pedido.
type InventoryService interface {
	ListByOrder(ctx context.Context, orderID string) ([]dto.InventoryTransactionResponse, error)
}

// OrderHandler checkout, consulta y transición de pedidos.
type OrderHandler struct {
	orders    OrderService
	receipts  ReceiptService
	inventory InventoryService
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(orders OrderService, receipts ReceiptService, inventory InventoryService) *OrderHandler {
	return &OrderHandler{orders: orders, receipts: receipts, inventory: inventory}
}

// Checkout godoc
// @Summary      Confirmar compra
// @Description  Crea pedido, líneas y pago en una sola transacción y vacía el carrito. El usuario sale del token.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "clave para reintentos seguros"
// @Param        body             body    dto.CheckoutRequest  true   "líneas, total, dirección y método de pago"
// @Success      201  {object}  dto.CheckoutResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/checkout [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.UserID = GetUserID(c)
	in.IdempotencyKey = strings.TrimSpace(c.Get("Idempotency-Key"))
	out, err := h.orders.Checkout(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/orders/:id (dueño o personal interno).
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out.UserID != GetUserID(c) && !isStaff(c) {
		return writeError(c, domain.ErrForbidden)
	}
	return c.JSON(out)
}

// Payment GET /api/orders/:id/payment
func (h *OrderHandler) Payment(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if order.UserID != GetUserID(c) && !isStaff(c) {
		return writeError(c, domain.ErrForbidden)
	}
	out, err := h.orders.GetPaymentForOrder(c.Context(), order.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar comprobante PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path      string  true  "ID pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipts.DownloadReceipt(c.Context(), c.Params("id"), GetUserID(c), isStaff(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

// ListByUser GET /api/users/:id/orders
func (h *OrderHandler) ListByUser(c *fiber.Ctx) error {
	return h.list(c, c.Params("id"))
}

// ListMine GET /api/me/orders
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	return h.list(c, GetUserID(c))
}

func (h *OrderHandler) list(c *fiber.Ctx, userID string) error {
	out, err := h.orders.ListOrdersForUser(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pedido propio
// @Description  Solo pedidos en Processing; Delivered o Cancelled responden 409.
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "ID pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.orders.CancelOrder(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/orders/:id/status (staff, manager).
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.orders.UpdateOrderStatus(c.Context(), c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Inventory GET /api/orders/:id/inventory (staff, manager).
func (h *OrderHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.inventory.ListByOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
