package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest body para POST /api/checkout.
// UserID se toma del token; en el body se ignora.
type CheckoutRequest struct {
	UserID          string                `json:"-"`
	Items           []CheckoutItemRequest `json:"items"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	ShippingAddress string                `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	IdempotencyKey  string                `json:"-"` // header Idempotency-Key
}

// CheckoutItemRequest línea del carrito enviada al checkout, con el precio que vio el cliente.
type CheckoutItemRequest struct {
	BookID    string          `json:"book_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal devuelve Quantity * UnitPrice.
func (i CheckoutItemRequest) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CheckoutResponse resultado compuesto del checkout: pedido con líneas y pago.
type CheckoutResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Order   OrderResponse   `json:"order"`
	Payment PaymentResponse `json:"payment"`
}

// OrderResponse pedido con su detalle.
type OrderResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	ShippingAddress string                `json:"shipping_address"`
	Status          string                `json:"status"`
	OrderDate       time.Time             `json:"order_date"`
	Details         []OrderDetailResponse `json:"details"`
}

// OrderDetailResponse línea de pedido con precio congelado.
type OrderDetailResponse struct {
	ID           string          `json:"id"`
	BookID       string          `json:"book_id"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// PaymentResponse pago asociado a un pedido.
type PaymentResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// InventoryTransactionResponse movimiento de inventario generado al despachar un pedido.
type InventoryTransactionResponse struct {
	ID        string          `json:"id"`
	BookID    string          `json:"book_id"`
	OrderID   string          `json:"order_id"`
	Type      string          `json:"type"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
}
