package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Order representa la cabecera de un pedido. Pertenece a un único usuario.
type Order struct {
	ID              string
	UserID          string
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Status          string
	OrderDate       time.Time
	UpdatedAt       time.Time
}

// OrderDetail representa una línea del pedido.
// PriceAtOrder congela el precio del libro al momento del checkout.
type OrderDetail struct {
	ID           string
	OrderID      string
	BookID       string
	Quantity     int
	PriceAtOrder decimal.Decimal
}

// Subtotal devuelve Quantity * PriceAtOrder.
func (d *OrderDetail) Subtotal() decimal.Decimal {
	return d.PriceAtOrder.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
