package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment registro de pago, uno a uno con Order. Amount replica Order.TotalAmount.
type Payment struct {
	ID            string
	OrderID       string
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentDate   time.Time
}
