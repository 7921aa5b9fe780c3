package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book representa un libro del catálogo.
// StockQuantity solo se descuenta al despachar un pedido (transacciones de inventario), nunca al crearlo.
type Book struct {
	ID            string
	Title         string
	Author        string
	Price         decimal.Decimal // precio de venta vigente
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
