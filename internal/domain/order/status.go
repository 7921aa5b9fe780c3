// Package order contiene las reglas puras del ciclo de vida de un pedido.
package order

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

// transitions es la tabla central de transiciones permitidas.
// Delivered y Cancelled son terminales.
var transitions = map[string][]string{
	entity.OrderStatusProcessing: {entity.OrderStatusDelivered, entity.OrderStatusCancelled},
	entity.OrderStatusDelivered:  nil,
	entity.OrderStatusCancelled:  nil,
}

// IsKnown indica si status es uno de los estados modelados.
func IsKnown(status string) bool {
	_, ok := transitions[status]
	return ok
}

// IsTerminal indica si desde status ya no hay transiciones.
func IsTerminal(status string) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

// CanTransition indica si la tabla permite pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsFulfillment indica si el cambio de estado dispara el despacho (descuento de stock).
// Re-entregas tras pasar por otro estado también cuentan; el despacho en sí es idempotente por pedido.
func IsFulfillment(from, to string) bool {
	return to == entity.OrderStatusDelivered && from != entity.OrderStatusDelivered
}

// LinesTotal suma Quantity * PriceAtOrder de las líneas con aritmética decimal exacta.
func LinesTotal(details []*entity.OrderDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Subtotal())
	}
	return total
}
