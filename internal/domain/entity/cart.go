package entity

import "time"

// CartItem línea del carrito de compras de un usuario.
type CartItem struct {
	UserID   string
	BookID   string
	Quantity int
	AddedAt  time.Time
}
