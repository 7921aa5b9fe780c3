package repository

import "context"

// CartRepository puerto del carrito de compras. El checkout solo necesita vaciarlo.
type CartRepository interface {
	ClearByUserID(ctx context.Context, userID string) error
}
