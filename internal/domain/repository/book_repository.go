package repository

import (
	"context"

	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

// BookRepository puerto de lectura del catálogo y de descuento de stock.
type BookRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	// DecrementStock resta quantity al stock. Devuelve domain.ErrInsufficientStock si no alcanza.
	// Solo lo usa el despacho de pedidos.
	DecrementStock(ctx context.Context, id string, quantity int) error
}
