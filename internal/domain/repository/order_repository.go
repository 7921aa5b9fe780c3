package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateDetail(ctx context.Context, detail *entity.OrderDetail) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetByIDForUpdate bloquea la fila del pedido (SELECT FOR UPDATE) dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Order, error)
	ListDetailsByOrderID(ctx context.Context, orderID string) ([]*entity.OrderDetail, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}
