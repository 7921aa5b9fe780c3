package repository

import (
	"context"

	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

// InventoryTransactionRepository puerto para registrar movimientos de inventario.
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	ListByOrderID(ctx context.Context, orderID string) ([]*entity.InventoryTransaction, error)
}
