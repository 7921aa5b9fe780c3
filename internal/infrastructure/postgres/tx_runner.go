package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/bookstore-api/internal/application/checkout"
)

var _ checkout.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCheckout inicia una transacción con los repos de pedidos, pagos, carrito, libros e inventario
// atados a ella, ejecuta fn y hace Commit. Cualquier error de fn (o un panic) termina en Rollback.
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(repos checkout.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := checkout.TxRepos{
		Orders:    NewOrderRepository(tx),
		Payments:  NewPaymentRepository(tx),
		Carts:     NewCartRepository(tx),
		Books:     NewBookRepository(tx),
		Inventory: NewInventoryTransactionRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
