package checkout

import (
	"context"
	"time"

	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	"github.com/jhoicas/bookstore-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Orders    repository.OrderRepository
	Payments  repository.PaymentRepository
	Carts     repository.CartRepository
	Books     repository.BookRepository
	Inventory repository.InventoryTransactionRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(repos TxRepos) error) error
}

// Fulfiller despacha un pedido dentro de la transacción del caller: registra una salida de
// inventario por línea y descuenta el stock. Si retorna error (ej: ErrInsufficientStock) el caller hace rollback.
type Fulfiller interface {
	FulfillInTx(
		ctx context.Context,
		books repository.BookRepository,
		inventory repository.InventoryTransactionRepository,
		order *entity.Order,
		details []*entity.OrderDetail,
		now time.Time,
	) error
}

// IdempotencyStore reserva claves Idempotency-Key del checkout.
type IdempotencyStore interface {
	// Reserve devuelve false si la clave ya estaba reservada.
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Metrics contadores del flujo de pedidos.
type Metrics interface {
	CheckoutCompleted(elapsed time.Duration)
	CheckoutFailed(reason string)
	OrderCancelled()
	OrderStatusChanged(status string)
}

type nopIdempotency struct{}

func (nopIdempotency) Reserve(context.Context, string) (bool, error) { return true, nil }
func (nopIdempotency) Release(context.Context, string) error         { return nil }

type nopMetrics struct{}

func (nopMetrics) CheckoutCompleted(time.Duration) {}
func (nopMetrics) CheckoutFailed(string)           {}
func (nopMetrics) OrderCancelled()                 {}
func (nopMetrics) OrderStatusChanged(string)       {}
