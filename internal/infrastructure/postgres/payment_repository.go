package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	"github.com/jhoicas/bookstore-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta el pago. payments.order_id es único: un segundo pago para el mismo pedido es conflicto.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, amount, payment_method, payment_date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, p.ID, p.OrderID, p.Amount, p.PaymentMethod, p.PaymentDate)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el pedido ya tiene un pago", domain.ErrConflict)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByOrderID obtiene el pago de un pedido.
func (r *PaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	query := `
		SELECT id, order_id, amount, payment_method, payment_date
		FROM payments WHERE order_id = $1`
	var p entity.Payment
	err := r.q.QueryRow(ctx, query, orderID).Scan(&p.ID, &p.OrderID, &p.Amount, &p.PaymentMethod, &p.PaymentDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}
