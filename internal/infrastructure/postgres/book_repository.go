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

var _ repository.BookRepository = (*BookRepo)(nil)

// BookRepo implementación de BookRepository sobre PostgreSQL (usable con pool o tx).
type BookRepo struct {
	q Querier
}

// NewBookRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBookRepository(q Querier) *BookRepo {
	return &BookRepo{q: q}
}

// GetByID obtiene un libro por ID.
func (r *BookRepo) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	query := `
		SELECT id, title, author, price, stock_quantity, created_at, updated_at
		FROM books WHERE id = $1`
	var b entity.Book
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Price, &b.StockQuantity, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

// DecrementStock resta quantity con un UPDATE condicional: la fila queda bloqueada hasta el fin de la tx
// y nunca baja de cero. Si no se afecta ninguna fila se distingue entre libro inexistente y stock insuficiente.
func (r *BookRepo) DecrementStock(ctx context.Context, id string, quantity int) error {
	query := `
		UPDATE books SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrBookNotFound
	}
	return domain.ErrInsufficientStock
}
