package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bookstore-api/internal/application/dto"
	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	"github.com/jhoicas/bookstore-api/internal/domain/repository"
	"github.com/jhoicas/bookstore-api/pkg/logger"
)

// FulfillmentUseCase registra las salidas de inventario de un pedido despachado.
type FulfillmentUseCase struct {
	orderRepo     repository.OrderRepository
	inventoryRepo repository.InventoryTransactionRepository
	log           *logger.Logger
}

// NewFulfillmentUseCase construye el caso de uso. log puede ser nil.
func NewFulfillmentUseCase(
	orderRepo repository.OrderRepository,
	inventoryRepo repository.InventoryTransactionRepository,
	log *logger.Logger,
) *FulfillmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &FulfillmentUseCase{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		log:           log.Named("fulfillment"),
	}
}

// FulfillInTx ejecuta el despacho usando los repositorios proporcionados (misma transacción del caller):
// por cada línea descuenta el stock del libro y guarda una transacción "export" al precio congelado.
// Si algún libro no alcanza retorna domain.ErrInsufficientStock y el caller hace rollback.
// Un pedido que ya tiene salidas registradas no se vuelve a despachar.
func (uc *FulfillmentUseCase) FulfillInTx(
	ctx context.Context,
	books repository.BookRepository,
	inventory repository.InventoryTransactionRepository,
	order *entity.Order,
	details []*entity.OrderDetail,
	now time.Time,
) error {
	done, err := alreadyFulfilled(ctx, inventory, order.ID)
	if err != nil {
		return err
	}
	if done {
		uc.log.Info().Str("order_id", order.ID).Msg("pedido ya despachado, sin descuento de stock")
		return nil
	}
	for _, d := range details {
		if err := books.DecrementStock(ctx, d.BookID, d.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("%w: libro %s, pedido %s", domain.ErrInsufficientStock, d.BookID, order.ID)
			}
			return fmt.Errorf("descontar stock: %w", err)
		}
		tx := &entity.InventoryTransaction{
			ID:        uuid.New().String(),
			BookID:    d.BookID,
			OrderID:   order.ID,
			Type:      entity.InventoryTypeExport,
			Quantity:  d.Quantity,
			UnitPrice: d.PriceAtOrder,
			UserID:    order.UserID,
			CreatedAt: now,
		}
		if err := inventory.Create(ctx, tx); err != nil {
			return fmt.Errorf("registrar salida de inventario: %w", err)
		}
	}
	uc.log.Info().Str("order_id", order.ID).Int("lines", len(details)).Msg("pedido despachado")
	return nil
}

func alreadyFulfilled(ctx context.Context, inventory repository.InventoryTransactionRepository, orderID string) (bool, error) {
	list, err := inventory.ListByOrderID(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("consultar salidas del pedido: %w", err)
	}
	for _, t := range list {
		if t.Type == entity.InventoryTypeExport {
			return true, nil
		}
	}
	return false, nil
}

// ListByOrder devuelve los movimientos de inventario generados por un pedido.
func (uc *FulfillmentUseCase) ListByOrder(ctx context.Context, orderID string) ([]dto.InventoryTransactionResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido: %w", err)
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	list, err := uc.inventoryRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	out := make([]dto.InventoryTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.InventoryTransactionResponse{
			ID:        t.ID,
			BookID:    t.BookID,
			OrderID:   t.OrderID,
			Type:      t.Type,
			Quantity:  t.Quantity,
			UnitPrice: t.UnitPrice,
			UserID:    t.UserID,
			CreatedAt: t.CreatedAt,
		})
	}
	return out, nil
}
