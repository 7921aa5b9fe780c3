package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/bookstore-api/internal/application/dto"
	"github.com/jhoicas/bookstore-api/internal/application/ports"
	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	"github.com/jhoicas/bookstore-api/internal/domain/order"
)

// UpdateOrderStatus sobrescribe el estado del pedido (ruta administrativa, sin validar la transición).
// Al llegar a Delivered, en la misma transacción se registran las salidas de inventario y se descuenta
// el stock, salvo que el pedido ya tenga salidas; un stock insuficiente revierte todo.
func (uc *CheckoutUseCase) UpdateOrderStatus(ctx context.Context, orderID, status, actorID string) (*dto.OrderResponse, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: el estado es obligatorio", domain.ErrInvalidInput)
	}

	var (
		updated  *entity.Order
		details  []*entity.OrderDetail
		previous string
	)
	err := uc.txRunner.RunCheckout(ctx, func(repos TxRepos) error {
		o, err := repos.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		details, err = repos.Orders.ListDetailsByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}
		now := uc.now()
		if uc.fulfiller != nil && order.IsFulfillment(o.Status, status) {
			if err := uc.fulfiller.FulfillInTx(ctx, repos.Books, repos.Inventory, o, details, now); err != nil {
				return err
			}
		}
		if err := repos.Orders.UpdateStatus(ctx, o.ID, status, now); err != nil {
			return err
		}
		previous = o.Status
		o.Status = status
		o.UpdatedAt = now
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderStatusChanged(status)
	uc.publish(ctx, ports.EventOrderStatusChanged, updated.ID, map[string]any{
		"order_id":        updated.ID,
		"user_id":         updated.UserID,
		"previous_status": previous,
		"status":          updated.Status,
		"actor_id":        actorID,
	})
	uc.log.Info().
		Str("order_id", updated.ID).
		Str("from", previous).
		Str("to", updated.Status).
		Str("actor_id", actorID).
		Msg("estado de pedido actualizado")

	resp := toOrderResponse(updated, details)
	return &resp, nil
}

// CancelOrder cancela un pedido a petición de su dueño. Solo se permite mientras esté en Processing.
func (uc *CheckoutUseCase) CancelOrder(ctx context.Context, orderID, userID string) (*dto.OrderResponse, error) {
	var (
		cancelled *entity.Order
		details   []*entity.OrderDetail
	)
	err := uc.txRunner.RunCheckout(ctx, func(repos TxRepos) error {
		o, err := repos.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		if o.UserID != userID {
			return fmt.Errorf("%w: el pedido no pertenece al usuario", domain.ErrForbidden)
		}
		if !order.CanTransition(o.Status, entity.OrderStatusCancelled) {
			return fmt.Errorf("%w: no se puede cancelar un pedido en estado %s", domain.ErrInvalidState, o.Status)
		}
		now := uc.now()
		if err := repos.Orders.UpdateStatus(ctx, o.ID, entity.OrderStatusCancelled, now); err != nil {
			return err
		}
		details, err = repos.Orders.ListDetailsByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}
		o.Status = entity.OrderStatusCancelled
		o.UpdatedAt = now
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderCancelled()
	uc.publish(ctx, ports.EventOrderCancelled, cancelled.ID, map[string]any{
		"order_id":     cancelled.ID,
		"user_id":      cancelled.UserID,
		"total_amount": cancelled.TotalAmount.StringFixed(2),
	})
	uc.log.Info().Str("order_id", cancelled.ID).Str("user_id", userID).Msg("pedido cancelado")

	resp := toOrderResponse(cancelled, details)
	return &resp, nil
}
