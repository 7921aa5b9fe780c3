package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bookstore-api/internal/application/dto"
	"github.com/jhoicas/bookstore-api/internal/application/ports"
	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	"github.com/jhoicas/bookstore-api/internal/domain/repository"
	"github.com/jhoicas/bookstore-api/pkg/logger"
)

// CheckoutUseCase convierte un carrito en pedido + líneas + pago en una sola transacción,
// y gestiona el ciclo de vida posterior del pedido (ver lifecycle.go).
type CheckoutUseCase struct {
	txRunner    TxRunner
	userRepo    repository.UserRepository
	bookRepo    repository.BookRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	fulfiller   Fulfiller
	publisher   ports.EventPublisher
	idempotency IdempotencyStore
	metrics     Metrics
	log         *logger.Logger
	now         func() time.Time
}

// NewCheckoutUseCase construye el caso de uso. publisher y log pueden ser nil.
func NewCheckoutUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	fulfiller Fulfiller,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *CheckoutUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		bookRepo:    bookRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		fulfiller:   fulfiller,
		publisher:   publisher,
		idempotency: nopIdempotency{},
		metrics:     nopMetrics{},
		log:         log.Named("checkout"),
		now:         time.Now,
	}
}

// WithIdempotency activa la deduplicación por Idempotency-Key.
func (uc *CheckoutUseCase) WithIdempotency(store IdempotencyStore) *CheckoutUseCase {
	if store != nil {
		uc.idempotency = store
	}
	return uc
}

// WithMetrics activa las métricas del flujo de pedidos.
func (uc *CheckoutUseCase) WithMetrics(m Metrics) *CheckoutUseCase {
	if m != nil {
		uc.metrics = m
	}
	return uc
}

// Checkout valida la solicitud contra el stock, el precio vigente y el total declarado, y luego crea
// de forma atómica el pedido (Processing), sus líneas, el pago y vacía el carrito del usuario.
// El stock NO se descuenta aquí: eso ocurre al despachar el pedido.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	start := uc.now()
	if err := validateRequest(in); err != nil {
		uc.metrics.CheckoutFailed(failureReason(err))
		return nil, err
	}

	idemKey := ""
	if in.IdempotencyKey != "" {
		idemKey = in.UserID + ":" + in.IdempotencyKey
		ok, err := uc.idempotency.Reserve(ctx, idemKey)
		if err != nil {
			return nil, fmt.Errorf("reservar clave de idempotencia: %w", err)
		}
		if !ok {
			uc.metrics.CheckoutFailed(failureReason(domain.ErrDuplicateRequest))
			return nil, domain.ErrDuplicateRequest
		}
	}

	resp, err := uc.checkout(ctx, in)
	if err != nil {
		if idemKey != "" {
			if relErr := uc.idempotency.Release(ctx, idemKey); relErr != nil {
				uc.log.Warn().Err(relErr).Str("key", idemKey).Msg("liberar clave de idempotencia")
			}
		}
		uc.metrics.CheckoutFailed(failureReason(err))
		return nil, err
	}

	uc.metrics.CheckoutCompleted(uc.now().Sub(start))
	uc.publish(ctx, ports.EventOrderCreated, resp.Order.ID, orderCreatedPayload(resp))
	uc.log.Info().
		Str("order_id", resp.Order.ID).
		Str("user_id", resp.Order.UserID).
		Str("total", resp.Order.TotalAmount.StringFixed(2)).
		Int("items", len(resp.Order.Details)).
		Msg("pedido creado")
	return resp, nil
}

func (uc *CheckoutUseCase) checkout(ctx context.Context, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	// 1. El usuario debe existir
	user, err := uc.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	// 2. Cada libro debe existir, tener stock suficiente y mantener el precio
	calculated := decimal.Zero
	for _, item := range in.Items {
		book, err := uc.bookRepo.GetByID(ctx, item.BookID)
		if err != nil {
			return nil, fmt.Errorf("obtener libro: %w", err)
		}
		if book == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrBookNotFound, item.BookID)
		}
		uc.log.Debug().
			Str("book_id", book.ID).
			Int("available", book.StockQuantity).
			Int("requested", item.Quantity).
			Msg("validando stock")
		if book.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("%w: '%s' solo tiene %d unidades en bodega",
				domain.ErrInsufficientStock, book.Title, book.StockQuantity)
		}
		if !item.UnitPrice.Equal(book.Price) {
			return nil, fmt.Errorf("%w: '%s', actualice el carrito", domain.ErrPriceMismatch, book.Title)
		}
		calculated = calculated.Add(item.Subtotal())
	}

	// 3. El total declarado debe coincidir exactamente
	if !calculated.Equal(in.TotalAmount) {
		return nil, fmt.Errorf("%w: declarado %s, calculado %s",
			domain.ErrTotalMismatch, in.TotalAmount.String(), calculated.String())
	}

	now := uc.now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		TotalAmount:     in.TotalAmount,
		ShippingAddress: in.ShippingAddress,
		Status:          entity.OrderStatusProcessing,
		OrderDate:       now,
		UpdatedAt:       now,
	}
	details := make([]*entity.OrderDetail, 0, len(in.Items))
	for _, item := range in.Items {
		details = append(details, &entity.OrderDetail{
			ID:           uuid.New().String(),
			OrderID:      order.ID,
			BookID:       item.BookID,
			Quantity:     item.Quantity,
			PriceAtOrder: item.UnitPrice,
		})
	}
	payment := &entity.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   now,
	}

	// 4. Escrituras dependientes en una sola transacción: pedido → líneas → pago → carrito
	err = uc.txRunner.RunCheckout(ctx, func(repos TxRepos) error {
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, d := range details {
			if err := repos.Orders.CreateDetail(ctx, d); err != nil {
				return err
			}
		}
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}
		return repos.Carts.ClearByUserID(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		Success: true,
		Message: "pedido creado con éxito",
		Order:   toOrderResponse(order, details),
		Payment: toPaymentResponse(payment),
	}, nil
}

// validateRequest revisa la forma de la solicitud antes de tocar la BD.
func validateRequest(in dto.CheckoutRequest) error {
	if in.UserID == "" || len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.ShippingAddress) == "" || strings.TrimSpace(in.PaymentMethod) == "" {
		return domain.ErrInvalidInput
	}
	if in.TotalAmount.IsNegative() {
		return domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.BookID == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// GetOrder obtiene un pedido con su detalle.
func (uc *CheckoutUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	details, err := uc.orderRepo.ListDetailsByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener detalle del pedido: %w", err)
	}
	resp := toOrderResponse(order, details)
	return &resp, nil
}

// GetPaymentForOrder obtiene el pago de un pedido.
func (uc *CheckoutUseCase) GetPaymentForOrder(ctx context.Context, orderID string) (*dto.PaymentResponse, error) {
	payment, err := uc.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("obtener pago: %w", err)
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	resp := toPaymentResponse(payment)
	return &resp, nil
}

// ListOrdersForUser lista los pedidos de un usuario (más recientes primero) con su detalle.
func (uc *CheckoutUseCase) ListOrdersForUser(ctx context.Context, userID string) ([]dto.OrderResponse, error) {
	orders, err := uc.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		details, err := uc.orderRepo.ListDetailsByOrderID(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("obtener detalle del pedido: %w", err)
		}
		out = append(out, toOrderResponse(o, details))
	}
	return out, nil
}

// publish envía un evento después del commit. Un fallo del broker no revierte el pedido.
func (uc *CheckoutUseCase) publish(ctx context.Context, eventType, key string, payload any) {
	if err := uc.publisher.Publish(ctx, eventType, key, payload); err != nil {
		uc.log.Warn().Err(err).Str("event", eventType).Str("order_id", key).Msg("publicar evento")
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrPriceMismatch):
		return "price_mismatch"
	case errors.Is(err, domain.ErrTotalMismatch):
		return "total_mismatch"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrConflict):
		return "duplicate"
	default:
		return "internal"
	}
}

func orderCreatedPayload(resp *dto.CheckoutResponse) map[string]any {
	items := make([]map[string]any, 0, len(resp.Order.Details))
	for _, d := range resp.Order.Details {
		items = append(items, map[string]any{
			"book_id":  d.BookID,
			"quantity": d.Quantity,
			"price":    d.PriceAtOrder.StringFixed(2),
		})
	}
	return map[string]any{
		"order_id":       resp.Order.ID,
		"user_id":        resp.Order.UserID,
		"total_amount":   resp.Order.TotalAmount.StringFixed(2),
		"payment_method": resp.Payment.PaymentMethod,
		"items":          items,
	}
}

func toOrderResponse(o *entity.Order, details []*entity.OrderDetail) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Status:          o.Status,
		OrderDate:       o.OrderDate,
		Details:         make([]dto.OrderDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.OrderDetailResponse{
			ID:           d.ID,
			BookID:       d.BookID,
			Quantity:     d.Quantity,
			PriceAtOrder: d.PriceAtOrder,
			Subtotal:     d.Subtotal(),
		})
	}
	return resp
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
	}
}
