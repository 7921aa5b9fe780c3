package checkout

import (
	"context"
	"fmt"

	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	"github.com/jhoicas/bookstore-api/internal/domain/repository"
)

// ReceiptLine línea del comprobante enriquecida con el título del libro.
type ReceiptLine struct {
	entity.OrderDetail
	Title string
}

// ReceiptData datos completos para renderizar el comprobante de un pedido.
type ReceiptData struct {
	Order   *entity.Order
	User    *entity.User
	Payment *entity.Payment
	Lines   []ReceiptLine
}

// ReceiptGenerator puerto de salida para la representación gráfica (PDF) del comprobante.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data ReceiptData) ([]byte, error)
}

// ReceiptUseCase genera el comprobante PDF de un pedido.
type ReceiptUseCase struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	bookRepo    repository.BookRepository
	generator   ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		bookRepo:    bookRepo,
		generator:   generator,
	}
}

// DownloadReceipt recupera pedido, cliente, pago y líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrOrderNotFound    si el pedido no existe.
//   - domain.ErrForbidden        si el pedido no es del solicitante y este no es personal interno.
//   - domain.ErrPaymentNotFound  si el pedido no tiene pago registrado.
func (uc *ReceiptUseCase) DownloadReceipt(
	ctx context.Context,
	orderID, requesterID string,
	privileged bool,
) (pdfBytes []byte, filename string, err error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener pedido: %w", err)
	}
	if o == nil {
		return nil, "", domain.ErrOrderNotFound
	}
	if !privileged && o.UserID != requesterID {
		return nil, "", domain.ErrForbidden
	}

	payment, err := uc.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener pago: %w", err)
	}
	if payment == nil {
		return nil, "", domain.ErrPaymentNotFound
	}

	user, err := uc.userRepo.GetByID(ctx, o.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, "", domain.ErrUserNotFound
	}

	details, err := uc.orderRepo.ListDetailsByOrderID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener detalles: %w", err)
	}
	lines := make([]ReceiptLine, 0, len(details))
	for _, d := range details {
		title := "Libro " + d.BookID // fallback
		if book, bErr := uc.bookRepo.GetByID(ctx, d.BookID); bErr == nil && book != nil {
			title = book.Title
		}
		lines = append(lines, ReceiptLine{OrderDetail: *d, Title: title})
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, ReceiptData{
		Order:   o,
		User:    user,
		Payment: payment,
		Lines:   lines,
	})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("pedido_%s.pdf", o.ID), nil
}
