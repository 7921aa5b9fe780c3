package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bookstore-api/internal/application/checkout"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

func TestGenerateReceiptPDF(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	data := checkout.ReceiptData{
		Order: &entity.Order{
			ID: "6f1c2d3e-0000-4000-8000-000000000001", UserID: "u1",
			TotalAmount: decimal.RequireFromString("41.00"), ShippingAddress: "Calle 10 # 5-20",
			Status: entity.OrderStatusProcessing, OrderDate: now,
		},
		User:    &entity.User{ID: "u1", Username: "lectora", Email: "l@x.com", FullName: "Ana Pérez"},
		Payment: &entity.Payment{ID: "p1", OrderID: "o1", Amount: decimal.RequireFromString("41.00"), PaymentMethod: "card", PaymentDate: now},
		Lines: []checkout.ReceiptLine{
			{OrderDetail: entity.OrderDetail{BookID: "b1", Quantity: 2, PriceAtOrder: decimal.RequireFromString("10.50")}, Title: "Cien años de soledad"},
			{OrderDetail: entity.OrderDetail{BookID: "b2", Quantity: 1, PriceAtOrder: decimal.RequireFromString("20.00")}, Title: "Rayuela"},
		},
	}

	out, err := NewMarotoReceiptGenerator("Librería").GenerateReceiptPDF(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestMoney_FormatoEspañol(t *testing.T) {
	g := NewMarotoReceiptGenerator("Librería")
	assert.Equal(t, "$12.345,50", g.money(decimal.RequireFromString("12345.5")))
	assert.Equal(t, "$0,99", g.money(decimal.RequireFromString("0.985")))
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, "x", nonEmpty("x", "y"))
	assert.Equal(t, "y", nonEmpty("", "y"))
}
