package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	InventoryTypeImport = "import" // entrada
	InventoryTypeExport = "export" // salida por despacho de pedido
)

// InventoryTransaction registra un movimiento de stock de un libro.
// Las salidas (export) se crean solo al despachar un pedido.
type InventoryTransaction struct {
	ID        string
	BookID    string
	OrderID   string
	Type      string
	Quantity  int
	UnitPrice decimal.Decimal
	UserID    string
	CreatedAt time.Time
}
