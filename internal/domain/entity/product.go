package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock solo cambia por el kardex (entradas, salidas y ajustes); nunca por edición directa.
type Product struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	CategoryID    string // vacío si no tiene categoría
	SupplierID    string // vacío si no tiene proveedor
	Stock         int
	StockMinimum  int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Solo lectura, resueltos en listados.
	CategoryName string
	SupplierName string
}

// IsLowStock indica si el producto está en o por debajo del stock mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.StockMinimum
}
