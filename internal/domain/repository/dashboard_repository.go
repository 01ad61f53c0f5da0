package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryTotals conteos y sumas del catálogo y del kardex. Lo produce la DB.
type InventoryTotals struct {
	ActiveProducts int
	LowStock       int // activos con stock <= stock mínimo
	Categories     int
	Suppliers      int
	InventoryValue decimal.Decimal // SUM(stock * purchase_price) de productos activos
	EntryUnits     int             // unidades ingresadas en el período
	ExitUnits      int             // unidades despachadas en el período
}

// DashboardRepository consultas de solo lectura para el tablero.
type DashboardRepository interface {
	// Totals calcula los agregados; las sumas de entradas y salidas se limitan a [from, to].
	// Sin filas devuelve ceros, nunca nil.
	Totals(ctx context.Context, from, to time.Time) (*InventoryTotals, error)
}
