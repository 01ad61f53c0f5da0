package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	Products       DashboardProductsDTO `json:"products"`
	Categories     int                  `json:"categories"`
	Suppliers      int                  `json:"suppliers"`
	InventoryValue decimal.Decimal      `json:"inventory_value"` // stock * precio de compra, solo activos

	// Últimos movimientos del kardex, el más reciente primero.
	RecentMovements []MovementResponse `json:"recent_movements"`

	// Unidades del mes en curso (día 1 a hoy).
	Month DashboardMonthDTO `json:"month"`

	LowStockProducts []ProductResponse `json:"low_stock_products"`
}

// DashboardProductsDTO conteo de productos activos.
type DashboardProductsDTO struct {
	Total    int `json:"total"`
	LowStock int `json:"low_stock"`
}

// DashboardMonthDTO totales del mes.
type DashboardMonthDTO struct {
	Label      string `json:"label"` // ej: "Marzo 2026"
	EntryUnits int    `json:"entry_units"`
	ExitUnits  int    `json:"exit_units"`
}
