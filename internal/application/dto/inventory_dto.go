package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryRequest body para POST /api/inventory/entries.
type EntryRequest struct {
	ProductID    string           `json:"product_id"`
	Quantity     int              `json:"quantity"`
	Observations string           `json:"observations"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"` // opcional: recalcula el precio de compra por promedio ponderado
}

// ExitRequest body para POST /api/inventory/exits.
type ExitRequest struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason"`
	Observations string `json:"observations"`
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	NewStock  int    `json:"new_stock"`
	Reason    string `json:"reason"`
}

// MovementQuery filtros de GET /api/inventory/movements (fechas en RFC3339 o YYYY-MM-DD).
type MovementQuery struct {
	PageRequest
	Type      string `query:"type"`
	ProductID string `query:"product_id"`
	UserID    string `query:"user_id"`
	From      string `query:"from"`
	To        string `query:"to"`
}

// MovementResponse un registro del kardex.
type MovementResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ProductID   string    `json:"product_id,omitempty"`
	ProductCode string    `json:"product_code,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UserID      string    `json:"user_id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	Detail      string    `json:"detail"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryResponse salida de una entrada.
type EntryResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id,omitempty"`
	ProductName  string    `json:"product_name,omitempty"`
	Quantity     int       `json:"quantity"`
	UserID       string    `json:"user_id,omitempty"`
	UserName     string    `json:"user_name,omitempty"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExitResponse salida de una salida de mercancía.
type ExitResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id,omitempty"`
	ProductName  string    `json:"product_name,omitempty"`
	Quantity     int       `json:"quantity"`
	UserID       string    `json:"user_id,omitempty"`
	UserName     string    `json:"user_name,omitempty"`
	Reason       string    `json:"reason"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	Code               string          `json:"code"`
	ProductName        string          `json:"product_name"`
	SupplierID         string          `json:"supplier_id,omitempty"`
	CurrentStock       int             `json:"current_stock"`
	StockMinimum       int             `json:"stock_minimum"`
	IdealStock         int             `json:"ideal_stock"`         // ceil(StockMinimum * 1.5)
	SuggestedOrderQty  int             `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`           // precio de compra
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	UnitsOutLast90Days int             `json:"units_out_last_90d"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
