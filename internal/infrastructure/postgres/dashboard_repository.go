package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados del tablero en una sola ida a la base.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Totals implementa repository.DashboardRepository.
func (r *DashboardRepo) Totals(ctx context.Context, from, to time.Time) (*repository.InventoryTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE active),
			(SELECT COUNT(*) FROM products WHERE active AND stock <= stock_minimum),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM suppliers),
			(SELECT COALESCE(SUM(stock * purchase_price), 0) FROM products WHERE active),
			(SELECT COALESCE(SUM(quantity), 0) FROM entries WHERE created_at BETWEEN $1 AND $2),
			(SELECT COALESCE(SUM(quantity), 0) FROM exits WHERE created_at BETWEEN $1 AND $2)`
	var t repository.InventoryTotals
	err := r.q.QueryRow(ctx, query, from, to).Scan(
		&t.ActiveProducts, &t.LowStock, &t.Categories, &t.Suppliers,
		&t.InventoryValue, &t.EntryUnits, &t.ExitUnits,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return &t, nil
}
