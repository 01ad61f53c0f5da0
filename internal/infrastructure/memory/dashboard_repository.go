package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados del tablero en memoria.
type DashboardRepo struct {
	s *Store
}

// Dashboard repositorio de agregados del tablero.
func (s *Store) Dashboard() *DashboardRepo { return &DashboardRepo{s: s} }

func (r *DashboardRepo) Totals(_ context.Context, from, to time.Time) (*repository.InventoryTotals, error) {
	t := &repository.InventoryTotals{InventoryValue: decimal.Zero}
	err := r.s.do(false, func(st *state) error {
		for _, p := range st.products {
			if !p.Active {
				continue
			}
			t.ActiveProducts++
			if p.IsLowStock() {
				t.LowStock++
			}
			t.InventoryValue = t.InventoryValue.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Stock))))
		}
		t.Categories = len(st.categories)
		t.Suppliers = len(st.suppliers)
		for _, e := range st.entries {
			if inRange(e.CreatedAt, &from, &to) {
				t.EntryUnits += e.Quantity
			}
		}
		for _, x := range st.exits {
			if inRange(x.CreatedAt, &from, &to) {
				t.ExitUnits += x.Quantity
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
