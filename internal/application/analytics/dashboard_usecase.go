// Package analytics contiene el tablero de inventario: conteos del catálogo,
// valor del inventario y actividad reciente del kardex.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/application/usecase"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

// RecentMovements movimientos que muestra el tablero.
const RecentMovements = 10

// DashboardUseCase arma el resumen del tablero. Solo lectura.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
	movementRepo  repository.MovementRepository
	productRepo   repository.ProductRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	dashboardRepo repository.DashboardRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) *DashboardUseCase {
	return &DashboardUseCase{dashboardRepo: dashboardRepo, movementRepo: movementRepo, productRepo: productRepo, now: time.Now}
}

// WithClock reemplaza el reloj; para pruebas.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardDTO.
//
// Tres consultas en paralelo:
//  1. Totals(mes)         → conteos, valor del inventario, unidades del mes
//  2. movimientos (10)    → RecentMovements
//  3. ListLowStock        → LowStockProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type totalsResult struct {
		totals *repository.InventoryTotals
		err    error
	}
	type movementsResult struct {
		list []*entity.Movement
		err  error
	}
	type lowStockResult struct {
		list []*entity.Product
		err  error
	}

	totalsCh := make(chan totalsResult, 1)
	movementsCh := make(chan movementsResult, 1)
	lowStockCh := make(chan lowStockResult, 1)

	go func() {
		t, err := uc.dashboardRepo.Totals(ctx, monthStart, now)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		list, err := uc.movementRepo.List(ctx, repository.MovementFilter{Limit: RecentMovements})
		movementsCh <- movementsResult{list, err}
	}()
	go func() {
		list, err := uc.productRepo.ListLowStock(ctx)
		lowStockCh <- lowStockResult{list, err}
	}()

	totals := <-totalsCh
	movements := <-movementsCh
	lowStock := <-lowStockCh

	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", totals.err)
	}
	if movements.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", movements.err)
	}
	if lowStock.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", lowStock.err)
	}

	recent := make([]dto.MovementResponse, 0, len(movements.list))
	for _, m := range movements.list {
		recent = append(recent, inventory.ToMovementResponse(m))
	}
	low := make([]dto.ProductResponse, 0, len(lowStock.list))
	for _, p := range lowStock.list {
		low = append(low, *usecase.ToProductResponse(p))
	}

	t := totals.totals
	return &dto.DashboardDTO{
		Products:        dto.DashboardProductsDTO{Total: t.ActiveProducts, LowStock: t.LowStock},
		Categories:      t.Categories,
		Suppliers:       t.Suppliers,
		InventoryValue:  t.InventoryValue.Round(2),
		RecentMovements: recent,
		Month: dto.DashboardMonthDTO{
			Label:      monthLabel(now),
			EntryUnits: t.EntryUnits,
			ExitUnits:  t.ExitUnits,
		},
		LowStockProducts: low,
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
