package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos activos en o bajo su stock mínimo,
// priorizados por margen bruto y por unidades despachadas en los últimos 90 días.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	exitRepo    repository.ExitRepository
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, exitRepo repository.ExitRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, exitRepo: exitRepo, now: time.Now}
}

// GenerateReplenishmentList devuelve las sugerencias de pedido ordenadas por prioridad (1 = más urgente).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos en o bajo el stock mínimo
	products, err := uc.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Unidades despachadas por producto (últimos 90 días)
	end := uc.now()
	start := end.AddDate(0, 0, -90)
	unitsOut, err := uc.exitRepo.SumQuantityByProduct(ctx, start, end)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		ideal := decimal.NewFromInt(int64(p.StockMinimum)).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
		suggested := int(ideal) - p.Stock
		if suggested < 0 {
			suggested = 0
		}
		var margin decimal.Decimal
		if p.SalePrice.GreaterThan(decimal.Zero) {
			margin = p.SalePrice.Sub(p.PurchasePrice).Div(p.SalePrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			Code:               p.Code,
			ProductName:        p.Name,
			SupplierID:         p.SupplierID,
			CurrentStock:       p.Stock,
			StockMinimum:       p.StockMinimum,
			IdealStock:         int(ideal),
			SuggestedOrderQty:  suggested,
			UnitCost:           p.PurchasePrice,
			EstimatedOrderCost: p.PurchasePrice.Mul(decimal.NewFromInt(int64(suggested))),
			GrossMarginPct:     margin,
			UnitsOutLast90Days: unitsOut[p.ID],
		})
	}

	// 3. Ordenar: mayor margen, luego mayor rotación, finalmente mayor déficit bajo el mínimo.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsOutLast90Days != b.UnitsOutLast90Days {
			return a.UnitsOutLast90Days > b.UnitsOutLast90Days
		}
		return a.StockMinimum-a.CurrentStock > b.StockMinimum-b.CurrentStock
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
