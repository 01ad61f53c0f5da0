package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el kardex: documento, stock y movimiento se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		entries repository.EntryRepository,
		exits repository.ExitRepository,
		movements repository.MovementRepository,
	) error) error
}

// MovementReportGenerator genera la representación PDF del kardex.
type MovementReportGenerator interface {
	GenerateMovementReport(title string, movements []*entity.Movement, generatedAt time.Time) ([]byte, error)
}
