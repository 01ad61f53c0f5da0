package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
)

// DocumentFilter criterios de consulta de entradas y salidas.
type DocumentFilter struct {
	ProductID string
	UserID    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// Normalize aplica los mismos valores por defecto que el kardex.
func (f *DocumentFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultMovementLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// EntryRepository puerto de persistencia para Entry.
type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id string) (*entity.Entry, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Entry, error)
}

// ExitRepository puerto de persistencia para Exit.
type ExitRepository interface {
	Create(ctx context.Context, exit *entity.Exit) error
	GetByID(ctx context.Context, id string) (*entity.Exit, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Exit, error)
	// SumQuantityByProduct total de unidades despachadas por producto en [from, to].
	SumQuantityByProduct(ctx context.Context, from, to time.Time) (map[string]int, error)
}
