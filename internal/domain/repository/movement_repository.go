package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
)

// DefaultMovementLimit tamaño de página por defecto del kardex.
const DefaultMovementLimit = 50

// MovementFilter criterios de consulta del kardex. Los campos vacíos no filtran.
type MovementFilter struct {
	Type      string
	ProductID string
	UserID    string
	From      *time.Time // inclusive
	To        *time.Time // inclusive
	Limit     int
	Offset    int
}

// Normalize aplica los valores por defecto de paginación: límite no positivo → 50, offset negativo → 0.
func (f *MovementFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultMovementLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// MovementRepository puerto del kardex (solo inserción y lectura).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve los movimientos más recientes primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
