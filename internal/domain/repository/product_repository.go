package repository

import (
	"context"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
)

// ProductFilter criterios de búsqueda de productos.
type ProductFilter struct {
	Search     string // coincidencia parcial en código o nombre
	CategoryID string
	SupplierID string
	LowStock   bool
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea su fila (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ListLowStock productos activos con stock <= stock mínimo.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	// Update persiste los datos de catálogo; no toca el stock.
	Update(ctx context.Context, product *entity.Product) error
	// AddStock suma delta (puede ser negativo) al stock y devuelve el stock resultante.
	AddStock(ctx context.Context, id string, delta int) (int, error)
	Delete(ctx context.Context, id string) error
}
