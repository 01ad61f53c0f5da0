package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productSelect = `
		SELECT p.id, p.code, p.name, p.description,
			COALESCE(p.category_id::text, ''), COALESCE(p.supplier_id::text, ''),
			p.stock, p.stock_minimum, p.purchase_price, p.sale_price, p.active,
			p.created_at, p.updated_at, COALESCE(c.name, ''), COALESCE(s.name, '')
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN suppliers s ON s.id = p.supplier_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con su stock inicial.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, code, name, description, category_id, supplier_id, stock, stock_minimum,
			purchase_price, sale_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Name, product.Description,
		nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.Stock, product.StockMinimum, product.PurchasePrice, product.SalePrice, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, "get product", productSelect+` WHERE p.id = $1`, id)
}

// GetByCode obtiene un producto por código (sin distinguir mayúsculas).
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.findOne(ctx, "get product by code", productSelect+` WHERE lower(p.code) = lower($1)`, code)
}

// GetForUpdate obtiene el producto y bloquea su fila hasta el fin de la tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, "lock product", productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

// List lista productos con filtros opcionales, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query := productSelect + ` WHERE 1=1`
	args := []any{}
	argPos := 1

	if s := strings.TrimSpace(f.Search); s != "" {
		query += fmt.Sprintf(` AND (p.code ILIKE $%d OR p.name ILIKE $%d)`, argPos, argPos)
		args = append(args, "%"+s+"%")
		argPos++
	}
	if f.CategoryID != "" {
		query += fmt.Sprintf(` AND p.category_id::text = $%d`, argPos)
		args = append(args, f.CategoryID)
		argPos++
	}
	if f.SupplierID != "" {
		query += fmt.Sprintf(` AND p.supplier_id::text = $%d`, argPos)
		args = append(args, f.SupplierID)
		argPos++
	}
	if f.LowStock {
		query += ` AND p.stock <= p.stock_minimum`
	}
	if f.OnlyActive {
		query += ` AND p.active`
	}
	query += ` ORDER BY p.name`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, argPos, argPos+1)
		args = append(args, f.Limit, max(f.Offset, 0))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListLowStock productos activos con stock <= stock mínimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.List(ctx, repository.ProductFilter{LowStock: true, OnlyActive: true})
}

// Update actualiza los datos de catálogo. No modifica Stock (se maneja vía kardex).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, description = $4, category_id = $5, supplier_id = $6,
			stock_minimum = $7, purchase_price = $8, sale_price = $9, active = $10, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Name, product.Description,
		nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.StockMinimum, product.PurchasePrice, product.SalePrice, product.Active,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddStock suma delta al stock en una sola sentencia y devuelve el stock resultante.
// El CHECK (stock >= 0) de la tabla rechaza los resultados negativos.
func (r *ProductRepo) AddStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		id, delta,
	).Scan(&stock)
	if err != nil {
		if isNoRows(err) {
			return 0, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return 0, fmt.Errorf("add stock: %w", domain.ErrInsufficientStock)
		}
		return 0, fmt.Errorf("add stock: %w", err)
	}
	return stock, nil
}

// Delete elimina un producto. Entradas, salidas y movimientos quedan con product_id NULL (ON DELETE SET NULL).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) findOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID,
		&p.Stock, &p.StockMinimum, &p.PurchasePrice, &p.SalePrice, &p.Active,
		&p.CreatedAt, &p.UpdatedAt, &p.CategoryName, &p.SupplierName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
