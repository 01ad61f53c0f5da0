package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s  *Store
	tx bool
}

func (st *state) product(p entity.Product) *entity.Product {
	if c, ok := st.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	if s, ok := st.suppliers[p.SupplierID]; ok {
		p.SupplierName = s.Name
	}
	return &p
}

func (st *state) codeTaken(code, exceptID string) bool {
	for id, p := range st.products {
		if id != exceptID && strings.EqualFold(p.Code, code) {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.do(r.tx, func(st *state) error {
		if st.codeTaken(product.Code, "") {
			return domain.ErrDuplicate
		}
		if product.Stock < 0 {
			return fmt.Errorf("memory: stock negativo para %s", product.Code)
		}
		p := *product
		p.CategoryName, p.SupplierName = "", ""
		st.products[p.ID] = p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.do(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = st.product(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.do(r.tx, func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.Code, code) {
				out = st.product(p)
				break
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de Run el mutex del Store ya da exclusión mutua.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.s.do(r.tx, func(st *state) error {
		list := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			if search != "" && !strings.Contains(strings.ToLower(p.Code), search) && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if f.SupplierID != "" && p.SupplierID != f.SupplierID {
				continue
			}
			if f.LowStock && !p.IsLowStock() {
				continue
			}
			if f.OnlyActive && !p.Active {
				continue
			}
			list = append(list, st.product(p))
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.List(ctx, repository.ProductFilter{LowStock: true, OnlyActive: true})
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.s.do(r.tx, func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if st.codeTaken(product.Code, product.ID) {
			return domain.ErrDuplicate
		}
		stock := cur.Stock
		cur = *product
		cur.Stock = stock
		cur.CategoryName, cur.SupplierName = "", ""
		cur.UpdatedAt = time.Now()
		st.products[product.ID] = cur
		return nil
	})
}

// AddStock emula el CHECK (stock >= 0) de la tabla products.
func (r *ProductRepo) AddStock(_ context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.s.do(r.tx, func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Stock+delta < 0 {
			return fmt.Errorf("memory: violación de products_stock_check (stock %d, delta %d)", cur.Stock, delta)
		}
		cur.Stock += delta
		cur.UpdatedAt = time.Now()
		st.products[id] = cur
		stock = cur.Stock
		return nil
	})
	return stock, err
}

// Delete emula ON DELETE SET NULL sobre entradas, salidas y movimientos.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.s.do(r.tx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		for i := range st.entries {
			if st.entries[i].ProductID == id {
				st.entries[i].ProductID = ""
			}
		}
		for i := range st.exits {
			if st.exits[i].ProductID == id {
				st.exits[i].ProductID = ""
			}
		}
		for i := range st.movements {
			if st.movements[i].ProductID == id {
				st.movements[i].ProductID = ""
			}
		}
		return nil
	})
}
