package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
	"github.com/jhoicas/inventario-ferreteria/pkg/ids"
)

// ProductUseCase casos de uso CRUD para productos. Stock solo cambia vía kardex; cada alta,
// edición y baja deja su movimiento de ciclo de vida en la misma transacción.
type ProductUseCase struct {
	tx         inventory.TxRunner
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	log        zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	tx inventory.TxRunner,
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		tx:         tx,
		repo:       repo,
		categories: categories,
		suppliers:  suppliers,
		log:        log.With().Str("component", "products").Logger(),
	}
}

func validatePrices(purchase, sale decimal.Decimal) error {
	if purchase.IsNegative() {
		return domain.NewValidationError("purchase_price", "el precio de compra no puede ser negativo")
	}
	if sale.IsNegative() {
		return domain.NewValidationError("sale_price", "el precio de venta no puede ser negativo")
	}
	return nil
}

// checkRefs verifica que la categoría y el proveedor referenciados existan.
func (uc *ProductUseCase) checkRefs(ctx context.Context, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := uc.categories.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewValidationError("category_id", "la categoría no existe")
		}
	}
	if supplierID != "" {
		s, err := uc.suppliers.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NewValidationError("supplier_id", "el proveedor no existe")
		}
	}
	return nil
}

// Create crea un producto con su stock inicial y registra el movimiento "creation".
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validatePrices(in.PurchasePrice, in.SalePrice); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, uc.fail("create_product", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, uc.fail("create_product", err)
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		SupplierID:    in.SupplierID,
		Stock:         in.Stock,
		StockMinimum:  in.StockMinimum,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.tx.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, _ repository.ExitRepository, movements repository.MovementRepository) error {
		if err := products.Create(ctx, product); err != nil {
			return err
		}
		return movements.Create(ctx, &entity.Movement{
			ID:        ids.NewAt(now),
			Type:      entity.MovementTypeCreation,
			ProductID: product.ID,
			UserID:    userID,
			Detail:    fmt.Sprintf("Producto creado: %s - %s (stock inicial %d)", product.Code, product.Name, product.Stock),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, uc.fail("create_product", err)
	}
	uc.log.Info().Str("product_id", product.ID).Str("code", product.Code).Msg("producto creado")
	return uc.GetByID(ctx, product.ID)
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, uc.fail("get_product", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Stock (se maneja vía kardex).
// El movimiento "update" lista los campos modificados.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.PurchasePrice != nil || in.SalePrice != nil {
		purchase, sale := decimal.Zero, decimal.Zero
		if in.PurchasePrice != nil {
			purchase = *in.PurchasePrice
		}
		if in.SalePrice != nil {
			sale = *in.SalePrice
		}
		if err := validatePrices(purchase, sale); err != nil {
			return nil, err
		}
	}
	var categoryID, supplierID string
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		supplierID = *in.SupplierID
	}
	if err := uc.checkRefs(ctx, categoryID, supplierID); err != nil {
		return nil, uc.fail("update_product", err)
	}

	now := time.Now()
	err := uc.tx.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, _ repository.ExitRepository, movements repository.MovementRepository) error {
		product, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		changed := applyProductChanges(product, in)
		if len(changed) == 0 {
			return nil
		}
		if in.Code != nil {
			other, err := products.GetByCode(ctx, product.Code)
			if err != nil {
				return err
			}
			if other != nil && other.ID != product.ID {
				return domain.ErrDuplicate
			}
		}
		product.UpdatedAt = now
		if err := products.Update(ctx, product); err != nil {
			return err
		}
		return movements.Create(ctx, &entity.Movement{
			ID:        ids.NewAt(now),
			Type:      entity.MovementTypeUpdate,
			ProductID: product.ID,
			UserID:    userID,
			Detail:    "Producto actualizado: " + strings.Join(changed, ", "),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, uc.fail("update_product", err)
	}
	return uc.GetByID(ctx, id)
}

// applyProductChanges aplica los campos no nulos y devuelve los nombres de los que cambiaron.
func applyProductChanges(p *entity.Product, in dto.UpdateProductRequest) []string {
	var changed []string
	setString := func(name string, dst *string, src *string) {
		if src != nil && strings.TrimSpace(*src) != *dst {
			*dst = strings.TrimSpace(*src)
			changed = append(changed, name)
		}
	}
	setString("code", &p.Code, in.Code)
	setString("name", &p.Name, in.Name)
	setString("description", &p.Description, in.Description)
	setString("category_id", &p.CategoryID, in.CategoryID)
	setString("supplier_id", &p.SupplierID, in.SupplierID)
	if in.StockMinimum != nil && *in.StockMinimum != p.StockMinimum {
		p.StockMinimum = *in.StockMinimum
		changed = append(changed, "stock_minimum")
	}
	if in.PurchasePrice != nil && !in.PurchasePrice.Equal(p.PurchasePrice) {
		p.PurchasePrice = *in.PurchasePrice
		changed = append(changed, "purchase_price")
	}
	if in.SalePrice != nil && !in.SalePrice.Equal(p.SalePrice) {
		p.SalePrice = *in.SalePrice
		changed = append(changed, "sale_price")
	}
	if in.Active != nil && *in.Active != p.Active {
		p.Active = *in.Active
		changed = append(changed, "active")
	}
	return changed
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ListResponse[dto.ProductResponse], error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:     in.Search,
		CategoryID: in.CategoryID,
		SupplierID: in.SupplierID,
		LowStock:   in.LowStock,
		OnlyActive: in.Active,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, uc.fail("list_products", err)
	}
	return &dto.ListResponse[dto.ProductResponse]{
		Success: true,
		Data:    toProductResponses(list),
		Page:    dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// LowStock lista los productos activos en o bajo su stock mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, uc.fail("low_stock", err)
	}
	return toProductResponses(list), nil
}

// Delete elimina un producto. El movimiento "deletion" se inserta antes del borrado y
// queda en el kardex con product_id nulo.
func (uc *ProductUseCase) Delete(ctx context.Context, userID, id string) error {
	now := time.Now()
	err := uc.tx.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, _ repository.ExitRepository, movements repository.MovementRepository) error {
		product, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := movements.Create(ctx, &entity.Movement{
			ID:        ids.NewAt(now),
			Type:      entity.MovementTypeDeletion,
			ProductID: product.ID,
			UserID:    userID,
			Detail:    fmt.Sprintf("Producto eliminado: %s - %s", product.Code, product.Name),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return products.Delete(ctx, id)
	})
	if err != nil {
		return uc.fail("delete_product", err)
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

func (uc *ProductUseCase) fail(op string, err error) error {
	if domain.IsDomainError(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("falla inesperada")
	return domain.ErrTransaction
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items
}

// ToProductResponse convierte un producto a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Stock:         p.Stock,
		StockMinimum:  p.StockMinimum,
		LowStock:      p.IsLowStock(),
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
