// seed_catalog importa el catálogo de productos desde el CSV exportado por el sistema anterior.
//
// Uso: go run ./cmd/seed_catalog [-utf8] [-dry-run] ruta/catalogo.csv
//
// El archivo viene en ISO-8859-1 (exportación de Excel) separado por ';' con encabezado:
//
//	codigo;nombre;categoria;proveedor;stock;stock_minimo;precio_compra;precio_venta
//
// Categorías y proveedores se crean por nombre si no existen. Los códigos ya registrados se omiten.
// Cada producto nuevo deja su movimiento de creación en el kardex.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/application/usecase"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ferreteria/pkg/config"
	"github.com/jhoicas/inventario-ferreteria/pkg/logger"
)

func main() {
	utf8 := flag.Bool("utf8", false, "el archivo ya está en UTF-8")
	dryRun := flag.Bool("dry-run", false, "solo valida el archivo")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: seed_catalog [-utf8] [-dry-run] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(f, !*utf8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d productos leídos\n", len(rows))
	if *dryRun {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_catalog"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	categories := postgres.NewCategoryRepository(pool)
	suppliers := postgres.NewSupplierRepository(pool)
	imp := &importer{
		products:   usecase.NewProductUseCase(postgres.NewTxRunner(pool), postgres.NewProductRepository(pool), categories, suppliers, log.Zerolog()),
		categories: categories,
		categoryUC: usecase.NewCategoryUseCase(categories),
		suppliers:  suppliers,
		supplierUC: usecase.NewSupplierUseCase(suppliers),
		log:        log.Zerolog(),
	}
	created, skipped, err := imp.run(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Msg("importación interrumpida")
	}
	log.Info().Int("creados", created).Int("omitidos", skipped).Msg("catálogo importado")
}

// importer crea categorías, proveedores y productos del catálogo.
type importer struct {
	products   *usecase.ProductUseCase
	categories repository.CategoryRepository
	categoryUC *usecase.CategoryUseCase
	suppliers  repository.SupplierRepository
	supplierUC *usecase.SupplierUseCase
	log        zerolog.Logger

	supplierIDs map[string]string
}

func (imp *importer) run(ctx context.Context, rows []catalogRow) (created, skipped int, err error) {
	for _, r := range rows {
		categoryID, err := imp.categoryID(ctx, r.Category)
		if err != nil {
			return created, skipped, fmt.Errorf("línea %d: categoría: %w", r.Line, err)
		}
		supplierID, err := imp.supplierID(ctx, r.Supplier)
		if err != nil {
			return created, skipped, fmt.Errorf("línea %d: proveedor: %w", r.Line, err)
		}
		_, err = imp.products.Create(ctx, "", dto.CreateProductRequest{
			Code:          r.Code,
			Name:          r.Name,
			CategoryID:    categoryID,
			SupplierID:    supplierID,
			Stock:         r.Stock,
			StockMinimum:  r.StockMinimum,
			PurchasePrice: r.PurchasePrice,
			SalePrice:     r.SalePrice,
		})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
			imp.log.Debug().Str("code", r.Code).Msg("código existente, se omite")
		case domain.KindOf(err) == domain.KindValidation:
			skipped++
			imp.log.Warn().Err(err).Int("line", r.Line).Str("code", r.Code).Msg("producto inválido, se omite")
		case err != nil:
			return created, skipped, fmt.Errorf("línea %d: %w", r.Line, err)
		default:
			created++
		}
	}
	return created, skipped, nil
}

func (imp *importer) categoryID(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	c, err := imp.categories.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	if c != nil {
		return c.ID, nil
	}
	out, err := imp.categoryUC.Create(ctx, dto.CategoryRequest{Name: name})
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

func (imp *importer) supplierID(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if imp.supplierIDs == nil {
		list, err := imp.suppliers.List(ctx)
		if err != nil {
			return "", err
		}
		imp.supplierIDs = make(map[string]string, len(list))
		for _, s := range list {
			imp.supplierIDs[strings.ToLower(s.Name)] = s.ID
		}
	}
	if id, ok := imp.supplierIDs[strings.ToLower(name)]; ok {
		return id, nil
	}
	out, err := imp.supplierUC.Create(ctx, dto.SupplierRequest{Name: name})
	if err != nil {
		return "", err
	}
	imp.supplierIDs[strings.ToLower(name)] = out.ID
	return out.ID, nil
}
