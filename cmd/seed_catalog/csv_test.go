package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ferreteria/internal/application/usecase"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/memory"
)

const header = "codigo;nombre;categoria;proveedor;stock;stock_minimo;precio_compra;precio_venta\n"

func TestParseCatalog_Latin1(t *testing.T) {
	// "Martillo de uña" y "Tornillería" en ISO-8859-1.
	raw := []byte(header +
		"MRT-001;Martillo de u\xf1a;Herramientas;Ferreter\xeda Central;12;5;$ 18.000,50;25.000\n" +
		"TOR-010;Torniller\xeda 1/4;;;100;20;150;300.5\n")

	rows, err := parseCatalog(bytes.NewReader(raw), true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Martillo de uña", rows[0].Name)
	assert.Equal(t, "Ferretería Central", rows[0].Supplier)
	assert.Equal(t, 12, rows[0].Stock)
	assert.True(t, decimal.RequireFromString("18000.50").Equal(rows[0].PurchasePrice))
	assert.True(t, decimal.NewFromInt(25000).Equal(rows[0].SalePrice))
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "Tornillería 1/4", rows[1].Name)
	assert.Empty(t, rows[1].Category)
	assert.True(t, decimal.RequireFromString("300.5").Equal(rows[1].SalePrice))
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("code;name\n"), false)
	assert.Error(t, err, "encabezado con columnas de menos")

	_, err = parseCatalog(strings.NewReader(header+"X;Y;;;diez;1;1;2\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
	assert.Contains(t, err.Error(), "stock")

	_, err = parseCatalog(strings.NewReader(header+";Sin código;;;1;1;1;2\n"), false)
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"$ 18.500,50": "18500.5",
		"18500.5":     "18500.5",
		"18.500":      "18500",
		"1.250.000":   "1250000",
		"":            "0",
		"0,99":        "0.99",
	}
	for in, want := range cases {
		got, err := parsePrice(in)
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%q → %s", in, got)
	}
}

func TestImporter_CreaCatalogoYOmiteExistentes(t *testing.T) {
	store := memory.NewStore()
	imp := &importer{
		products:   usecase.NewProductUseCase(store, store.Products(), store.Categories(), store.Suppliers(), zerolog.Nop()),
		categories: store.Categories(),
		categoryUC: usecase.NewCategoryUseCase(store.Categories()),
		suppliers:  store.Suppliers(),
		supplierUC: usecase.NewSupplierUseCase(store.Suppliers()),
		log:        zerolog.Nop(),
	}
	rows, err := parseCatalog(strings.NewReader(header+
		"MRT-001;Martillo;Herramientas;Central;12;5;18000;25000\n"+
		"DST-002;Destornillador;herramientas;CENTRAL;4;5;5000;8000\n"), false)
	require.NoError(t, err)

	ctx := context.Background()
	created, skipped, err := imp.run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, skipped)

	cats, err := store.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1, "la categoría se reutiliza sin distinguir mayúsculas")
	sups, err := store.Suppliers().List(ctx)
	require.NoError(t, err)
	assert.Len(t, sups, 1)

	created, skipped, err = imp.run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, skipped)

	movements, err := store.Movements().List(ctx, repository.MovementFilter{Type: "creation"})
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}
