package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID = "prod-martillo"
	testUserID    = "user-operador"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// fixedClock devuelve un reloj que avanza un segundo en cada llamada.
func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func seedStore(t *testing.T, stock int) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: testUserID, Name: "Ana Operadora", Email: "ana@ferreteria.co", Role: entity.RoleOperator, Active: true,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID:            testProductID,
		Code:          "MRT-001",
		Name:          "Martillo de uña",
		Stock:         stock,
		StockMinimum:  5,
		PurchasePrice: decimal.NewFromInt(18000),
		SalePrice:     decimal.NewFromInt(25000),
		Active:        true,
	}))
	return store
}

func newLedger(store *memory.Store, runner inventory.TxRunner) *inventory.LedgerUseCase {
	if runner == nil {
		runner = store
	}
	return inventory.NewLedgerUseCase(runner, store.Movements(), store.Entries(), store.Exits(), nil,
		zerolog.Nop(), inventory.WithLedgerClock(fixedClock()))
}

func stockOf(t *testing.T, store *memory.Store) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), testProductID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func allMovements(t *testing.T, store *memory.Store) []*entity.Movement {
	t.Helper()
	list, err := store.Movements().List(context.Background(), repository.MovementFilter{Limit: 1000})
	require.NoError(t, err)
	return list
}

// failingMovements falla al insertar el movimiento para forzar el rollback.
type failingMovements struct {
	repository.MovementRepository
}

func (failingMovements) Create(context.Context, *entity.Movement) error {
	return errors.New("movements: disco lleno")
}

type failingRunner struct {
	store *memory.Store
}

func (r failingRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	entries repository.EntryRepository,
	exits repository.ExitRepository,
	movements repository.MovementRepository,
) error) error {
	return r.store.Run(ctx, func(p repository.ProductRepository, e repository.EntryRepository, x repository.ExitRepository, m repository.MovementRepository) error {
		return fn(p, e, x, failingMovements{m})
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_SumaStockYRegistraMovimiento(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	entry, err := uc.RecordEntry(context.Background(), inventory.EntryInput{
		ProductID: testProductID, Quantity: 7, UserID: testUserID, Observations: "Pedido 118",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, entry.Quantity)
	assert.Equal(t, "Martillo de uña", entry.ProductName)
	assert.Equal(t, 17, stockOf(t, store))

	movs := allMovements(t, store)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEntry, movs[0].Type)
	assert.Equal(t, 7, movs[0].Quantity)
	assert.Equal(t, "Entrada: Pedido 118", movs[0].Detail)
	assert.Equal(t, "Ana Operadora", movs[0].UserName)
	assert.Equal(t, "MRT-001", movs[0].ProductCode)
}

func TestRecordEntry_SinObservaciones(t *testing.T) {
	store := seedStore(t, 0)
	uc := newLedger(store, nil)

	_, err := uc.RecordEntry(context.Background(), inventory.EntryInput{ProductID: testProductID, Quantity: 1, UserID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, "Entrada: Sin observaciones", allMovements(t, store)[0].Detail)
}

func TestRecordEntry_ValidaEntrada(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    inventory.EntryInput
		field string
	}{
		{"cantidad cero", inventory.EntryInput{ProductID: testProductID, Quantity: 0, UserID: testUserID}, "quantity"},
		{"cantidad negativa", inventory.EntryInput{ProductID: testProductID, Quantity: -3, UserID: testUserID}, "quantity"},
		{"sin producto", inventory.EntryInput{Quantity: 2, UserID: testUserID}, "product_id"},
		{"sin usuario", inventory.EntryInput{ProductID: testProductID, Quantity: 2}, "user_id"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := uc.RecordEntry(ctx, c.in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, c.field, verr.Field)
		})
	}
	assert.Equal(t, 10, stockOf(t, store))
	assert.Empty(t, allMovements(t, store))
}

func TestRecordEntry_ProductoInexistente(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.RecordEntry(context.Background(), inventory.EntryInput{ProductID: "no-existe", Quantity: 2, UserID: testUserID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, allMovements(t, store))
}

func TestRecordEntry_CostoUnitarioPromediaPrecioDeCompra(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)
	cost := decimal.NewFromInt(21000)

	_, err := uc.RecordEntry(context.Background(), inventory.EntryInput{
		ProductID: testProductID, Quantity: 5, UserID: testUserID, UnitCost: &cost,
	})
	require.NoError(t, err)

	p, err := store.Products().GetByID(context.Background(), testProductID)
	require.NoError(t, err)
	// (10*18000 + 5*21000) / 15
	assert.True(t, decimal.NewFromInt(19000).Equal(p.PurchasePrice), "got %s", p.PurchasePrice)
	assert.Equal(t, 15, p.Stock)
}

func TestRecordEntry_CostoUnitarioNegativo(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)
	cost := decimal.NewFromInt(-1)

	_, err := uc.RecordEntry(context.Background(), inventory.EntryInput{
		ProductID: testProductID, Quantity: 5, UserID: testUserID, UnitCost: &cost,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit_cost", verr.Field)
	assert.Equal(t, 10, stockOf(t, store))
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordExit_RestaStockConDeltaNegativo(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	exit, err := uc.RecordExit(context.Background(), inventory.ExitInput{
		ProductID: testProductID, Quantity: 4, UserID: testUserID, Reason: "Venta mostrador", Observations: "Factura 55",
	})
	require.NoError(t, err)
	assert.Equal(t, "Venta mostrador", exit.Reason)
	assert.Equal(t, 6, stockOf(t, store))

	movs := allMovements(t, store)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeExit, movs[0].Type)
	assert.Equal(t, -4, movs[0].Quantity)
	assert.Equal(t, "Salida: Venta mostrador - Factura 55", movs[0].Detail)
}

func TestRecordExit_StockInsuficienteNoEscribeNada(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.RecordExit(context.Background(), inventory.ExitInput{
		ProductID: testProductID, Quantity: 15, UserID: testUserID, Reason: "Venta",
	})
	var serr *domain.InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 10, serr.Available)
	assert.Equal(t, 15, serr.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, stockOf(t, store))
	assert.Empty(t, allMovements(t, store))
	exits, err := store.Exits().List(context.Background(), repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Empty(t, exits)
}

func TestRecordExit_ExactamenteElStockDejaCero(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.RecordExit(context.Background(), inventory.ExitInput{ProductID: testProductID, Quantity: 10, UserID: testUserID, Reason: "Venta"})
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, store))
}

func TestRecordExit_MotivoRequerido(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.RecordExit(context.Background(), inventory.ExitInput{ProductID: testProductID, Quantity: 1, UserID: testUserID, Reason: "   "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reason", verr.Field)
}

func TestRecordExit_ConcurrentesNoDejanStockNegativo(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.RecordExit(context.Background(), inventory.ExitInput{
				ProductID: testProductID, Quantity: 8, UserID: testUserID, Reason: "Venta",
			})
		}(i)
	}
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 2, stockOf(t, store))
	assert.Len(t, allMovements(t, store), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y conservación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_FallaDelKardexRevierteTodo(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, failingRunner{store: store})

	_, err := uc.RecordEntry(context.Background(), inventory.EntryInput{ProductID: testProductID, Quantity: 5, UserID: testUserID})
	assert.ErrorIs(t, err, domain.ErrTransaction)
	assert.Equal(t, 10, stockOf(t, store))

	entries, err := store.Entries().List(context.Background(), repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLedger_ConservacionDelStock(t *testing.T) {
	const initial = 10
	store := seedStore(t, initial)
	uc := newLedger(store, nil)
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, inventory.EntryInput{ProductID: testProductID, Quantity: 12, UserID: testUserID})
	require.NoError(t, err)
	_, err = uc.RecordExit(ctx, inventory.ExitInput{ProductID: testProductID, Quantity: 7, UserID: testUserID, Reason: "Venta"})
	require.NoError(t, err)
	_, err = uc.RecordExit(ctx, inventory.ExitInput{ProductID: testProductID, Quantity: 50, UserID: testUserID, Reason: "Venta"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = uc.AdjustStock(ctx, inventory.AdjustInput{ProductID: testProductID, NewStock: 13, UserID: testUserID, Reason: "Conteo físico"})
	require.NoError(t, err)

	sum := 0
	for _, m := range allMovements(t, store) {
		sum += m.Quantity
	}
	assert.Equal(t, stockOf(t, store), initial+sum)
	assert.Equal(t, 13, stockOf(t, store))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_RegistraDelta(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	mov, err := uc.AdjustStock(context.Background(), inventory.AdjustInput{
		ProductID: testProductID, NewStock: 7, UserID: testUserID, Reason: "Conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeAdjustment, mov.Type)
	assert.Equal(t, -3, mov.Quantity)
	assert.Equal(t, "Ajuste: Conteo físico (stock 10 → 7)", mov.Detail)
	assert.Equal(t, 7, stockOf(t, store))
}

func TestAdjustStock_SinCambioEsInvalido(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: testProductID, NewStock: 10, UserID: testUserID, Reason: "Conteo"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "new_stock", verr.Field)
	assert.Empty(t, allMovements(t, store))
}

func TestAdjustStock_StockNegativoEsInvalido(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: testProductID, NewStock: -1, UserID: testUserID, Reason: "Conteo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas del kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_OrdenYFiltros(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, inventory.EntryInput{ProductID: testProductID, Quantity: 2, UserID: testUserID})
	require.NoError(t, err)
	_, err = uc.RecordExit(ctx, inventory.ExitInput{ProductID: testProductID, Quantity: 1, UserID: testUserID, Reason: "Venta"})
	require.NoError(t, err)
	_, err = uc.RecordEntry(ctx, inventory.EntryInput{ProductID: testProductID, Quantity: 3, UserID: testUserID})
	require.NoError(t, err)

	list, err := uc.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].Quantity, "el más reciente primero")
	assert.Equal(t, 2, list[2].Quantity)

	entries, err := uc.ListMovements(ctx, repository.MovementFilter{Type: entity.MovementTypeEntry})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	paged, err := uc.ListMovements(ctx, repository.MovementFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, -1, paged[0].Quantity)

	from := baseTime.Add(2 * time.Second)
	to := baseTime.Add(2 * time.Second)
	ranged, err := uc.ListMovements(ctx, repository.MovementFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, entity.MovementTypeExit, ranged[0].Type)
}

func TestListMovements_FiltrosInvalidos(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.ListMovements(context.Background(), repository.MovementFilter{Type: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from, to := baseTime, baseTime.Add(-time.Hour)
	_, err = uc.ListMovements(context.Background(), repository.MovementFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementFilter_Normalize(t *testing.T) {
	f := repository.MovementFilter{Limit: 0, Offset: -4}
	f.Normalize()
	assert.Equal(t, repository.DefaultMovementLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
}

func TestGetEntryYExit(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)
	ctx := context.Background()

	e, err := uc.RecordEntry(ctx, inventory.EntryInput{ProductID: testProductID, Quantity: 2, UserID: testUserID})
	require.NoError(t, err)
	got, err := uc.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Operadora", got.UserName)

	_, err = uc.GetExit(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementReport_SinGenerador(t *testing.T) {
	store := seedStore(t, 10)
	uc := newLedger(store, nil)

	_, err := uc.MovementReport(context.Background(), repository.MovementFilter{})
	assert.ErrorIs(t, err, domain.ErrTransaction)
}

type captureReport struct {
	title string
	rows  int
}

func (c *captureReport) GenerateMovementReport(title string, movements []*entity.Movement, _ time.Time) ([]byte, error) {
	c.title, c.rows = title, len(movements)
	return []byte("%PDF-1.4"), nil
}

func TestMovementReport_ConRango(t *testing.T) {
	store := seedStore(t, 10)
	report := &captureReport{}
	uc := inventory.NewLedgerUseCase(store, store.Movements(), store.Entries(), store.Exits(), report, zerolog.Nop(),
		inventory.WithLedgerClock(fixedClock()))
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, inventory.EntryInput{ProductID: testProductID, Quantity: 2, UserID: testUserID})
	require.NoError(t, err)

	from := baseTime
	pdf, err := uc.MovementReport(ctx, repository.MovementFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
	assert.Equal(t, "Kardex de movimientos (2026-03-10 a hoy)", report.title)
	assert.Equal(t, 1, report.rows)
}
