package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var (
	userCols = []string{"id", "name", "email", "password_hash", "role", "active",
		"reset_code", "reset_code_expires", "reset_token", "reset_token_expires", "created_at", "updated_at"}
	productCols = []string{"id", "code", "name", "description", "category_id", "supplier_id",
		"stock", "stock_minimum", "purchase_price", "sale_price", "active", "created_at", "updated_at",
		"category_name", "supplier_name"}
	ts = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
)

// ─── Usuarios ────────────────────────────────────────────────────────────────

func TestUserRepo_FindByEmailForUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	exp := ts.Add(15 * time.Minute)

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = lower\(\$1\) FOR UPDATE`).
		WithArgs("carlos@ferreteria.co").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			"u-1", "Carlos", "carlos@ferreteria.co", "hash", entity.RoleAdmin, true,
			"123456", &exp, "", nil, ts, ts,
		))

	u, err := repo.FindByEmailForUpdate(context.Background(), "carlos@ferreteria.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "123456", u.ResetCode)
	require.NotNil(t, u.ResetCodeExpires)
	assert.True(t, u.ResetCodeExpires.Equal(exp))
	assert.Empty(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpires)
}

func TestUserRepo_NoEncontradoDevuelveNil(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users WHERE reset_token = \$1 FOR UPDATE`).
		WithArgs("digest").
		WillReturnRows(pgxmock.NewRows(userCols))

	u, err := repo.FindByResetTokenForUpdate(context.Background(), "digest")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_CreateEmailDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := &entity.User{ID: "u-1", Name: "Ana", Email: "ana@ferreteria.co", PasswordHash: "h",
		Role: entity.RoleOperator, Active: true, CreatedAt: ts, UpdatedAt: ts}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active, u.CreatedAt, u.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_SaveResetStateGuardaNulos(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	exp := ts.Add(15 * time.Minute)
	u := &entity.User{ID: "u-1", ResetToken: "digest", ResetTokenExpires: &exp}

	mock.ExpectExec(`UPDATE users SET reset_code = \$2`).
		WithArgs("u-1", nil, (*time.Time)(nil), "digest", &exp).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SaveResetState(context.Background(), u))
}

func TestUserRepo_UpdatePasswordSinFilas(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs("nadie", "h").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), "nadie", "h"), domain.ErrNotFound)
}

// ─── Productos ───────────────────────────────────────────────────────────────

func TestProductRepo_GetForUpdateBloqueaSoloProducts(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`WHERE p\.id = \$1 FOR UPDATE OF p`).
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(
			"p-1", "MRT-001", "Martillo de uña", "", "", "s-1",
			10, 5, decimal.NewFromInt(18000), decimal.NewFromInt(25000), true, ts, ts,
			"", "Herrajes Andina",
		))

	p, err := repo.GetForUpdate(context.Background(), "p-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 10, p.Stock)
	assert.Empty(t, p.CategoryID)
	assert.Equal(t, "Herrajes Andina", p.SupplierName)
	assert.True(t, p.SalePrice.Equal(decimal.NewFromInt(25000)))
}

func TestProductRepo_AddStock(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`UPDATE products SET stock = stock \+ \$2`).
		WithArgs("p-1", -4).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(6))
	stock, err := repo.AddStock(ctx, "p-1", -4)
	require.NoError(t, err)
	assert.Equal(t, 6, stock)

	mock.ExpectQuery(`UPDATE products SET stock = stock \+ \$2`).
		WithArgs("p-1", -40).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "products_stock_check"})
	_, err = repo.AddStock(ctx, "p-1", -40)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	mock.ExpectQuery(`UPDATE products SET stock = stock \+ \$2`).
		WithArgs("no-existe", 1).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}))
	_, err = repo.AddStock(ctx, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_ListConFiltros(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`p\.code ILIKE \$1 OR p\.name ILIKE \$1\) AND p\.category_id::text = \$2 AND p\.stock <= p\.stock_minimum AND p\.active ORDER BY p\.name LIMIT \$3 OFFSET \$4`).
		WithArgs("%martillo%", "c-1", 20, 0).
		WillReturnRows(pgxmock.NewRows(productCols))

	list, err := repo.List(context.Background(), repository.ProductFilter{
		Search: " martillo ", CategoryID: "c-1", LowStock: true, OnlyActive: true, Limit: 20, Offset: -3,
	})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductRepo_CreateCodigoDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	p := &entity.Product{ID: "p-1", Code: "MRT-001", Name: "Martillo", CategoryID: "", SupplierID: "s-1",
		Stock: 3, StockMinimum: 1, PurchasePrice: decimal.NewFromInt(1), SalePrice: decimal.NewFromInt(2),
		Active: true, CreatedAt: ts, UpdatedAt: ts}

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs(p.ID, p.Code, p.Name, p.Description, nil, "s-1", 3, 1,
			p.PurchasePrice, p.SalePrice, true, ts, ts).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, repo.Create(context.Background(), p), domain.ErrDuplicate)
}

func TestProductRepo_DeleteInexistente(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs("p-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "p-9"), domain.ErrNotFound)
}

func TestProductRepo_IDMalFormadoEsNoEncontrado(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	ctx := context.Background()
	invalid := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	mock.ExpectQuery(`WHERE p\.id = \$1 FOR UPDATE OF p`).WithArgs("abc").WillReturnError(invalid)
	p, err := repo.GetForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	mock.ExpectQuery(`UPDATE products SET stock = stock \+ \$2`).WithArgs("abc", 1).WillReturnError(invalid)
	_, err = repo.AddStock(ctx, "abc", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).WithArgs("abc").WillReturnError(invalid)
	assert.ErrorIs(t, repo.Delete(ctx, "abc"), domain.ErrNotFound)
}

func TestLedger_SalidaConIDMalFormadoEsNoEncontrado(t *testing.T) {
	mock := newMock(t)
	uc := inventory.NewLedgerUseCase(NewTxRunner(mock), NewMovementRepository(mock),
		NewEntryRepository(mock), NewExitRepository(mock), nil, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE p\.id = \$1 FOR UPDATE OF p`).
		WithArgs("abc").
		WillReturnError(&pgconn.PgError{Code: "22P02"})
	mock.ExpectRollback()

	_, err := uc.RecordExit(context.Background(), inventory.ExitInput{
		ProductID: "abc", Quantity: 1, UserID: "u-1", Reason: "Venta",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

// ─── Kardex ──────────────────────────────────────────────────────────────────

func TestMovementRepo_ListFiltrosYOrden(t *testing.T) {
	mock := newMock(t)
	repo := NewMovementRepository(mock)
	from := ts.Add(-24 * time.Hour)

	mock.ExpectQuery(`WHERE 1=1 AND m\.type = \$1 AND m\.product_id::text = \$2 AND m\.created_at >= \$3 ORDER BY m\.created_at DESC, m\.id DESC LIMIT \$4 OFFSET \$5`).
		WithArgs(entity.MovementTypeExit, "p-1", from, repository.DefaultMovementLimit, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "product_id", "quantity", "user_id",
			"detail", "created_at", "code", "name", "user_name"}).
			AddRow("01J0B", entity.MovementTypeExit, "p-1", -4, "u-1", "Salida: Venta", ts, "MRT-001", "Martillo", "Ana").
			AddRow("01J0A", entity.MovementTypeExit, "", -2, "", "Salida: Merma", ts, "", "", ""))

	list, err := repo.List(context.Background(), repository.MovementFilter{
		Type: entity.MovementTypeExit, ProductID: "p-1", From: &from,
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, -4, list[0].Quantity)
	assert.Equal(t, "Ana", list[0].UserName)
	assert.Empty(t, list[1].ProductID, "producto eliminado queda vacío")
}

func TestMovementRepo_CreateReferenciasNulas(t *testing.T) {
	mock := newMock(t)
	repo := NewMovementRepository(mock)
	m := &entity.Movement{ID: "01J0C", Type: entity.MovementTypeDeletion, ProductID: "p-1",
		Detail: "Producto eliminado: MRT-001 - Martillo", CreatedAt: ts}

	mock.ExpectExec(`INSERT INTO movements`).
		WithArgs(m.ID, m.Type, "p-1", 0, nil, m.Detail, ts).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), m))
}

func TestExitRepo_SumQuantityByProduct(t *testing.T) {
	mock := newMock(t)
	repo := NewExitRepository(mock)
	from, to := ts.AddDate(0, 0, -90), ts

	mock.ExpectQuery(`SELECT product_id::text, SUM\(quantity\)`).
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "sum"}).
			AddRow("p-1", int64(12)).
			AddRow("p-2", int64(3)))

	totals, err := repo.SumQuantityByProduct(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p-1": 12, "p-2": 3}, totals)
}

func TestEntryRepo_ListPorProducto(t *testing.T) {
	mock := newMock(t)
	repo := NewEntryRepository(mock)

	mock.ExpectQuery(`FROM entries e .* WHERE 1=1 AND e\.product_id::text = \$1 ORDER BY e\.created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("p-1", 10, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "quantity", "user_id",
			"observations", "created_at", "product_name", "user_name"}).
			AddRow("e-1", "p-1", 12, "u-1", "Pedido 118", ts, "Martillo", "Ana"))

	list, err := repo.List(context.Background(), repository.DocumentFilter{ProductID: "p-1", Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pedido 118", list[0].Observations)
}

// ─── Catálogo ────────────────────────────────────────────────────────────────

func TestCategoryRepo_GetByNameSinDistinguirMayusculas(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery(`FROM categories WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("HERRAMIENTAS").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
			AddRow("c-1", "Herramientas", "", ts, ts))

	c, err := repo.GetByName(context.Background(), "HERRAMIENTAS")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "c-1", c.ID)
}

func TestSupplierRepo_UpdateInexistente(t *testing.T) {
	mock := newMock(t)
	repo := NewSupplierRepository(mock)
	s := &entity.Supplier{ID: "s-9", Name: "Andina"}

	mock.ExpectExec(`UPDATE suppliers SET`).
		WithArgs(s.ID, s.Name, "", "", "", "", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.Update(context.Background(), s), domain.ErrNotFound)
}

// ─── Tablero ─────────────────────────────────────────────────────────────────

func TestDashboardRepo_Totals(t *testing.T) {
	mock := newMock(t)
	repo := NewDashboardRepository(mock)
	from, to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ts

	mock.ExpectQuery(`SUM\(stock \* purchase_price\).*FROM entries WHERE created_at BETWEEN \$1 AND \$2.*FROM exits`).
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"active", "low", "categories", "suppliers", "value", "entries", "exits"}).
			AddRow(int64(42), int64(3), int64(6), int64(4), decimal.RequireFromString("1250000.50"), int64(120), int64(87)))

	got, err := repo.Totals(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 42, got.ActiveProducts)
	assert.Equal(t, 3, got.LowStock)
	assert.Equal(t, 6, got.Categories)
	assert.Equal(t, 4, got.Suppliers)
	assert.True(t, got.InventoryValue.Equal(decimal.RequireFromString("1250000.50")))
	assert.Equal(t, 120, got.EntryUnits)
	assert.Equal(t, 87, got.ExitUnits)
}

func TestDashboardRepo_TotalsErrorSeEnvuelve(t *testing.T) {
	mock := newMock(t)
	repo := NewDashboardRepository(mock)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("conexión cerrada"))

	_, err := repo.Totals(context.Background(), ts.AddDate(0, -1, 0), ts)
	assert.ErrorContains(t, err, "dashboard totals")
}

// ─── Transacciones ───────────────────────────────────────────────────────────

func TestTxRunner_CommitYRollback(t *testing.T) {
	mock := newMock(t)
	runner := NewTxRunner(mock)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE products SET stock = stock \+ \$2`).
		WithArgs("p-1", 5).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(15))
	mock.ExpectCommit()

	err := runner.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository,
		_ repository.ExitRepository, _ repository.MovementRepository) error {
		_, err := products.AddStock(ctx, "p-1", 5)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("fallo en el callback")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = runner.RunUsers(ctx, func(repository.UserRepository) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestTxRunner_BeginFalla(t *testing.T) {
	mock := newMock(t)
	runner := NewTxRunner(mock)

	mock.ExpectBegin().WillReturnError(errors.New("sin conexiones"))

	called := false
	err := runner.RunUsers(context.Background(), func(repository.UserRepository) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "begin transaction")
	assert.False(t, called)
}
