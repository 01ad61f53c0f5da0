package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var (
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.EntryRepository    = (*EntryRepo)(nil)
	_ repository.ExitRepository     = (*ExitRepo)(nil)
)

// whereBuilder acumula condiciones con placeholders numerados.
type whereBuilder struct {
	clauses string
	args    []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.clauses += fmt.Sprintf(" AND "+cond, len(w.args))
}

func (w *whereBuilder) page(limit, offset int) string {
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

// ── Movimientos (kardex) ──────────────────────────────────────────────────────

// MovementRepo kardex sobre PostgreSQL. Solo inserta y lee.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del kardex. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, type, product_id, quantity, user_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, nullIfEmpty(m.ProductID), m.Quantity, nullIfEmpty(m.UserID), m.Detail, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List devuelve los movimientos más recientes primero, con código y nombre de producto y nombre de usuario.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	f.Normalize()
	query := `
		SELECT m.id, m.type, COALESCE(m.product_id::text, ''), m.quantity, COALESCE(m.user_id::text, ''),
			m.detail, m.created_at, COALESCE(p.code, ''), COALESCE(p.name, ''), COALESCE(u.name, '')
		FROM movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN users u ON u.id = m.user_id
		WHERE 1=1`
	var w whereBuilder
	if f.Type != "" {
		w.add("m.type = $%d", f.Type)
	}
	if f.ProductID != "" {
		w.add("m.product_id::text = $%d", f.ProductID)
	}
	if f.UserID != "" {
		w.add("m.user_id::text = $%d", f.UserID)
	}
	if f.From != nil {
		w.add("m.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("m.created_at <= $%d", *f.To)
	}
	query += w.clauses + ` ORDER BY m.created_at DESC, m.id DESC` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.Type, &m.ProductID, &m.Quantity, &m.UserID,
			&m.Detail, &m.CreatedAt, &m.ProductCode, &m.ProductName, &m.UserName); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ── Entradas ──────────────────────────────────────────────────────────────────

// EntryRepo entradas de mercancía sobre PostgreSQL.
type EntryRepo struct {
	q Querier
}

// NewEntryRepository construye el adaptador de entradas. Pasar pool o tx (Querier).
func NewEntryRepository(q Querier) *EntryRepo {
	return &EntryRepo{q: q}
}

const entrySelect = `
		SELECT e.id, COALESCE(e.product_id::text, ''), e.quantity, COALESCE(e.user_id::text, ''),
			e.observations, e.created_at, COALESCE(p.name, ''), COALESCE(u.name, '')
		FROM entries e
		LEFT JOIN products p ON p.id = e.product_id
		LEFT JOIN users u ON u.id = e.user_id`

// Create inserta una entrada.
func (r *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO entries (id, product_id, quantity, user_id, observations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, nullIfEmpty(e.ProductID), e.Quantity, nullIfEmpty(e.UserID), e.Observations, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *EntryRepo) GetByID(ctx context.Context, id string) (*entity.Entry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, entrySelect+` WHERE e.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// List entradas más recientes primero.
func (r *EntryRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Entry, error) {
	f.Normalize()
	w := documentWhere("e", f)
	query := entrySelect + ` WHERE 1=1` + w.clauses + ` ORDER BY e.created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEntry(row pgx.Row) (*entity.Entry, error) {
	var e entity.Entry
	if err := row.Scan(&e.ID, &e.ProductID, &e.Quantity, &e.UserID,
		&e.Observations, &e.CreatedAt, &e.ProductName, &e.UserName); err != nil {
		return nil, err
	}
	return &e, nil
}

// ── Salidas ───────────────────────────────────────────────────────────────────

// ExitRepo salidas de mercancía sobre PostgreSQL.
type ExitRepo struct {
	q Querier
}

// NewExitRepository construye el adaptador de salidas. Pasar pool o tx (Querier).
func NewExitRepository(q Querier) *ExitRepo {
	return &ExitRepo{q: q}
}

const exitSelect = `
		SELECT x.id, COALESCE(x.product_id::text, ''), x.quantity, COALESCE(x.user_id::text, ''),
			x.reason, x.observations, x.created_at, COALESCE(p.name, ''), COALESCE(u.name, '')
		FROM exits x
		LEFT JOIN products p ON p.id = x.product_id
		LEFT JOIN users u ON u.id = x.user_id`

// Create inserta una salida.
func (r *ExitRepo) Create(ctx context.Context, x *entity.Exit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO exits (id, product_id, quantity, user_id, reason, observations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		x.ID, nullIfEmpty(x.ProductID), x.Quantity, nullIfEmpty(x.UserID), x.Reason, x.Observations, x.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exit: %w", err)
	}
	return nil
}

// GetByID obtiene una salida por ID.
func (r *ExitRepo) GetByID(ctx context.Context, id string) (*entity.Exit, error) {
	x, err := scanExit(r.q.QueryRow(ctx, exitSelect+` WHERE x.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exit: %w", err)
	}
	return x, nil
}

// List salidas más recientes primero.
func (r *ExitRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Exit, error) {
	f.Normalize()
	w := documentWhere("x", f)
	query := exitSelect + ` WHERE 1=1` + w.clauses + ` ORDER BY x.created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list exits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Exit
	for rows.Next() {
		x, err := scanExit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exit: %w", err)
		}
		list = append(list, x)
	}
	return list, rows.Err()
}

// SumQuantityByProduct total de unidades despachadas por producto en [from, to].
func (r *ExitRepo) SumQuantityByProduct(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id::text, SUM(quantity)
		FROM exits
		WHERE product_id IS NOT NULL AND created_at >= $1 AND created_at <= $2
		GROUP BY product_id`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("sum exits: %w", err)
	}
	defer rows.Close()
	totals := map[string]int{}
	for rows.Next() {
		var id string
		var total int64
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan exit total: %w", err)
		}
		totals[id] = int(total)
	}
	return totals, rows.Err()
}

func scanExit(row pgx.Row) (*entity.Exit, error) {
	var x entity.Exit
	if err := row.Scan(&x.ID, &x.ProductID, &x.Quantity, &x.UserID, &x.Reason,
		&x.Observations, &x.CreatedAt, &x.ProductName, &x.UserName); err != nil {
		return nil, err
	}
	return &x, nil
}

func documentWhere(alias string, f repository.DocumentFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.ProductID != "" {
		w.add(alias+".product_id::text = $%d", f.ProductID)
	}
	if f.UserID != "" {
		w.add(alias+".user_id::text = $%d", f.UserID)
	}
	if f.From != nil {
		w.add(alias+".created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add(alias+".created_at <= $%d", *f.To)
	}
	return w
}
