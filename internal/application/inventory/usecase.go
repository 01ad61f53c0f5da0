package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/costing"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
	"github.com/jhoicas/inventario-ferreteria/pkg/ids"
)

// ReportMaxRows filas máximas de un reporte PDF del kardex.
const ReportMaxRows = 1000

// LedgerUseCase registra entradas, salidas y ajustes de stock de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) sobre el producto y Commit/Rollback.
// Cada mutación inserta el documento, aplica el delta al stock y agrega el movimiento al kardex.
type LedgerUseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository
	entries   repository.EntryRepository
	exits     repository.ExitRepository
	report    MovementReportGenerator
	log       zerolog.Logger
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso. report puede ser nil si no se exponen reportes.
func NewLedgerUseCase(
	txRunner TxRunner,
	movements repository.MovementRepository,
	entries repository.EntryRepository,
	exits repository.ExitRepository,
	report MovementReportGenerator,
	log zerolog.Logger,
	opts ...LedgerOption,
) *LedgerUseCase {
	uc := &LedgerUseCase{
		txRunner:  txRunner,
		movements: movements,
		entries:   entries,
		exits:     exits,
		report:    report,
		log:       log.With().Str("component", "ledger").Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// LedgerOption configura el caso de uso.
type LedgerOption func(*LedgerUseCase)

// WithLedgerClock reemplaza el reloj usado para fechar documentos y movimientos.
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(uc *LedgerUseCase) { uc.now = now }
}

// EntryInput entrada de mercancía. Con UnitCost el precio de compra del producto
// pasa a ser el costo promedio ponderado.
type EntryInput struct {
	ProductID    string
	Quantity     int
	UserID       string
	Observations string
	UnitCost     *decimal.Decimal
}

// ExitInput salida de mercancía. Reason es obligatorio.
type ExitInput struct {
	ProductID    string
	Quantity     int
	UserID       string
	Reason       string
	Observations string
}

// AdjustInput ajuste administrativo: fija el stock en NewStock.
type AdjustInput struct {
	ProductID string
	NewStock  int
	UserID    string
	Reason    string
}

func validateTarget(productID, userID string) error {
	if strings.TrimSpace(productID) == "" {
		return domain.NewValidationError("product_id", "el producto es requerido")
	}
	if strings.TrimSpace(userID) == "" {
		return domain.NewValidationError("user_id", "el usuario es requerido")
	}
	return nil
}

func validateQuantity(q int) error {
	if q <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser un entero positivo")
	}
	return nil
}

// RecordEntry bloquea el producto, inserta la entrada, suma la cantidad al stock y agrega el movimiento.
func (uc *LedgerUseCase) RecordEntry(ctx context.Context, in EntryInput) (*entity.Entry, error) {
	if err := validateTarget(in.ProductID, in.UserID); err != nil {
		return nil, err
	}
	if err := validateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "el costo unitario no puede ser negativo")
	}
	now := uc.now()
	entry := &entity.Entry{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UserID:       in.UserID,
		Observations: strings.TrimSpace(in.Observations),
		CreatedAt:    now,
	}

	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		entries repository.EntryRepository,
		_ repository.ExitRepository,
		movements repository.MovementRepository,
	) error {
		product, err := products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := entries.Create(ctx, entry); err != nil {
			return err
		}
		if in.UnitCost != nil {
			product.PurchasePrice = costing.WeightedAverage(product.Stock, product.PurchasePrice, in.Quantity, *in.UnitCost)
			if err := products.Update(ctx, product); err != nil {
				return err
			}
		}
		if _, err := products.AddStock(ctx, in.ProductID, in.Quantity); err != nil {
			return err
		}
		entry.ProductName = product.Name
		return movements.Create(ctx, &entity.Movement{
			ID:        ids.NewAt(now),
			Type:      entity.MovementTypeEntry,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UserID:    in.UserID,
			Detail:    "Entrada: " + orDefault(entry.Observations, "Sin observaciones"),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, uc.fail("record_entry", err)
	}
	uc.log.Info().Str("op", "record_entry").Str("product_id", in.ProductID).Int("quantity", in.Quantity).Msg("entrada registrada")
	return entry, nil
}

// RecordExit bloquea el producto y relee su stock dentro de la transacción; si no alcanza,
// devuelve *domain.InsufficientStockError sin escribir nada.
func (uc *LedgerUseCase) RecordExit(ctx context.Context, in ExitInput) (*entity.Exit, error) {
	if err := validateTarget(in.ProductID, in.UserID); err != nil {
		return nil, err
	}
	if err := validateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "el motivo de la salida es requerido")
	}
	now := uc.now()
	exit := &entity.Exit{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UserID:       in.UserID,
		Reason:       reason,
		Observations: strings.TrimSpace(in.Observations),
		CreatedAt:    now,
	}

	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		_ repository.EntryRepository,
		exits repository.ExitRepository,
		movements repository.MovementRepository,
	) error {
		product, err := products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Stock < in.Quantity {
			return &domain.InsufficientStockError{ProductID: in.ProductID, Available: product.Stock, Requested: in.Quantity}
		}
		if err := exits.Create(ctx, exit); err != nil {
			return err
		}
		if _, err := products.AddStock(ctx, in.ProductID, -in.Quantity); err != nil {
			return err
		}
		exit.ProductName = product.Name
		detail := "Salida: " + reason
		if exit.Observations != "" {
			detail += " - " + exit.Observations
		}
		return movements.Create(ctx, &entity.Movement{
			ID:        ids.NewAt(now),
			Type:      entity.MovementTypeExit,
			ProductID: in.ProductID,
			Quantity:  -in.Quantity,
			UserID:    in.UserID,
			Detail:    detail,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, uc.fail("record_exit", err)
	}
	uc.log.Info().Str("op", "record_exit").Str("product_id", in.ProductID).Int("quantity", in.Quantity).Msg("salida registrada")
	return exit, nil
}

// AdjustStock fija el stock de un producto (conteo físico) y registra el delta como movimiento adjustment.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, in AdjustInput) (*entity.Movement, error) {
	if err := validateTarget(in.ProductID, in.UserID); err != nil {
		return nil, err
	}
	if in.NewStock < 0 {
		return nil, domain.NewValidationError("new_stock", "el stock no puede ser negativo")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "el motivo del ajuste es requerido")
	}
	now := uc.now()
	var mov *entity.Movement

	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		_ repository.EntryRepository,
		_ repository.ExitRepository,
		movements repository.MovementRepository,
	) error {
		product, err := products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		delta := in.NewStock - product.Stock
		if delta == 0 {
			return domain.NewValidationError("new_stock", "el stock indicado es igual al actual")
		}
		if _, err := products.AddStock(ctx, in.ProductID, delta); err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:          ids.NewAt(now),
			Type:        entity.MovementTypeAdjustment,
			ProductID:   in.ProductID,
			Quantity:    delta,
			UserID:      in.UserID,
			Detail:      fmt.Sprintf("Ajuste: %s (stock %d → %d)", reason, product.Stock, in.NewStock),
			CreatedAt:   now,
			ProductCode: product.Code,
			ProductName: product.Name,
		}
		return movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, uc.fail("adjust_stock", err)
	}
	uc.log.Info().Str("op", "adjust_stock").Str("product_id", in.ProductID).Int("delta", mov.Quantity).Msg("ajuste registrado")
	return mov, nil
}

func validateMovementFilter(f repository.MovementFilter) error {
	if f.Type != "" && !entity.ValidMovementType(f.Type) {
		return domain.NewValidationError("type", "tipo de movimiento desconocido")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return domain.NewValidationError("from", "la fecha inicial es posterior a la final")
	}
	return nil
}

// ListMovements consulta el kardex, más recientes primero. Límite no positivo → 50; offset negativo → 0.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if err := validateMovementFilter(filter); err != nil {
		return nil, err
	}
	filter.Normalize()
	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, uc.fail("list_movements", err)
	}
	return list, nil
}

// ListEntries lista entradas con la misma paginación que el kardex.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Entry, error) {
	filter.Normalize()
	list, err := uc.entries.List(ctx, filter)
	if err != nil {
		return nil, uc.fail("list_entries", err)
	}
	return list, nil
}

// GetEntry obtiene una entrada por ID.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*entity.Entry, error) {
	e, err := uc.entries.GetByID(ctx, id)
	if err != nil {
		return nil, uc.fail("get_entry", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// ListExits lista salidas con la misma paginación que el kardex.
func (uc *LedgerUseCase) ListExits(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Exit, error) {
	filter.Normalize()
	list, err := uc.exits.List(ctx, filter)
	if err != nil {
		return nil, uc.fail("list_exits", err)
	}
	return list, nil
}

// GetExit obtiene una salida por ID.
func (uc *LedgerUseCase) GetExit(ctx context.Context, id string) (*entity.Exit, error) {
	x, err := uc.exits.GetByID(ctx, id)
	if err != nil {
		return nil, uc.fail("get_exit", err)
	}
	if x == nil {
		return nil, domain.ErrNotFound
	}
	return x, nil
}

// MovementReport genera el PDF del kardex filtrado. Sin límite explícito incluye hasta ReportMaxRows filas.
func (uc *LedgerUseCase) MovementReport(ctx context.Context, filter repository.MovementFilter) ([]byte, error) {
	if uc.report == nil {
		return nil, uc.fail("movement_report", errors.New("generador de reportes no configurado"))
	}
	if err := validateMovementFilter(filter); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > ReportMaxRows {
		filter.Limit = ReportMaxRows
	}
	filter.Normalize()
	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, uc.fail("movement_report", err)
	}
	pdf, err := uc.report.GenerateMovementReport(reportTitle(filter), list, uc.now())
	if err != nil {
		return nil, uc.fail("movement_report", err)
	}
	return pdf, nil
}

func reportTitle(f repository.MovementFilter) string {
	title := "Kardex de movimientos"
	if f.From != nil || f.To != nil {
		from, to := "inicio", "hoy"
		if f.From != nil {
			from = f.From.Format("2006-01-02")
		}
		if f.To != nil {
			to = f.To.Format("2006-01-02")
		}
		title += fmt.Sprintf(" (%s a %s)", from, to)
	}
	return title
}

// fail deja pasar los errores del dominio; el resto se registra y se oculta tras ErrTransaction.
func (uc *LedgerUseCase) fail(op string, err error) error {
	if domain.IsDomainError(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("falla inesperada, transacción revertida")
	return domain.ErrTransaction
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
