package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

// RecordEntryFromRequest adapta el request HTTP al caso de uso RecordEntry.
func (uc *LedgerUseCase) RecordEntryFromRequest(ctx context.Context, userID string, in dto.EntryRequest) (*dto.EntryResponse, error) {
	e, err := uc.RecordEntry(ctx, EntryInput{
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UserID:       userID,
		Observations: in.Observations,
		UnitCost:     in.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(e), nil
}

// RecordExitFromRequest adapta el request HTTP al caso de uso RecordExit.
func (uc *LedgerUseCase) RecordExitFromRequest(ctx context.Context, userID string, in dto.ExitRequest) (*dto.ExitResponse, error) {
	x, err := uc.RecordExit(ctx, ExitInput{
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UserID:       userID,
		Reason:       in.Reason,
		Observations: in.Observations,
	})
	if err != nil {
		return nil, err
	}
	return ToExitResponse(x), nil
}

// AdjustStockFromRequest adapta el request HTTP al caso de uso AdjustStock.
func (uc *LedgerUseCase) AdjustStockFromRequest(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	m, err := uc.AdjustStock(ctx, AdjustInput{
		ProductID: in.ProductID,
		NewStock:  in.NewStock,
		UserID:    userID,
		Reason:    in.Reason,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(m)
	return &out, nil
}

// MovementFilterFromQuery traduce los query params al filtro del kardex.
// Las fechas aceptan RFC3339 o YYYY-MM-DD; "to" en formato fecha incluye el día completo.
func MovementFilterFromQuery(q dto.MovementQuery) (repository.MovementFilter, error) {
	from, err := parseDate("from", q.From, false)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	to, err := parseDate("to", q.To, true)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	return repository.MovementFilter{
		Type:      strings.TrimSpace(q.Type),
		ProductID: strings.TrimSpace(q.ProductID),
		UserID:    strings.TrimSpace(q.UserID),
		From:      from,
		To:        to,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}, nil
}

// DocumentFilterFromQuery igual que MovementFilterFromQuery para entradas y salidas.
func DocumentFilterFromQuery(q dto.MovementQuery) (repository.DocumentFilter, error) {
	f, err := MovementFilterFromQuery(q)
	if err != nil {
		return repository.DocumentFilter{}, err
	}
	return repository.DocumentFilter{
		ProductID: f.ProductID,
		UserID:    f.UserID,
		From:      f.From,
		To:        f.To,
		Limit:     f.Limit,
		Offset:    f.Offset,
	}, nil
}

func parseDate(field, s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, domain.NewValidationError(field, fmt.Sprintf("fecha inválida %q, use YYYY-MM-DD", s))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// ToMovementResponse convierte un movimiento a DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		Type:        m.Type,
		ProductID:   m.ProductID,
		ProductCode: m.ProductCode,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UserID:      m.UserID,
		UserName:    m.UserName,
		Detail:      m.Detail,
		CreatedAt:   m.CreatedAt,
	}
}

// ToEntryResponse convierte una entrada a DTO.
func ToEntryResponse(e *entity.Entry) *dto.EntryResponse {
	return &dto.EntryResponse{
		ID:           e.ID,
		ProductID:    e.ProductID,
		ProductName:  e.ProductName,
		Quantity:     e.Quantity,
		UserID:       e.UserID,
		UserName:     e.UserName,
		Observations: e.Observations,
		CreatedAt:    e.CreatedAt,
	}
}

// ToExitResponse convierte una salida a DTO.
func ToExitResponse(x *entity.Exit) *dto.ExitResponse {
	return &dto.ExitResponse{
		ID:           x.ID,
		ProductID:    x.ProductID,
		ProductName:  x.ProductName,
		Quantity:     x.Quantity,
		UserID:       x.UserID,
		UserName:     x.UserName,
		Reason:       x.Reason,
		Observations: x.Observations,
		CreatedAt:    x.CreatedAt,
	}
}
