package http

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
)

func TestRateLimiter_RecargaYLimpieza(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "cada IP tiene su propio bucket")

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "un token se recarga cada 30s")

	now = now.Add(10 * time.Minute)
	l.Allow("10.0.0.3")
	assert.Len(t, l.buckets, 1, "los buckets inactivos se descartan")
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("email", "x"), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidOrExpiredToken, fiber.StatusBadRequest, "INVALID_CREDENTIAL"},
		{domain.ErrAccountDisabled, fiber.StatusForbidden, "ACCOUNT_DISABLED"},
		{&domain.InsufficientStockError{Available: 1, Requested: 2}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.NewNotifierError(domain.NotifierTimeout, errors.New("i/o timeout")), fiber.StatusServiceUnavailable, "NOTIFIER"},
		{fmt.Errorf("create: %w", domain.ErrDuplicate), fiber.StatusConflict, "CONFLICT"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrTransaction, fiber.StatusInternalServerError, "INTERNAL"},
		{errors.New("pq: connection reset"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, c := range cases {
		t.Run(c.code, func(t *testing.T) {
			status, code := StatusFor(c.err)
			assert.Equal(t, c.status, status)
			assert.Equal(t, c.code, code)
		})
	}
}
