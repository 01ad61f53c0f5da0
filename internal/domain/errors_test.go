package domain_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want domain.Kind
	}{
		{domain.NewValidationError("email", "formato inválido"), domain.KindValidation},
		{fmt.Errorf("crear: %w", domain.ErrNotFound), domain.KindNotFound},
		{domain.ErrInvalidOrExpiredCode, domain.KindInvalidCredential},
		{domain.ErrInvalidOrExpiredToken, domain.KindInvalidCredential},
		{domain.ErrAccountDisabled, domain.KindAccountDisabled},
		{&domain.InsufficientStockError{Available: 2, Requested: 5}, domain.KindInsufficientStock},
		{domain.NewNotifierError(domain.NotifierTimeout, io.EOF), domain.KindNotifier},
		{domain.ErrEmailAlreadyExists, domain.KindConflict},
		{domain.ErrForbidden, domain.KindForbidden},
		{errors.New("conexión rechazada"), domain.KindTransaction},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, domain.KindOf(c.err), "error %v", c.err)
	}
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, domain.IsDomainError(domain.ErrTransaction))
	assert.True(t, domain.IsDomainError(domain.ErrInvalidOrExpiredCode))
	assert.False(t, domain.IsDomainError(errors.New("pgx: conn closed")))
	assert.False(t, domain.IsDomainError(nil))
}

func TestInsufficientStockError_Mensaje(t *testing.T) {
	err := &domain.InsufficientStockError{ProductID: "p1", Available: 10, Requested: 15}
	assert.Equal(t, "stock insuficiente: disponible 10, solicitado 15", err.Error())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestNotifierError_ConservaCausa(t *testing.T) {
	cause := errors.New("535 auth failed")
	err := domain.NewNotifierError(domain.NotifierAuth, cause)

	assert.ErrorIs(t, err, domain.ErrNotifier)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "error de autenticación con el servidor de correo", err.Error())
	assert.NotContains(t, err.Error(), "535", "la causa técnica no debe filtrarse al mensaje")
}

func TestCredencialInvalida_NoDistingueCausa(t *testing.T) {
	assert.ErrorIs(t, domain.ErrInvalidOrExpiredCode, domain.ErrInvalidCredential)
	assert.ErrorIs(t, domain.ErrInvalidOrExpiredToken, domain.ErrInvalidCredential)
	assert.NotErrorIs(t, domain.ErrInvalidOrExpiredCode, domain.ErrInvalidOrExpiredToken)
}
