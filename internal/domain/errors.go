package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Recuperación de contraseña.
	ErrInvalidCredential     = errors.New("credencial inválida o expirada")
	ErrInvalidOrExpiredCode  = &kindError{msg: "código inválido o expirado", kind: ErrInvalidCredential}
	ErrInvalidOrExpiredToken = &kindError{msg: "enlace inválido o expirado", kind: ErrInvalidCredential}
	ErrAccountDisabled       = errors.New("la cuenta está desactivada, contacte al administrador")

	// Fallas de colaboradores externos.
	ErrNotifier    = errors.New("no se pudo enviar el correo")
	ErrTransaction = errors.New("error interno, intente nuevamente")
)

// kindError es un error con mensaje propio que pertenece a una familia (kind) de errores.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// ValidationError entrada mal formada; se rechaza antes de tocar el almacenamiento.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError salida rechazada por falta de existencias.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NotifierCategory categoría gruesa de una falla de envío de correo.
type NotifierCategory string

const (
	NotifierAuth       NotifierCategory = "auth"
	NotifierConfig     NotifierCategory = "config"
	NotifierConnection NotifierCategory = "connection"
	NotifierTimeout    NotifierCategory = "timeout"
	NotifierUnknown    NotifierCategory = "unknown"
)

// NotifierError falla del notificador con su categoría.
type NotifierError struct {
	Category NotifierCategory
	Err      error
}

// NewNotifierError envuelve err con la categoría indicada.
func NewNotifierError(category NotifierCategory, err error) *NotifierError {
	return &NotifierError{Category: category, Err: err}
}

// Error devuelve el mensaje apto para el usuario; la causa queda en Err.
func (e *NotifierError) Error() string {
	switch e.Category {
	case NotifierAuth:
		return "error de autenticación con el servidor de correo"
	case NotifierConfig:
		return "el servicio de correo no está configurado"
	case NotifierConnection:
		return "no se pudo conectar con el servidor de correo"
	case NotifierTimeout:
		return "tiempo de espera agotado al enviar el correo"
	default:
		return ErrNotifier.Error()
	}
}

func (e *NotifierError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotifier}
	}
	return []error{ErrNotifier, e.Err}
}

// Kind clasifica un error para la capa de transporte.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindInvalidCredential Kind = "invalid_credential"
	KindAccountDisabled   Kind = "account_disabled"
	KindInsufficientStock Kind = "insufficient_stock"
	KindNotifier          Kind = "notifier"
	KindConflict          Kind = "conflict"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindTransaction       Kind = "transaction"
)

// KindOf devuelve la familia de err. Todo error no clasificado es KindTransaction.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCredential):
		return KindInvalidCredential
	case errors.Is(err, ErrAccountDisabled):
		return KindAccountDisabled
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrNotifier):
		return KindNotifier
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindTransaction
	}
}

// IsDomainError indica si err pertenece a la taxonomía del dominio (incluido ErrTransaction).
// Los demás errores son fallas inesperadas que deben registrarse y ocultarse.
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTransaction) || KindOf(err) != KindTransaction
}
