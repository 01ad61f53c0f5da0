package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
)

type errorStatus struct {
	status int
	code   string
}

// kindStatus traducción de cada familia de errores del dominio a HTTP.
var kindStatus = map[domain.Kind]errorStatus{
	domain.KindValidation:        {fiber.StatusBadRequest, "VALIDATION"},
	domain.KindNotFound:          {fiber.StatusNotFound, "NOT_FOUND"},
	domain.KindInvalidCredential: {fiber.StatusBadRequest, "INVALID_CREDENTIAL"},
	domain.KindAccountDisabled:   {fiber.StatusForbidden, "ACCOUNT_DISABLED"},
	domain.KindInsufficientStock: {fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	domain.KindNotifier:          {fiber.StatusServiceUnavailable, "NOTIFIER"},
	domain.KindConflict:          {fiber.StatusConflict, "CONFLICT"},
	domain.KindUnauthorized:      {fiber.StatusUnauthorized, "UNAUTHORIZED"},
	domain.KindForbidden:         {fiber.StatusForbidden, "FORBIDDEN"},
	domain.KindTransaction:       {fiber.StatusInternalServerError, "INTERNAL"},
}

// StatusFor devuelve el status HTTP y el código de error para err.
func StatusFor(err error) (int, string) {
	s, ok := kindStatus[domain.KindOf(err)]
	if !ok {
		return fiber.StatusInternalServerError, "INTERNAL"
	}
	return s.status, s.code
}

// writeError responde con dto.ErrorResponse. Los errores fuera de la taxonomía del dominio
// se registran y el cliente solo ve el mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	status, code := StatusFor(err)
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}

	var verr *domain.ValidationError
	var nerr *domain.NotifierError
	switch {
	case errors.As(err, &verr):
		resp.Field = verr.Field
		resp.Message = verr.Message
	case errors.As(err, &nerr):
		resp.Message = nerr.Error()
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		resp.Code = "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		resp.Code = "DUPLICATE"
	}

	if status == fiber.StatusInternalServerError {
		if !domain.IsDomainError(err) {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		resp.Message = domain.ErrTransaction.Error()
	}
	return c.Status(status).JSON(resp)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalidQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}

// ErrorHandler manejador global de Fiber: errores de enrutamiento y errores devueltos sin responder.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
