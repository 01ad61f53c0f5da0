package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate aplica las etiquetas `validate` de s y devuelve el primer fallo como *domain.ValidationError.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("", "entrada inválida")
	}
	fe := verrs[0]
	return domain.NewValidationError(fe.Field(), messageFor(fe.Tag(), fe.Param()))
}

// ValidateEmail valida el formato de un correo electrónico.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return domain.NewValidationError("email", "el correo electrónico no es válido")
	}
	return nil
}

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func messageFor(tag, param string) string {
	switch tag {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un correo electrónico válido"
	case "min":
		return "debe ser al menos " + param
	case "max":
		return "debe ser como máximo " + param
	case "gte":
		return "debe ser mayor o igual a " + param
	case "gt":
		return "debe ser mayor que " + param
	case "len":
		return "debe tener longitud " + param
	case "numeric":
		return "debe contener solo dígitos"
	case "oneof":
		return "debe ser uno de: " + param
	case "uuid":
		return "debe ser un UUID válido"
	default:
		return "no es válido"
	}
}
