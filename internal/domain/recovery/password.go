package recovery

import (
	"unicode"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
)

// MinPasswordLength longitud mínima de una contraseña nueva.
const MinPasswordLength = 8

// ValidatePassword aplica la política de contraseñas: mínimo 8 caracteres con
// mayúscula, minúscula, dígito y carácter especial.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return domain.NewValidationError("password", "la contraseña debe tener al menos 8 caracteres")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	switch {
	case !upper:
		return domain.NewValidationError("password", "la contraseña debe incluir al menos una mayúscula")
	case !lower:
		return domain.NewValidationError("password", "la contraseña debe incluir al menos una minúscula")
	case !digit:
		return domain.NewValidationError("password", "la contraseña debe incluir al menos un número")
	case !special:
		return domain.NewValidationError("password", "la contraseña debe incluir al menos un carácter especial")
	}
	return nil
}
