package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "Admin"
	RoleOperator = "Operador"
)

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}

// User representa un usuario del sistema.
// Los campos Reset* solo los modifica el flujo de recuperación de contraseña.
type User struct {
	ID                string
	Name              string
	Email             string // único, normalizado en minúsculas
	PasswordHash      string // bcrypt hash, nunca plano en dominio después de persistir
	Role              string // Admin, Operador
	Active            bool
	ResetCode         string     // código de 6 dígitos; vacío si no hay código vivo
	ResetCodeExpires  *time.Time
	ResetToken        string     // digest SHA-256 del token emitido; vacío si no hay token vivo
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasValidResetCode compara el código por igualdad exacta y exige expiración estrictamente posterior a now.
func (u *User) HasValidResetCode(code string, now time.Time) bool {
	if u.ResetCode == "" || u.ResetCodeExpires == nil {
		return false
	}
	return u.ResetCode == code && u.ResetCodeExpires.After(now)
}

// HasValidResetToken igual que HasValidResetCode pero sobre el digest del token.
func (u *User) HasValidResetToken(digest string, now time.Time) bool {
	if u.ResetToken == "" || u.ResetTokenExpires == nil {
		return false
	}
	return u.ResetToken == digest && u.ResetTokenExpires.After(now)
}

// ClearResetCode invalida el código vivo.
func (u *User) ClearResetCode() {
	u.ResetCode = ""
	u.ResetCodeExpires = nil
}

// ClearResetToken invalida el token vivo.
func (u *User) ClearResetToken() {
	u.ResetToken = ""
	u.ResetTokenExpires = nil
}
