// Package recovery contiene las reglas puras del flujo de recuperación de contraseña:
// generación de códigos y tokens, digest de tokens y política de contraseñas.
package recovery

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

const (
	// CodeLength dígitos del código de verificación.
	CodeLength = 6
	// TokenBytes bytes aleatorios del token de restablecimiento.
	TokenBytes = 32
)

var codeSpace = big.NewInt(1_000_000)

// GenerateCode devuelve un código uniforme en 000000..999999, con ceros a la izquierda.
func GenerateCode() (string, error) {
	return generateCode(rand.Reader)
}

func generateCode(r io.Reader) (string, error) {
	n, err := rand.Int(r, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// GenerateToken devuelve un token hexadecimal de TokenBytes bytes aleatorios.
func GenerateToken() (string, error) {
	return generateToken(rand.Reader)
}

func generateToken(r io.Reader) (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken digest con el que se persiste el token; el token en claro solo viaja por correo.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsValidCode indica si code tiene exactamente CodeLength dígitos ASCII.
func IsValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
