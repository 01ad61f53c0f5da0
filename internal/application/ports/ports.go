package ports

import "context"

// PasswordHasher función de una sola vía para contraseñas.
// Cualquier adaptador (bcrypt, argon2, fake de pruebas) debe implementar esta interfaz.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify indica si plaintext corresponde al digest.
	Verify(plaintext, digest string) bool
}

// Notifier puerto de salida para enviar las credenciales de recuperación por correo.
// Las fallas deben devolverse como *domain.NotifierError para conservar la categoría;
// cualquier otro error se trata como categoría desconocida.
// El contexto debe llevar un timeout para evitar bloqueos en el servidor SMTP.
type Notifier interface {
	SendResetCode(ctx context.Context, email, name, code string) error
	SendResetLink(ctx context.Context, email, name, token string) error
}
