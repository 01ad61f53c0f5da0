package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ferreteria/internal/application/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe códigos y enlaces en el log en lugar de enviarlos (MAIL_DRIVER=log).
// Solo para desarrollo: las credenciales quedan en claro en la salida.
type LogNotifier struct {
	resetURL string
	log      zerolog.Logger
}

// NewLogNotifier construye el notificador de desarrollo.
func NewLogNotifier(resetURL string, log zerolog.Logger) *LogNotifier {
	return &LogNotifier{resetURL: resetURL, log: log.With().Str("component", "mail").Logger()}
}

func (n *LogNotifier) SendResetCode(_ context.Context, to, _, code string) error {
	n.log.Warn().Str("to", to).Str("code", code).Msg("código de recuperación (MAIL_DRIVER=log)")
	return nil
}

func (n *LogNotifier) SendResetLink(_ context.Context, to, _, token string) error {
	n.log.Warn().Str("to", to).Str("link", ResetLink(n.resetURL, token)).Msg("enlace de restablecimiento (MAIL_DRIVER=log)")
	return nil
}
