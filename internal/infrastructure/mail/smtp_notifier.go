// Package mail implementa el puerto Notifier: correo SMTP para producción y un notificador
// que solo escribe en el log para desarrollo.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	netmail "net/mail"
	"net/smtp"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ferreteria/internal/application/ports"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/pkg/config"
)

var _ ports.Notifier = (*SMTPNotifier)(nil)

// sendFunc envía el mensaje ya armado; reemplazable en pruebas.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

func sendSMTP(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

// SMTPNotifier envía los correos de recuperación con jordan-wright/email.
type SMTPNotifier struct {
	cfg      config.MailConfig
	appName  string
	resetURL string
	codeTTL  time.Duration
	tokenTTL time.Duration
	send     sendFunc
	log      zerolog.Logger
}

// NewSMTPNotifier construye el notificador SMTP.
func NewSMTPNotifier(cfg config.MailConfig, rec config.RecoveryConfig, appName string, log zerolog.Logger) *SMTPNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPNotifier{
		cfg:      cfg,
		appName:  appName,
		resetURL: rec.ResetURL,
		codeTTL:  rec.CodeTTL,
		tokenTTL: rec.TokenTTL,
		send:     sendSMTP,
		log:      log.With().Str("component", "mail").Logger(),
	}
}

// SendResetCode envía el código de 6 dígitos.
func (n *SMTPNotifier) SendResetCode(ctx context.Context, to, name, code string) error {
	body, err := render(codeTemplate, messageData{
		Title: "Recuperación de contraseña", Name: name, AppName: n.appName,
		Code: code, Expiry: "Este código expira en", Minutes: int(n.codeTTL.Minutes()),
	})
	if err != nil {
		return domain.NewNotifierError(domain.NotifierUnknown, fmt.Errorf("render: %w", err))
	}
	return n.deliver(ctx, to, "Código de recuperación - "+n.appName, body)
}

// SendResetLink envía el enlace con el token de restablecimiento.
func (n *SMTPNotifier) SendResetLink(ctx context.Context, to, name, token string) error {
	body, err := render(linkTemplate, messageData{
		Title: "Restablecer contraseña", Name: name, AppName: n.appName,
		Link: ResetLink(n.resetURL, token), Expiry: "Este enlace expira en", Minutes: int(n.tokenTTL.Minutes()),
	})
	if err != nil {
		return domain.NewNotifierError(domain.NotifierUnknown, fmt.Errorf("render: %w", err))
	}
	return n.deliver(ctx, to, "Restablecer contraseña - "+n.appName, body)
}

func (n *SMTPNotifier) deliver(ctx context.Context, to, subject string, html []byte) error {
	if n.cfg.User == "" || n.cfg.Password == "" || n.cfg.Host == "" {
		return domain.NewNotifierError(domain.NotifierConfig, errors.New("EMAIL_HOST, EMAIL_USER y EMAIL_PASS son obligatorios"))
	}

	e := email.NewEmail()
	e.From = (&netmail.Address{Name: n.cfg.FromName, Address: n.cfg.From}).String()
	e.To = []string{to}
	e.Subject = subject
	e.HTML = html
	e.Headers.Set("X-Priority", "1")
	e.Headers.Set("Importance", "high")

	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprint(n.cfg.Port))
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	// net/smtp no acepta contexto: el envío corre aparte y se abandona al vencer el plazo.
	done := make(chan error, 1)
	go func() { done <- n.send(e, addr, auth) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		nerr := Classify(err)
		n.log.Error().Err(err).Str("to", to).Str("category", string(nerr.Category)).Msg("envío de correo fallido")
		return nerr
	}
	n.log.Info().Str("to", to).Str("subject", subject).Msg("correo enviado")
	return nil
}

// ResetLink arma la URL del formulario de restablecimiento con el token como parámetro.
func ResetLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// Classify asigna la categoría de falla a un error de envío.
func Classify(err error) *domain.NotifierError {
	var nerr *domain.NotifierError
	if errors.As(err, &nerr) {
		return nerr
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return domain.NewNotifierError(domain.NotifierTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.NewNotifierError(domain.NotifierTimeout, err)
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535:
			return domain.NewNotifierError(domain.NotifierAuth, err)
		}
	}
	if strings.Contains(err.Error(), "535") || strings.Contains(strings.ToLower(err.Error()), "authentication") {
		return domain.NewNotifierError(domain.NotifierAuth, err)
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return domain.NewNotifierError(domain.NotifierConnection, err)
	}
	return domain.NewNotifierError(domain.NotifierUnknown, err)
}
