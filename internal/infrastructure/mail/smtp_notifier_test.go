package mail

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"net/textproto"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/pkg/config"
)

func newTestNotifier(send sendFunc) *SMTPNotifier {
	n := NewSMTPNotifier(
		config.MailConfig{
			Host: "smtp.ferreteria.co", Port: 587, User: "avisos@ferreteria.co", Password: "secreto",
			From: "avisos@ferreteria.co", FromName: "Ferretería Bastidas", Timeout: time.Second,
		},
		config.RecoveryConfig{CodeTTL: 15 * time.Minute, TokenTTL: 15 * time.Minute, ResetURL: "https://inventario.ferreteria.co/reset-password"},
		"Inventario Ferretería Bastidas",
		zerolog.Nop(),
	)
	n.send = send
	return n
}

func TestSendResetCode_ArmaElCorreo(t *testing.T) {
	var sent *email.Email
	var gotAddr string
	n := newTestNotifier(func(e *email.Email, addr string, _ smtp.Auth) error {
		sent, gotAddr = e, addr
		return nil
	})

	require.NoError(t, n.SendResetCode(context.Background(), "carlos@ferreteria.co", "Carlos", "042917"))

	require.NotNil(t, sent)
	assert.Equal(t, "smtp.ferreteria.co:587", gotAddr)
	assert.Equal(t, []string{"carlos@ferreteria.co"}, sent.To)
	assert.Contains(t, sent.Subject, "Código de recuperación")
	assert.Contains(t, string(sent.HTML), "042917")
	assert.Contains(t, string(sent.HTML), "Hola Carlos")
	assert.Contains(t, string(sent.HTML), "15 minutos")
	assert.Contains(t, sent.From, "avisos@ferreteria.co")
}

func TestSendResetLink_IncluyeToken(t *testing.T) {
	var sent *email.Email
	n := newTestNotifier(func(e *email.Email, _ string, _ smtp.Auth) error {
		sent = e
		return nil
	})

	require.NoError(t, n.SendResetLink(context.Background(), "carlos@ferreteria.co", "Carlos", "abc123"))
	assert.Contains(t, string(sent.HTML), "https://inventario.ferreteria.co/reset-password?token=abc123")
}

func TestDeliver_SinCredenciales(t *testing.T) {
	n := newTestNotifier(func(*email.Email, string, smtp.Auth) error {
		t.Fatal("no debe intentar enviar")
		return nil
	})
	n.cfg.Password = ""

	err := n.SendResetCode(context.Background(), "carlos@ferreteria.co", "Carlos", "042917")
	var nerr *domain.NotifierError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, domain.NotifierConfig, nerr.Category)
	assert.ErrorIs(t, err, domain.ErrNotifier)
}

func TestDeliver_TiempoAgotado(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	n := newTestNotifier(func(*email.Email, string, smtp.Auth) error {
		<-release
		return nil
	})
	n.cfg.Timeout = 20 * time.Millisecond

	err := n.SendResetCode(context.Background(), "carlos@ferreteria.co", "Carlos", "042917")
	var nerr *domain.NotifierError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, domain.NotifierTimeout, nerr.Category)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.NotifierCategory
	}{
		{"credenciales rechazadas", &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}, domain.NotifierAuth},
		{"auth requerida", &textproto.Error{Code: 530, Msg: "5.7.0 Must issue a STARTTLS command first"}, domain.NotifierAuth},
		{"conexión rechazada", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, domain.NotifierConnection},
		{"host desconocido", &net.DNSError{Err: "no such host", Name: "smtp.invalido"}, domain.NotifierConnection},
		{"plazo vencido", context.DeadlineExceeded, domain.NotifierTimeout},
		{"buzón lleno", &textproto.Error{Code: 552, Msg: "mailbox full"}, domain.NotifierUnknown},
		{"ya clasificado", domain.NewNotifierError(domain.NotifierConfig, errors.New("x")), domain.NotifierConfig},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.err).Category)
		})
	}
}

func TestResetLink(t *testing.T) {
	assert.Equal(t, "http://localhost:5173/reset-password?token=t0k", ResetLink("http://localhost:5173/reset-password", "t0k"))
	assert.Equal(t, "https://app.co/r?lang=es&token=t0k", ResetLink("https://app.co/r?lang=es", "t0k"))
}

func TestLogNotifier_NoFalla(t *testing.T) {
	n := NewLogNotifier("http://localhost:5173/reset-password", zerolog.Nop())
	assert.NoError(t, n.SendResetCode(context.Background(), "a@b.co", "A", "123456"))
	assert.NoError(t, n.SendResetLink(context.Background(), "a@b.co", "A", "tok"))
}
