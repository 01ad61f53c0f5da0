// Package recovery implementa el flujo de recuperación de contraseña:
// solicitud → verificación del código → restablecimiento con token.
//
//	IDLE ──RequestReset──▶ CODE_SENT ──VerifyCode──▶ CODE_VERIFIED ──ResetPasswordByToken──▶ RESET_COMPLETE
//
// ResetPasswordByCode es el camino directo CODE_SENT → RESET_COMPLETE, sin token.
package recovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/application/ports"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	domrecovery "github.com/jhoicas/inventario-ferreteria/internal/domain/recovery"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

// Mensajes devueltos al cliente.
const (
	MsgResetRequested = "Si el correo está registrado, recibirás un código de verificación en tu bandeja de entrada"
	MsgCodeVerified   = "Código verificado. Te enviamos un enlace para restablecer tu contraseña"
	MsgPasswordReset  = "Contraseña actualizada correctamente"
)

// DefaultTTL vigencia por defecto de códigos y tokens.
const DefaultTTL = 15 * time.Minute

// Config vigencias del código y del token.
type Config struct {
	CodeTTL  time.Duration
	TokenTTL time.Duration
}

// UseCase máquina de estados de recuperación de contraseña.
type UseCase struct {
	tx       TxRunner
	hasher   ports.PasswordHasher
	notifier ports.Notifier
	cfg      Config
	log      zerolog.Logger

	now      func() time.Time
	newCode  func() (string, error)
	newToken func() (string, error)
}

// Option personaliza el caso de uso (reloj y generadores, usado en pruebas).
type Option func(*UseCase)

// WithClock reemplaza el reloj.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// WithCodeGenerator reemplaza el generador de códigos de 6 dígitos.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(uc *UseCase) { uc.newCode = gen }
}

// WithTokenGenerator reemplaza el generador de tokens.
func WithTokenGenerator(gen func() (string, error)) Option {
	return func(uc *UseCase) { uc.newToken = gen }
}

// NewUseCase construye el caso de uso. Vigencias no positivas usan DefaultTTL.
func NewUseCase(tx TxRunner, hasher ports.PasswordHasher, notifier ports.Notifier, cfg Config, log zerolog.Logger, opts ...Option) *UseCase {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = DefaultTTL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTTL
	}
	uc := &UseCase{
		tx:       tx,
		hasher:   hasher,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With().Str("component", "recovery").Logger(),
		now:      time.Now,
		newCode:  domrecovery.GenerateCode,
		newToken: domrecovery.GenerateToken,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RequestReset emite un código de 6 dígitos y lo envía por correo.
// Para un correo no registrado responde exactamente igual que para uno registrado.
// Una solicitud nueva reemplaza cualquier código o token vivo del usuario.
func (uc *UseCase) RequestReset(ctx context.Context, email string) (*dto.ActionResult, error) {
	const op = "request_reset"
	email = dto.NormalizeEmail(email)
	if err := dto.ValidateEmail(email); err != nil {
		return nil, err
	}
	code, err := uc.newCode()
	if err != nil {
		return nil, uc.fail(op, err)
	}

	var user *entity.User
	err = uc.tx.RunUsers(ctx, func(users repository.UserRepository) error {
		u, err := users.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if u == nil {
			return nil
		}
		if !u.Active {
			return domain.ErrAccountDisabled
		}
		expires := uc.now().Add(uc.cfg.CodeTTL)
		u.ResetCode = code
		u.ResetCodeExpires = &expires
		u.ClearResetToken()
		if err := users.SaveResetState(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, uc.fail(op, err)
	}
	if user == nil {
		uc.log.Debug().Str("op", op).Msg("solicitud para correo no registrado")
		return &dto.ActionResult{Success: true, Message: MsgResetRequested}, nil
	}

	// El código queda guardado aunque el envío falle; reintentar lo reemplaza.
	if err := uc.notifier.SendResetCode(ctx, user.Email, user.Name, code); err != nil {
		return nil, uc.notifyFail(op, user.ID, err)
	}
	uc.log.Info().Str("op", op).Str("user_id", user.ID).Msg("código de recuperación enviado")
	return &dto.ActionResult{Success: true, Message: MsgResetRequested}, nil
}

// VerifyCode canjea un código vigente por un token de un solo uso enviado como enlace.
// El código se consume en la misma transacción que guarda el token. Si el enlace no
// puede entregarse, el código se restaura y el token se revoca.
func (uc *UseCase) VerifyCode(ctx context.Context, email, code string) (*dto.ActionResult, error) {
	const op = "verify_code"
	email = dto.NormalizeEmail(email)
	if err := dto.ValidateEmail(email); err != nil {
		return nil, err
	}
	if !domrecovery.IsValidCode(code) {
		return nil, domain.NewValidationError("code", "el código debe tener exactamente 6 dígitos")
	}
	token, err := uc.newToken()
	if err != nil {
		return nil, uc.fail(op, err)
	}
	digest := domrecovery.HashToken(token)

	var (
		user        *entity.User
		prevExpires *time.Time
	)
	err = uc.tx.RunUsers(ctx, func(users repository.UserRepository) error {
		u, err := users.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if u == nil || !u.HasValidResetCode(code, uc.now()) {
			return domain.ErrInvalidOrExpiredCode
		}
		if !u.Active {
			return domain.ErrAccountDisabled
		}
		prev := *u.ResetCodeExpires
		prevExpires = &prev

		expires := uc.now().Add(uc.cfg.TokenTTL)
		u.ResetToken = digest
		u.ResetTokenExpires = &expires
		u.ClearResetCode()
		if err := users.SaveResetState(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, uc.fail(op, err)
	}

	if err := uc.notifier.SendResetLink(ctx, user.Email, user.Name, token); err != nil {
		uc.restoreCode(context.WithoutCancel(ctx), email, digest, code, prevExpires)
		return nil, uc.notifyFail(op, user.ID, err)
	}
	uc.log.Info().Str("op", op).Str("user_id", user.ID).Msg("código verificado, enlace enviado")
	return &dto.ActionResult{Success: true, Message: MsgCodeVerified}, nil
}

// restoreCode deshace VerifyCode cuando el enlace no se entregó: revoca el token
// emitido y devuelve el código con su vencimiento original. Solo actúa si el token
// guardado sigue siendo el emitido (otra solicitud pudo reemplazarlo).
func (uc *UseCase) restoreCode(ctx context.Context, email, digest, code string, expires *time.Time) {
	err := uc.tx.RunUsers(ctx, func(users repository.UserRepository) error {
		u, err := users.FindByEmailForUpdate(ctx, email)
		if err != nil || u == nil || u.ResetToken != digest {
			return err
		}
		u.ClearResetToken()
		u.ResetCode = code
		u.ResetCodeExpires = expires
		return users.SaveResetState(ctx, u)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("op", "restore_code").Msg("no se pudo restaurar el código tras fallo de envío")
	}
}

// ResetPasswordByToken cambia la contraseña con un token vigente y lo consume.
func (uc *UseCase) ResetPasswordByToken(ctx context.Context, token, newPassword string) (*dto.ActionResult, error) {
	const op = "reset_by_token"
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.NewValidationError("token", "el token es requerido")
	}
	if err := domrecovery.ValidatePassword(newPassword); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return nil, uc.fail(op, err)
	}
	digest := domrecovery.HashToken(token)

	var userID string
	err = uc.tx.RunUsers(ctx, func(users repository.UserRepository) error {
		u, err := users.FindByResetTokenForUpdate(ctx, digest)
		if err != nil {
			return err
		}
		if u == nil || !u.HasValidResetToken(digest, uc.now()) {
			return domain.ErrInvalidOrExpiredToken
		}
		if !u.Active {
			return domain.ErrAccountDisabled
		}
		if err := users.UpdatePassword(ctx, u.ID, hash); err != nil {
			return err
		}
		u.ClearResetToken()
		u.ClearResetCode()
		userID = u.ID
		return users.SaveResetState(ctx, u)
	})
	if err != nil {
		return nil, uc.fail(op, err)
	}
	uc.log.Info().Str("op", op).Str("user_id", userID).Msg("contraseña restablecida")
	return &dto.ActionResult{Success: true, Message: MsgPasswordReset}, nil
}

// ResetPasswordByCode cambia la contraseña verificando directamente el código, sin token.
func (uc *UseCase) ResetPasswordByCode(ctx context.Context, email, code, newPassword string) (*dto.ActionResult, error) {
	const op = "reset_by_code"
	email = dto.NormalizeEmail(email)
	if err := dto.ValidateEmail(email); err != nil {
		return nil, err
	}
	if !domrecovery.IsValidCode(code) {
		return nil, domain.NewValidationError("code", "el código debe tener exactamente 6 dígitos")
	}
	if err := domrecovery.ValidatePassword(newPassword); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return nil, uc.fail(op, err)
	}

	var userID string
	err = uc.tx.RunUsers(ctx, func(users repository.UserRepository) error {
		u, err := users.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if u == nil || !u.HasValidResetCode(code, uc.now()) {
			return domain.ErrInvalidOrExpiredCode
		}
		if !u.Active {
			return domain.ErrAccountDisabled
		}
		if err := users.UpdatePassword(ctx, u.ID, hash); err != nil {
			return err
		}
		u.ClearResetCode()
		u.ClearResetToken()
		userID = u.ID
		return users.SaveResetState(ctx, u)
	})
	if err != nil {
		return nil, uc.fail(op, err)
	}
	uc.log.Info().Str("op", op).Str("user_id", userID).Msg("contraseña restablecida con código")
	return &dto.ActionResult{Success: true, Message: MsgPasswordReset}, nil
}

// fail deja pasar los errores del dominio; el resto se registra y se oculta tras ErrTransaction.
func (uc *UseCase) fail(op string, err error) error {
	if domain.IsDomainError(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("falla inesperada")
	return domain.ErrTransaction
}

func (uc *UseCase) notifyFail(op, userID string, err error) error {
	var nerr *domain.NotifierError
	if !errors.As(err, &nerr) {
		nerr = domain.NewNotifierError(domain.NotifierUnknown, err)
	}
	uc.log.Warn().Err(nerr.Err).Str("op", op).Str("user_id", userID).
		Str("category", string(nerr.Category)).Msg("fallo al enviar correo de recuperación")
	return nerr
}
