package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret = errors.New("jwt: secret vacío")
	ErrNoSubject   = errors.New("jwt: token sin sujeto")
)

// Options parámetros de firma y validación.
type Options struct {
	Secret string
	Issuer string // si no está vacío, Parse exige que coincida
	TTL    time.Duration
}

// Identity usuario autenticado que viaja en el token (sub + role).
// El middleware RBAC decide con Role sin consultar la DB.
type Identity struct {
	UserID string
	Role   string
}

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Generate firma un token HS256 para id con vencimiento now+TTL.
func Generate(opts Options, id Identity) (string, error) {
	if opts.Secret == "" {
		return "", ErrEmptySecret
	}
	if id.UserID == "" {
		return "", ErrNoSubject
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    opts.Issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.TTL)),
		},
		Role: id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(opts.Secret))
}

// Parse valida firma (solo HS256), vencimiento obligatorio y emisor.
func Parse(opts Options, token string) (Identity, error) {
	if opts.Secret == "" {
		return Identity{}, ErrEmptySecret
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(opts.Secret), nil
	}, parserOpts...)
	if err != nil {
		return Identity{}, err
	}
	if c.Subject == "" {
		return Identity{}, ErrNoSubject
	}
	return Identity{UserID: c.Subject, Role: c.Role}, nil
}
