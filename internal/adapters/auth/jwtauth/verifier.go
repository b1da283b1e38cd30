// Package jwtauth verifica bearer tokens HS256 firmados con un secreto compartido.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"med-reminder/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Claims del token: sub es el user id; email es opcional pero es la identidad
// preferida cuando está.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

func New(secret, issuer string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwtauth: secret required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{secret: []byte(secret), opts: opts}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthorized, err)
	}

	claims := auth.Claims{UserID: c.Subject, Email: c.Email}
	if claims.Identity() == "" {
		return auth.Claims{}, fmt.Errorf("%w: token without subject or email", auth.ErrUnauthorized)
	}
	return claims, nil
}
