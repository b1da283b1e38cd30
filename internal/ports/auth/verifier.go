package auth

import (
	"context"
	"errors"
)

var ErrUnauthorized = errors.New("unauthorized")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// VerifierFunc adapta una función a AuthVerifier (tests, verificadores ad hoc).
type VerifierFunc func(ctx context.Context, token string) (Claims, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (Claims, error) {
	return f(ctx, token)
}
