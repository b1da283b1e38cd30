// Package oidcauth verifica ID tokens de un proveedor OpenID Connect.
package oidcauth

import (
	"context"
	"fmt"

	"med-reminder/internal/ports/auth"

	"github.com/coreos/go-oidc/v3/oidc"
)

type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// New hace discovery sobre issuer y verifica contra su JWKS.
func New(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("creating OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewWithKeySet evita el discovery (claves estáticas, tests).
func NewWithKeySet(issuer, clientID string, keys oidc.KeySet) *Verifier {
	return &Verifier{verifier: oidc.NewVerifier(issuer, keys, &oidc.Config{ClientID: clientID})}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: verifying id token: %v", auth.ErrUnauthorized, err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: parsing claims: %v", auth.ErrUnauthorized, err)
	}

	out := auth.Claims{UserID: idToken.Subject}
	// un email marcado explícitamente como no verificado no sirve de identidad
	if claims.EmailVerified == nil || *claims.EmailVerified {
		out.Email = claims.Email
	}
	return out, nil
}
