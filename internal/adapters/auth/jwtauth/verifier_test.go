package jwtauth

import (
	"context"
	"testing"
	"time"

	"med-reminder/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, c Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		Email: "Ana@Example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    "med-reminder",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify(t *testing.T) {
	v, err := New("s3cret", "med-reminder")
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	otherIssuer := validClaims()
	otherIssuer.Issuer = "someone-else"

	noExp := validClaims()
	noExp.ExpiresAt = nil

	cases := []struct {
		name  string
		token string
		ok    bool
	}{
		{"valid", sign(t, jwt.SigningMethodHS256, []byte("s3cret"), validClaims()), true},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()), false},
		{"wrong alg", sign(t, jwt.SigningMethodHS512, []byte("s3cret"), validClaims()), false},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte("s3cret"), expired), false},
		{"wrong issuer", sign(t, jwt.SigningMethodHS256, []byte("s3cret"), otherIssuer), false},
		{"no exp", sign(t, jwt.SigningMethodHS256, []byte("s3cret"), noExp), false},
		{"garbage", "not-a-jwt", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := v.Verify(context.Background(), tc.token)
			if !tc.ok {
				assert.ErrorIs(t, err, auth.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
			assert.Equal(t, "ana@example.com", claims.Identity())
		})
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(" ", "")
	assert.Error(t, err)
}
