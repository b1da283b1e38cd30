package middleware

import (
	"context"
	"net/http"
	"strings"

	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const DebugUserHeader = "X-Debug-User-ID"

// AuthContext resuelve la identidad del request:
// - verifier == nil (modo dev): X-Debug-User-ID se toma como identidad.
// - verifier != nil: Bearer token => Verify(); si falla se loguea y se sigue sin claims.
// Nunca corta el request: cada handler responde 401 si necesita identidad.
func AuthContext(verifier auth.AuthVerifier, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get(DebugUserHeader)); uid != "" {
					claims := auth.Claims{UserID: uid}
					if strings.Contains(uid, "@") {
						claims.Email = uid
					}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				// WebSocket: el browser no puede setear headers en el upgrade
				token = strings.TrimSpace(r.URL.Query().Get("access_token"))
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("token rejected", map[string]any{"path": r.URL.Path, "error": err})
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
