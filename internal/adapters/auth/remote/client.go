package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"med-reminder/internal/platform/httpclient"
	"med-reminder/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("remote verifier not configured")
	ErrUpstream      = errors.New("remote verifier upstream error")
)

const verifyPath = "/v1/tokens/verify"

// Config del verificador remoto. BaseURL y APIKey vienen de
// AUTH_REMOTE_URL / AUTH_REMOTE_API_KEY.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Verifier implementa auth.AuthVerifier delegando en un endpoint HTTP que
// valida el token y devuelve la identidad.
type Verifier struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func New(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
	if err != nil {
		return nil, err
	}

	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	return &Verifier{
		http:         c,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

type verifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.http == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if v.apiKey != "" {
		headers[v.apiKeyHeader] = v.apiKey
	}

	var out verifyResponse
	err := v.http.DoJSON(ctx, http.MethodPost, verifyPath, headers, map[string]string{"token": token}, &out)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrUnauthorized
		default:
			return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	claims := auth.Claims{
		UserID: strings.TrimSpace(out.UserID),
		Email:  strings.TrimSpace(out.Email),
	}
	if claims.Identity() == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id and email", ErrUpstream)
	}
	return claims, nil
}
