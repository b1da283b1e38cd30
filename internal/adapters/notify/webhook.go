package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"med-reminder/internal/platform/httpclient"
	port "med-reminder/internal/ports/notify"
)

var ErrWebhookNotConfigured = errors.New("webhook notifier not configured")

type WebhookConfig struct {
	URL string

	// Opcionales: header + valor que se mandan en cada POST.
	APIKey       string
	APIKeyHeader string

	Timeout time.Duration
}

// Webhook hace POST del Message como JSON a una URL fija.
type Webhook struct {
	http    *httpclient.Client
	url     string
	headers map[string]string
}

func NewWebhook(cfg WebhookConfig) (*Webhook, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, ErrWebhookNotConfigured
	}

	headers := map[string]string{}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		h := strings.TrimSpace(cfg.APIKeyHeader)
		if h == "" {
			h = "X-Api-Key"
		}
		headers[h] = key
	}

	return &Webhook{
		http:    httpclient.New(cfg.Timeout),
		url:     url,
		headers: headers,
	}, nil
}

func (w *Webhook) Send(ctx context.Context, msg port.Message) error {
	if err := w.http.DoJSON(ctx, http.MethodPost, w.url, w.headers, msg, nil); err != nil {
		return fmt.Errorf("webhook notify: %w", err)
	}
	return nil
}
