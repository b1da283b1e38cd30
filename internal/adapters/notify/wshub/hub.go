// Package wshub entrega recordatorios por WebSocket a las sesiones abiertas
// del destinatario.
package wshub

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"med-reminder/internal/middleware"
	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/notify"

	"github.com/olahol/melody"
)

const identityKey = "identity"

type Hub struct {
	m   *melody.Melody
	log logger.Logger
}

func New(log logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"component": "wshub"})

	m := melody.New()
	m.Config.MaxMessageSize = 4096
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		id, _ := s.Get(identityKey)
		log.Debug("ws connected", map[string]any{"identity": id})
	})
	m.HandleDisconnect(func(s *melody.Session) {
		id, _ := s.Get(identityKey)
		log.Debug("ws disconnected", map[string]any{"identity": id})
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Warn("ws error", map[string]any{"error": err})
	})

	return &Hub{m: m, log: log}
}

// Handler hace el upgrade para el usuario autenticado. El browser no puede
// mandar headers en el handshake, así que AuthContext también acepta
// ?access_token=.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := h.m.HandleRequestWithKeys(w, r, map[string]any{identityKey: claims.Identity()}); err != nil {
			h.log.Warn("ws upgrade failed", map[string]any{"error": err})
		}
	}
}

// Send implementa notify.Notifier. Sin sesiones abiertas el mensaje se pierde.
func (h *Hub) Send(ctx context.Context, msg notify.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.m.BroadcastFilter(b, func(s *melody.Session) bool {
		id, ok := s.Get(identityKey)
		return ok && id == msg.Identity
	})
}

func (h *Hub) Sessions() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	return h.m.Close()
}
