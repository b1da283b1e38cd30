package wshub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"med-reminder/internal/middleware"
	"med-reminder/internal/ports/auth"
	"med-reminder/internal/ports/notify"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("as"); id != "" {
			r = r.WithContext(middleware.WithClaims(r.Context(), auth.Claims{Email: id}))
		}
		h.Handler()(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, as string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?as=" + as
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_DeliversOnlyToRecipient(t *testing.T) {
	h := New(nil)
	t.Cleanup(func() { _ = h.Close() })
	srv := newServer(t, h)

	ana := dial(t, srv, "ana@example.com")
	bob := dial(t, srv, "bob@example.com")

	require.Eventually(t, func() bool { return h.Sessions() == 2 }, 2*time.Second, 10*time.Millisecond)

	err := h.Send(context.Background(), notify.Message{Identity: "ana@example.com", Title: "Pill Reminder", Body: "A - 1 at 08:00"})
	require.NoError(t, err)

	require.NoError(t, ana.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ana.ReadMessage()
	require.NoError(t, err)

	var got notify.Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Pill Reminder", got.Title)
	assert.Equal(t, "A - 1 at 08:00", got.Body)

	require.NoError(t, bob.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err, "bob should not receive ana's reminder")
}

func TestHub_RejectsAnonymous(t *testing.T) {
	h := New(nil)
	t.Cleanup(func() { _ = h.Close() })
	srv := newServer(t, h)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
