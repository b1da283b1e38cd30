package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "k", r.Header.Get("X-Api-Key"))

		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL+"/", time.Second)
	require.NoError(t, err)

	var out struct {
		Echo string `json:"echo"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "v1/echo",
		map[string]string{"X-Api-Key": "k"}, map[string]string{"msg": "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Echo)
}

func TestDoJSON_Non2xxReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	err := New(time.Second).DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
}

func TestDoJSON_RelativePathWithoutBaseURL(t *testing.T) {
	err := New(0).DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}
