package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankigen/ankigen/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	manager := config.NewManager(config.NewService())
	_, err := manager.Load(ctx, config.NewDefaultProvider())
	require.NoError(t, err)
	ctx = config.ContextWithManager(ctx, manager)
	srv, err := NewServer(ctx)
	require.NoError(t, err)
	return srv
}

func TestServerRouter(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Should serve the health probe", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
		srv.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.NotEmpty(t, body["version"])
	})

	t.Run("Should expose the metrics endpoint when monitoring is enabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
		srv.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("Should generate a request ID when none is supplied", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
		srv.router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("Should echo a caller supplied request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
		req.Header.Set(RequestIDHeader, "deadbeef")
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, "deadbeef", w.Header().Get(RequestIDHeader))
	})

	t.Run("Should register the deck generation route", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v0/decks", http.NoBody)
		srv.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "pdf file is required", body["error"])
	})

	t.Run("Should return 404 for unknown routes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v0/unknown", http.NoBody)
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFriendlyHost(t *testing.T) {
	t.Run("Should map wildcard hosts to loopback", func(t *testing.T) {
		assert.Equal(t, "127.0.0.1", friendlyHost("0.0.0.0"))
		assert.Equal(t, "127.0.0.1", friendlyHost("::"))
		assert.Equal(t, "127.0.0.1", friendlyHost(""))
	})

	t.Run("Should keep concrete hosts", func(t *testing.T) {
		assert.Equal(t, "vocab.internal", friendlyHost("vocab.internal"))
	})
}
