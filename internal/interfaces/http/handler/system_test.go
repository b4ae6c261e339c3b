package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, h *SystemHandler) (int, HealthResponse) {
	t.Helper()
	engine := gin.New()
	engine.GET("/health", h.Health)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body struct {
		Data HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body.Data
}

func TestSystemHandler_Health(t *testing.T) {
	code, body := serveHealth(t, NewSystemHandler("backoffice", "1.2.3", pingerFunc(func(context.Context) error { return nil })))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.NotEmpty(t, body.GoVersion)

	code, body = serveHealth(t, NewSystemHandler("backoffice", "1.2.3", pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	})))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unreachable", body.Database)
}

func TestSystemHandler_HealthWithClosedDatabase(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.doAs("", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, s.db.Close())
	w, _ = s.doAs("", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
