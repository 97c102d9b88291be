package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLivenessHandler(t *testing.T) {
	sc := newTestServerContext(t, WithVersion("1.2.3"))
	h := NewHealthChecker(sc)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeHealth(t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.NotEmpty(t, body.Uptime)
}

func TestReadinessHandler(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		sc := newTestServerContext(t)
		h := NewHealthChecker(sc)

		rec := httptest.NewRecorder()
		h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeHealth(t, rec)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "ok", body.Checks["kubernetes"])
		assert.Equal(t, "staging", body.Session["context"])
		assert.Equal(t, "default", body.Session["namespace"])
		assert.Equal(t, "kubeconfig-path", body.Session["credentialSource"])
	})

	t.Run("api server unreachable", func(t *testing.T) {
		sc := newTestServerContext(t)
		sc.client = &stubClient{probeErr: fmt.Errorf("connection refused")}
		h := NewHealthChecker(sc)

		rec := httptest.NewRecorder()
		h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeHealth(t, rec)
		assert.Equal(t, "unavailable", body.Status)
		assert.Contains(t, body.Checks["kubernetes"], "connection refused")
	})

	t.Run("marked not ready", func(t *testing.T) {
		sc := newTestServerContext(t)
		h := NewHealthChecker(sc)
		h.SetReady(false)
		assert.False(t, h.IsReady())

		rec := httptest.NewRecorder()
		h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not ready", decodeHealth(t, rec).Checks["ready"])
	})

	t.Run("shutting down", func(t *testing.T) {
		sc := newTestServerContext(t)
		h := NewHealthChecker(sc)
		sc.Shutdown()

		rec := httptest.NewRecorder()
		h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "shutting down", decodeHealth(t, rec).Checks["shutdown"])
	})
}
