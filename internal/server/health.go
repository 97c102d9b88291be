package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthChecker serves the liveness and readiness endpoints.
type HealthChecker struct {
	ready     atomic.Bool
	sc        *ServerContext
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker that starts ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the readiness state.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// RegisterHealthEndpoints mounts both probe endpoints on a mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
}

// HealthResponse is the JSON body of both probe endpoints.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Uptime  string            `json:"uptime,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
	Session map[string]string `json:"session,omitempty"`
}

// LivenessHandler serves /healthz. Responding at all means the process
// is alive.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: h.sc.Config().Version,
			Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		})
	})
}

// ReadinessHandler serves /readyz. Readiness requires the ready flag,
// an unshutdown server context and a live API server probe.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		ok := true

		if h.ready.Load() {
			checks["ready"] = "ok"
		} else {
			checks["ready"] = "not ready"
			ok = false
		}

		if h.sc.IsShutdown() {
			checks["shutdown"] = "shutting down"
			ok = false
		}

		client := h.sc.K8sClient()
		if _, err := client.ListNamespaces(r.Context(), 1); err != nil {
			checks["kubernetes"] = err.Error()
			ok = false
		} else {
			checks["kubernetes"] = "ok"
		}

		status := "ok"
		code := http.StatusOK
		if !ok {
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, HealthResponse{
			Status:  status,
			Version: h.sc.Config().Version,
			Checks:  checks,
			Session: map[string]string{
				"context":          client.CurrentContext(),
				"namespace":        client.CurrentNamespace(),
				"credentialSource": client.CredentialSource(),
			},
		})
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
