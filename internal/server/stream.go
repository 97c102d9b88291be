package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kubeops-ai/kubeops/internal/instrumentation"
	"github.com/kubeops-ai/kubeops/internal/logging"
)

// chunkedRequest is the body of one streaming invocation.
type chunkedRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// progressFrame precedes the terminal frame. Progress numbers count the
// request's completed sub-steps.
type progressFrame struct {
	Progress int    `json:"progress"`
	Step     string `json:"step,omitempty"`
}

// doneFrame terminates a successful stream.
type doneFrame struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

// errorFrame terminates a failed stream.
type errorFrame struct {
	Error string `json:"error"`
}

// ChunkedToolHandler serves POST /call-tool-chunked: an NDJSON stream
// of progress frames followed by exactly one terminal frame. The
// connection closes after the terminal frame.
func ChunkedToolHandler(sc *ServerContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req chunkedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		sessionID := uuid.NewString()
		metrics := sc.metrics()
		metrics.StreamSessionStarted(r.Context())
		defer metrics.StreamSessionEnded(r.Context())

		logger := logging.WithTool(sc.Logger(), req.Name).
			With(slog.String(logging.KeySessionID, sessionID))
		logger.Info("streaming session started")

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)

		stream := &frameWriter{w: w, metrics: metrics, ctx: r.Context()}

		// Interim frames mark the observable sub-steps so a slow
		// execution still produces incremental output.
		interval := sc.config.StreamFrameInterval
		steps := []string{"accepted", "dispatching"}
		for len(steps) < sc.config.StreamMinFrames {
			steps = append(steps, "executing")
		}
		for i, step := range steps {
			stream.send(progressFrame{Progress: i + 1, Step: step}, instrumentation.FrameProgress)
			if interval > 0 && i < len(steps)-1 {
				time.Sleep(interval)
			}
		}

		env, err := sc.dispatcher.CallTool(r.Context(), req.Name, req.Args)
		switch {
		case err != nil:
			stream.send(errorFrame{Error: err.Error()}, instrumentation.FrameError)
			logger.Warn("streaming session failed", logging.Err(err))
		case env.IsError:
			var text string
			if len(env.Content) > 0 {
				text = env.Content[0].Text
			}
			stream.send(errorFrame{Error: text}, instrumentation.FrameError)
			logger.Warn("streaming session failed")
		default:
			var text string
			if len(env.Content) > 0 {
				text = env.Content[0].Text
			}
			stream.send(doneFrame{Status: "done", Result: text}, instrumentation.FrameDone)
			logger.Info("streaming session finished")
		}
	})
}

// frameWriter writes one NDJSON frame per line and flushes after each
// so clients observe progress before the terminal frame.
type frameWriter struct {
	w       http.ResponseWriter
	metrics *instrumentation.Metrics
	ctx     context.Context
}

func (f *frameWriter) send(frame any, kind string) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	if _, err := f.w.Write(append(data, '\n')); err != nil {
		return
	}
	if flusher, ok := f.w.(http.Flusher); ok {
		flusher.Flush()
	}
	f.metrics.RecordStreamFrame(f.ctx, kind)
}
