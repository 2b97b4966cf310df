package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type requestIDContextKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

// observe wraps the status mux: it assigns the request id, then logs and
// counts the request under its route pattern and the staging folder served.
func (rt *Router) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		r = r.WithContext(context.WithValue(r.Context(), requestIDContextKey{}, requestID))
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(start)

		// set by the mux on this request; empty when nothing matched
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		if rt.httpMetrics != nil {
			rt.httpMetrics.ObserveRequest(rt.service, route, recorder.statusCode, elapsed)
		}

		level := slog.LevelDebug
		switch {
		case recorder.statusCode >= 500:
			level = slog.LevelError
		case recorder.statusCode >= 400:
			level = slog.LevelWarn
		}
		rt.logger.Log(r.Context(), level, "status_request",
			"request_id", requestIDFromContext(r.Context()),
			"route", route,
			"status", recorder.statusCode,
			"duration_ms", float64(elapsed.Microseconds())/1000.0,
			"bytes", recorder.bytesWritten,
			"staging_dir", rt.staging.Dir(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}
