// Package httpadapter serves the uploader's local status endpoints.
package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/core/ports"
	"github.com/kirillkom/scan-uploader/internal/observability/metrics"
)

const defaultHistoryLimit = 20

// StagingFolder is the staging area together with the directory it reads.
type StagingFolder interface {
	ports.StagingArea
	Dir() string
}

type Router struct {
	staging     StagingFolder
	history     ports.UploadHistory
	metrics     *metrics.UploadMetrics
	httpMetrics *metrics.HTTPServerMetrics
	logger      *slog.Logger
	service     string
}

// NewRouter wires the status endpoints. history and uploadMetrics may be nil
// when those features are disabled.
func NewRouter(
	service string,
	staging StagingFolder,
	history ports.UploadHistory,
	uploadMetrics *metrics.UploadMetrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	rt := &Router{
		staging: staging,
		history: history,
		metrics: uploadMetrics,
		logger:  logger,
		service: service,
	}
	if uploadMetrics != nil {
		rt.httpMetrics = metrics.NewHTTPServerMetrics(uploadMetrics.Registry())
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /v1/staging", rt.listStaging)
	mux.HandleFunc("GET /v1/history", rt.listHistory)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	return rt.observe(mux)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listStaging(w http.ResponseWriter, r *http.Request) {
	files, err := rt.staging.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.SetStagedFiles(len(files))
	}
	writeJSON(w, http.StatusOK, map[string]any{"dir": rt.staging.Dir(), "files": files})
}

func (rt *Router) listHistory(w http.ResponseWriter, r *http.Request) {
	if rt.history == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "upload history is disabled"})
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidInput))
			return
		}
		limit = n
	}
	records, err := rt.history.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"uploads": records})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
