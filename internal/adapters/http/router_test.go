package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/observability/metrics"
)

type stagingFake struct {
	files []domain.StagedFile
	err   error
}

func (f stagingFake) Dir() string { return "/home/op/scanned_docs" }

func (f stagingFake) List(context.Context) ([]domain.StagedFile, error) { return f.files, f.err }
func (f stagingFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}
func (f stagingFake) Remove(context.Context, string) error { return errors.New("not implemented") }

type historyFake struct {
	records []domain.HistoryRecord
	limit   int
}

func (f *historyFake) Record(context.Context, domain.HistoryRecord) error { return nil }
func (f *historyFake) ListRecent(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
	f.limit = limit
	return f.records, nil
}

func TestHealthzSetsRequestID(t *testing.T) {
	handler := NewRouter("scan-uploader", stagingFake{}, nil, nil, nil).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-1")
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Header().Get("X-Request-Id") != "req-1" {
		t.Fatalf("expected propagated request id, got %q", res.Header().Get("X-Request-Id"))
	}
}

func TestListStagingUpdatesGauge(t *testing.T) {
	m := metrics.NewUploadMetrics("scan-uploader")
	staging := stagingFake{files: []domain.StagedFile{{Name: "a.jpg"}, {Name: "b.jpg"}}}
	handler := NewRouter("scan-uploader", staging, nil, m, nil).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/staging", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var body struct {
		Dir   string              `json:"dir"`
		Files []domain.StagedFile `json:"files"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || len(body.Files) != 2 {
		t.Fatalf("unexpected body: %v %+v", err, body)
	}
	if body.Dir != "/home/op/scanned_docs" {
		t.Fatalf("expected staging dir in body, got %q", body.Dir)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(res.Body.String(), "scanup_staging_files{service=\"scan-uploader\"} 2") {
		t.Fatalf("expected staging gauge of 2, got %s", res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `scanup_http_requests_total{route="GET /v1/staging",service="scan-uploader",status="200"} 1`) {
		t.Fatalf("expected staging request counted by route, got %s", res.Body.String())
	}
}

func TestRequestLogCarriesRouteAndStagingDir(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := NewRouter("scan-uploader", stagingFake{}, nil, nil, logger).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/staging", nil)
	req.Header.Set("X-Request-Id", "req-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two log lines, got %q", buf.String())
	}
	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if first["msg"] != "status_request" || first["route"] != "GET /v1/staging" || first["request_id"] != "req-7" {
		t.Fatalf("unexpected log entry %v", first)
	}
	if first["staging_dir"] != "/home/op/scanned_docs" || first["level"] != "DEBUG" {
		t.Fatalf("unexpected log entry %v", first)
	}
	if second["route"] != "unmatched" || second["level"] != "WARN" {
		t.Fatalf("unexpected log entry for unknown path %v", second)
	}
}

func TestListStagingError(t *testing.T) {
	handler := NewRouter("scan-uploader", stagingFake{err: errors.New("not a directory")}, nil, nil, nil).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/staging", nil))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
}

func TestListHistory(t *testing.T) {
	history := &historyFake{records: []domain.HistoryRecord{{BatchID: "b-1", Status: domain.UploadStatusUploaded}}}
	handler := NewRouter("scan-uploader", stagingFake{}, history, nil, nil).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/history?limit=5", nil))
	if res.Code != http.StatusOK || history.limit != 5 {
		t.Fatalf("expected 200 with limit 5, got %d limit=%d", res.Code, history.limit)
	}
	if !strings.Contains(res.Body.String(), `"batch_id":"b-1"`) {
		t.Fatalf("unexpected body %s", res.Body.String())
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/history?limit=abc", nil))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", res.Code)
	}
}

func TestListHistoryDisabled(t *testing.T) {
	handler := NewRouter("scan-uploader", stagingFake{}, nil, nil, nil).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}
