package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

type UploadMetrics struct {
	registry *prometheus.Registry
	service  string

	loginTotal     *prometheus.CounterVec
	uploadTotal    *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
	uploadInFlight prometheus.Gauge
	filesTotal     *prometheus.CounterVec
	stagedFiles    prometheus.Gauge
}

func NewUploadMetrics(service string) *UploadMetrics {
	registry := prometheus.NewRegistry()

	loginTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scanup",
			Subsystem: "session",
			Name:      "login_total",
			Help:      "Total login attempts by status.",
		},
		[]string{"service", "status"},
	)
	uploadTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scanup",
			Subsystem: "upload",
			Name:      "batches_total",
			Help:      "Total upload batches by category and outcome.",
		},
		[]string{"service", "category", "status"},
	)
	uploadDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scanup",
			Subsystem: "upload",
			Name:      "duration_seconds",
			Help:      "Upload request duration in seconds by outcome.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service", "status"},
	)
	uploadInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "scanup",
			Subsystem: "upload",
			Name:      "in_flight",
			Help:      "Number of in-flight upload batches.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	filesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scanup",
			Subsystem: "upload",
			Name:      "files_total",
			Help:      "Total scanned files sent by outcome.",
		},
		[]string{"service", "status"},
	)
	stagedFiles := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "scanup",
			Subsystem: "staging",
			Name:      "files",
			Help:      "Scanned files currently waiting in the staging directory.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(loginTotal, uploadTotal, uploadDuration, uploadInFlight, filesTotal, stagedFiles)

	return &UploadMetrics{
		registry:       registry,
		service:        service,
		loginTotal:     loginTotal,
		uploadTotal:    uploadTotal,
		uploadDuration: uploadDuration,
		uploadInFlight: uploadInFlight,
		filesTotal:     filesTotal,
		stagedFiles:    stagedFiles,
	}
}

func (m *UploadMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *UploadMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *UploadMetrics) ObserveLogin(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.loginTotal.WithLabelValues(m.service, status).Inc()
}

func (m *UploadMetrics) StartUpload() {
	m.uploadInFlight.Inc()
}

func (m *UploadMetrics) FinishUpload(category string, files int, duration time.Duration, status domain.UploadStatus) {
	m.uploadInFlight.Dec()

	m.uploadTotal.WithLabelValues(m.service, category, string(status)).Inc()
	m.uploadDuration.WithLabelValues(m.service, string(status)).Observe(duration.Seconds())
	if files > 0 {
		m.filesTotal.WithLabelValues(m.service, string(status)).Add(float64(files))
	}
}

func (m *UploadMetrics) SetStagedFiles(n int) {
	m.stagedFiles.Set(float64(n))
}
