// Package nats announces completed uploads to other archive services.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/resilience"
)

type Options struct {
	ConnectTimeout     time.Duration
	ReconnectWait      time.Duration
	MaxReconnects      int
	ResilienceExecutor *resilience.Executor
	Logger             *slog.Logger
}

type Publisher struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

// UploadedEvent is the message body published for every accepted batch.
type UploadedEvent struct {
	BatchID    string    `json:"batch_id"`
	Category   string    `json:"category"`
	Files      []string  `json:"files"`
	StatusCode int       `json:"status_code"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func New(url, subject string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(
		url,
		nats.Name("scan-uploader"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{
		conn:     conn,
		subject:  subject,
		executor: options.ResilienceExecutor,
	}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) PublishUploaded(ctx context.Context, rec domain.HistoryRecord) error {
	data, err := encodeUploaded(rec)
	if err != nil {
		return err
	}

	call := func(_ context.Context) error {
		if err := p.conn.Publish(p.subject, data); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if p.executor != nil {
		err = p.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

func encodeUploaded(rec domain.HistoryRecord) ([]byte, error) {
	data, err := json.Marshal(UploadedEvent{
		BatchID:    rec.BatchID,
		Category:   rec.Category,
		Files:      rec.Files,
		StatusCode: rec.StatusCode,
		UploadedAt: rec.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal uploaded event: %w", err)
	}
	return data, nil
}
