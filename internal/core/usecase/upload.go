package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/core/ports"
)

// PayloadSource is the form the pipeline reads from and resets after success.
type PayloadSource interface {
	Category() (domain.CategoryDefinition, bool)
	BuildPayload() (domain.Payload, error)
	ResetAfterUpload(payload domain.Payload)
}

type TokenSource interface {
	AccessToken() (string, bool)
}

type UploadOptions struct {
	History  ports.UploadHistory
	Notifier ports.UploadNotifier
	Observer ports.UploadObserver
	Logger   *slog.Logger
}

type UploadPipeline struct {
	form    PayloadSource
	session TokenSource
	staging ports.StagingArea
	gateway ports.UploadGateway

	history  ports.UploadHistory
	notifier ports.UploadNotifier
	observer ports.UploadObserver
	logger   *slog.Logger

	now func() time.Time
}

func NewUploadPipeline(
	form PayloadSource,
	session TokenSource,
	staging ports.StagingArea,
	gateway ports.UploadGateway,
	options UploadOptions,
) *UploadPipeline {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadPipeline{
		form:     form,
		session:  session,
		staging:  staging,
		gateway:  gateway,
		history:  options.History,
		notifier: options.Notifier,
		observer: options.Observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Ready reports whether Prepare would get past its readiness checks; the
// console enables its send control from it.
func (p *UploadPipeline) Ready(staged []domain.StagedFile) bool {
	if _, authenticated := p.session.AccessToken(); !authenticated || len(staged) == 0 {
		return false
	}
	_, ok := p.form.Category()
	return ok
}

// Prepare validates the form and opens the staged files. Nothing touches the network.
func (p *UploadPipeline) Prepare(ctx context.Context, baseURL string, staged []domain.StagedFile) (*domain.Batch, error) {
	token, authenticated := p.session.AccessToken()
	if !authenticated {
		return nil, fmt.Errorf("%w: login required", domain.ErrNotReady)
	}
	if len(staged) == 0 {
		return nil, fmt.Errorf("%w: no staged files", domain.ErrNotReady)
	}
	category, ok := p.form.Category()
	if !ok {
		return nil, fmt.Errorf("%w: no category selected", domain.ErrNotReady)
	}

	payload, err := p.form.BuildPayload()
	if err != nil {
		return nil, err
	}

	batch := &domain.Batch{
		ID:          uuid.NewString(),
		Category:    category,
		Payload:     payload,
		URL:         normalizeBaseURL(baseURL) + "/" + category.EndpointSlug,
		AccessToken: token,
		Files:       make([]domain.BatchFile, 0, len(staged)),
		CreatedAt:   p.now().UTC(),
	}
	for _, file := range staged {
		body, err := p.staging.Open(ctx, file.Name)
		if err != nil {
			batch.CloseFiles()
			return nil, &domain.FileAccessError{Name: file.Name, Err: err}
		}
		batch.Files = append(batch.Files, domain.BatchFile{Name: file.Name, Body: body})
	}
	return batch, nil
}

// Send performs the request. It reads only the batch and never touches loop-owned state,
// so it may run on a worker goroutine. The batch files are always closed on return.
func (p *UploadPipeline) Send(ctx context.Context, batch *domain.Batch) (*domain.UploadResult, error) {
	defer batch.CloseFiles()

	if p.observer != nil {
		p.observer.StartUpload()
	}
	started := p.now()

	fields := make([]domain.PayloadField, 0, len(batch.Payload))
	for _, field := range batch.Category.Fields {
		if value, ok := batch.Payload[field.Name]; ok {
			fields = append(fields, domain.PayloadField{Name: field.Name, Value: value})
		}
	}

	resp, err := p.gateway.Upload(ctx, domain.UploadRequest{
		RequestID:   batch.ID,
		URL:         batch.URL,
		AccessToken: batch.AccessToken,
		Fields:      fields,
		Files:       batch.Files,
	})

	rec := domain.HistoryRecord{
		BatchID:   batch.ID,
		Category:  batch.Category.Name,
		Files:     batch.FileNames(),
		CreatedAt: batch.CreatedAt,
	}
	var result *domain.UploadResult
	switch {
	case err != nil:
		var transportErr *domain.TransportError
		if !errors.As(err, &transportErr) && !domain.IsKind(err, domain.ErrFileAccess) {
			err = &domain.TransportError{Operation: "upload", Err: err}
		}
		rec.Status = domain.UploadStatusTransportError
		rec.Detail = err.Error()
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		rec.Status = domain.UploadStatusUploaded
		rec.StatusCode = resp.StatusCode
		result = &domain.UploadResult{
			BatchID:    batch.ID,
			Category:   batch.Category.Name,
			Files:      batch.FileNames(),
			Payload:    batch.Payload,
			StatusCode: resp.StatusCode,
		}
	default:
		err = &domain.StatusError{Operation: domain.OperationUpload, StatusCode: resp.StatusCode, Body: resp.Body}
		rec.Status = domain.UploadStatusRejected
		rec.StatusCode = resp.StatusCode
		rec.Detail = resp.Body
	}

	if p.observer != nil {
		p.observer.FinishUpload(batch.Category.Name, len(batch.Files), p.now().Sub(started), rec.Status)
	}
	p.record(ctx, rec)

	if err != nil {
		p.logger.Warn("upload_failed",
			"batch_id", batch.ID,
			"category", batch.Category.Name,
			"files", len(batch.Files),
			"error", err,
		)
		return nil, err
	}
	p.logger.Info("upload_succeeded",
		"batch_id", batch.ID,
		"category", batch.Category.Name,
		"files", len(batch.Files),
		"status", resp.StatusCode,
	)
	return result, nil
}

// Complete deletes uploaded files and resets the form. Deletion failures do not
// undo the upload; they come back as warnings.
func (p *UploadPipeline) Complete(ctx context.Context, result *domain.UploadResult) []domain.DeletionWarning {
	var warnings []domain.DeletionWarning
	for _, name := range result.Files {
		if err := p.staging.Remove(ctx, name); err != nil {
			p.logger.Warn("staged_file_delete_failed", "batch_id", result.BatchID, "file", name, "error", err)
			warnings = append(warnings, domain.DeletionWarning{Name: name, Err: err})
		}
	}
	p.form.ResetAfterUpload(result.Payload)
	result.Warnings = warnings
	return warnings
}

// Submit runs Prepare, Send and Complete in sequence on the calling goroutine.
func (p *UploadPipeline) Submit(ctx context.Context, baseURL string, staged []domain.StagedFile) (*domain.UploadResult, error) {
	batch, err := p.Prepare(ctx, baseURL, staged)
	if err != nil {
		return nil, err
	}
	result, err := p.Send(ctx, batch)
	if err != nil {
		return nil, err
	}
	p.Complete(ctx, result)
	return result, nil
}

func (p *UploadPipeline) record(ctx context.Context, rec domain.HistoryRecord) {
	if p.history != nil {
		if err := p.history.Record(ctx, rec); err != nil {
			p.logger.Warn("upload_history_record_failed", "batch_id", rec.BatchID, "error", err)
		}
	}
	if p.notifier != nil && rec.Status == domain.UploadStatusUploaded {
		if err := p.notifier.PublishUploaded(ctx, rec); err != nil {
			p.logger.Warn("upload_event_publish_failed", "batch_id", rec.BatchID, "error", err)
		}
	}
}
