package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

// AuthGateway exchanges credentials for a token pair.
type AuthGateway interface {
	Login(ctx context.Context, baseURL string, creds domain.Credentials) (domain.TokenPair, error)
	Logout(ctx context.Context, baseURL, accessToken string) error
}

// UploadGateway sends one multipart batch. A returned error means no response was received.
type UploadGateway interface {
	Upload(ctx context.Context, req domain.UploadRequest) (domain.UploadResponse, error)
}

// StagingArea is the directory of scanned images waiting for upload.
type StagingArea interface {
	List(ctx context.Context) ([]domain.StagedFile, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

// UploadHistory keeps a ledger of submission outcomes.
type UploadHistory interface {
	Record(ctx context.Context, rec domain.HistoryRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}

// UploadNotifier announces successful uploads to downstream consumers.
type UploadNotifier interface {
	PublishUploaded(ctx context.Context, rec domain.HistoryRecord) error
}

// UploadObserver receives outcome signals for metrics.
type UploadObserver interface {
	ObserveLogin(err error)
	StartUpload()
	FinishUpload(category string, files int, duration time.Duration, status domain.UploadStatus)
}
