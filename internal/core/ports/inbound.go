package ports

import (
	"context"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

// SessionService is the inbound contract for authentication state.
type SessionService interface {
	Authenticate(ctx context.Context, baseURL, username, password string) (domain.TokenPair, error)
	Establish(pair domain.TokenPair)
	Login(ctx context.Context, baseURL, username, password string) error
	SignOut() string
	Revoke(ctx context.Context, baseURL, token string)
	Logout(ctx context.Context, baseURL string)
	IsAuthenticated() bool
	AccessToken() (string, bool)
}

// UploadService is the inbound contract for submitting staged scans.
// Prepare and Complete run on the presentation loop; Send may run on a worker.
type UploadService interface {
	Ready(staged []domain.StagedFile) bool
	Prepare(ctx context.Context, baseURL string, staged []domain.StagedFile) (*domain.Batch, error)
	Send(ctx context.Context, batch *domain.Batch) (*domain.UploadResult, error)
	Complete(ctx context.Context, result *domain.UploadResult) []domain.DeletionWarning
	Submit(ctx context.Context, baseURL string, staged []domain.StagedFile) (*domain.UploadResult, error)
}
