package api

import (
	"context"
	"errors"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/resilience"
)

// classifyAPIError counts only failures where the server never answered.
func classifyAPIError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{RecordFailure: true}
	}
	switch {
	case domain.IsKind(err, domain.ErrRejected),
		domain.IsKind(err, domain.ErrTokenExtraction),
		domain.IsKind(err, domain.ErrFileAccess):
		return resilience.ErrorClassification{RecordFailure: false}
	case domain.IsKind(err, domain.ErrTransport):
		return resilience.ErrorClassification{RecordFailure: true}
	}
	return resilience.ErrorClassification{RecordFailure: false}
}
