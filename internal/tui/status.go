package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type status struct {
	kind statusKind
	text string
}

func infoStatus(format string, args ...any) status {
	return status{kind: statusInfo, text: fmt.Sprintf(format, args...)}
}

func errorStatus(prefix string, err error) status {
	return status{kind: statusError, text: prefix + ": " + describeError(err)}
}

// describeError turns a pipeline or session error into the text shown to the operator.
func describeError(err error) string {
	var (
		validationErr *domain.ValidationError
		statusErr     *domain.StatusError
		transportErr  *domain.TransportError
		fileErr       *domain.FileAccessError
	)
	switch {
	case errors.As(err, &validationErr):
		return fmt.Sprintf("%s %s", validationErr.Field, validationErr.Reason)
	case errors.As(err, &statusErr):
		if statusErr.Body == "" {
			return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
		}
		return fmt.Sprintf("HTTP %d: %s", statusErr.StatusCode, truncate(statusErr.Body, 120))
	case errors.As(err, &transportErr):
		return fmt.Sprintf("connection failed: %v", transportErr.Err)
	case errors.As(err, &fileErr):
		return fmt.Sprintf("cannot open %s: %v", fileErr.Name, fileErr.Err)
	case errors.Is(err, domain.ErrTokenExtraction):
		return "server did not return both session tokens"
	case errors.Is(err, domain.ErrInvalidInput):
		return "username and password are required"
	}
	return err.Error()
}

func uploadedStatus(result *domain.UploadResult) status {
	text := fmt.Sprintf("Uploaded %d file(s) to %s (HTTP %d)", len(result.Files), result.Category, result.StatusCode)
	if len(result.Warnings) == 0 {
		return status{kind: statusSuccess, text: text}
	}
	parts := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		parts = append(parts, w.String())
	}
	return status{kind: statusWarning, text: text + "; " + strings.Join(parts, "; ")}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}
