package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidInput    = errors.New("invalid input")
	ErrValidation      = errors.New("validation failed")
	ErrNotReady        = errors.New("not ready")
	ErrFileAccess      = errors.New("file access failed")
	ErrRejected        = errors.New("request rejected")
	ErrUploadRejected  = errors.New("upload rejected")
	ErrTransport       = errors.New("transport error")
	ErrTokenExtraction = errors.New("token extraction failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTemporary       = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ValidationError names the first field of a form that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type FileAccessError struct {
	Name string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("open staged file %s: %v", e.Name, e.Err)
}

func (e *FileAccessError) Is(target error) bool {
	return target == ErrFileAccess
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

const (
	OperationLogin  = "login"
	OperationLogout = "logout"
	OperationUpload = "upload"
)

// StatusError is a response that arrived with a status the operation does not accept.
// Every StatusError matches ErrRejected; only upload failures match ErrUploadRejected.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s status: HTTP %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s status: HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return true
	case ErrUploadRejected:
		return e.Operation == OperationUpload
	case ErrUnauthorized:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}

// TransportError means no response was received at all.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request: %v", e.Operation, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeletionWarning reports a staged file that was uploaded but could not be removed.
type DeletionWarning struct {
	Name string
	Err  error
}

func (w DeletionWarning) String() string {
	return fmt.Sprintf("could not delete %s: %v", w.Name, w.Err)
}
