package domain

import (
	"errors"
	"testing"
)

func TestStatusErrorKinds(t *testing.T) {
	login := &StatusError{Operation: OperationLogin, StatusCode: 401}
	if !errors.Is(login, ErrRejected) || !errors.Is(login, ErrUnauthorized) {
		t.Fatalf("expected login 401 to be rejected and unauthorized")
	}
	if errors.Is(login, ErrUploadRejected) {
		t.Fatalf("login status must not read as an upload rejection")
	}

	upload := &StatusError{Operation: OperationUpload, StatusCode: 500}
	if !errors.Is(upload, ErrUploadRejected) || !errors.Is(upload, ErrRejected) {
		t.Fatalf("expected upload 500 to match both rejection kinds")
	}
	if errors.Is(upload, ErrUnauthorized) {
		t.Fatalf("500 is not unauthorized")
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("refused")
	err := WrapError(ErrTemporary, "publish", &TransportError{Operation: OperationUpload, Err: cause})
	if !IsKind(err, ErrTransport) || !IsKind(err, ErrTemporary) || !errors.Is(err, cause) {
		t.Fatalf("unexpected kinds for %v", err)
	}
}
