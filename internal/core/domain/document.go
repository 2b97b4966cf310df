package domain

import (
	"io"
	"time"
)

const ScanContentType = "image/jpeg"

type StagedFile struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

func StagedFileNames(files []StagedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenPair struct {
	Access  string
	Refresh string
}

func (p TokenPair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

type BatchFile struct {
	Name string
	Body io.ReadCloser
}

// Batch is the snapshot of one submission, fixed before the request is sent.
type Batch struct {
	ID          string
	Category    CategoryDefinition
	Payload     Payload
	URL         string
	AccessToken string
	Files       []BatchFile
	CreatedAt   time.Time
}

func (b *Batch) FileNames() []string {
	names := make([]string, 0, len(b.Files))
	for _, f := range b.Files {
		names = append(names, f.Name)
	}
	return names
}

// CloseFiles closes every open file part. It is safe to call more than once.
func (b *Batch) CloseFiles() {
	for i := range b.Files {
		if b.Files[i].Body != nil {
			_ = b.Files[i].Body.Close()
			b.Files[i].Body = nil
		}
	}
}

// UploadRequest is what an upload gateway puts on the wire.
type UploadRequest struct {
	RequestID   string
	URL         string
	AccessToken string
	Fields      []PayloadField
	Files       []BatchFile
}

type PayloadField struct {
	Name  string
	Value string
}

type UploadResponse struct {
	StatusCode int
	Body       string
}

type UploadResult struct {
	BatchID    string
	Category   string
	Files      []string
	Payload    Payload
	StatusCode int
	Warnings   []DeletionWarning
}

type UploadStatus string

const (
	UploadStatusUploaded       UploadStatus = "uploaded"
	UploadStatusRejected       UploadStatus = "rejected"
	UploadStatusTransportError UploadStatus = "transport_error"
)

type HistoryRecord struct {
	BatchID    string       `json:"batch_id"`
	Category   string       `json:"category"`
	Files      []string     `json:"files"`
	Status     UploadStatus `json:"status"`
	StatusCode int          `json:"status_code,omitempty"`
	Detail     string       `json:"detail,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
