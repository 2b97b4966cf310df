package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

// Folder is the staging area the operator currently points at. The loop
// re-points it with Switch; the status server reads it from its own goroutines.
type Folder struct {
	mu      sync.RWMutex
	current *Staging
}

// NewFolder starts at dir, creating it when missing.
func NewFolder(dir string) (*Folder, error) {
	staging, err := New(expandHome(dir))
	if err != nil {
		return nil, err
	}
	return &Folder{current: staging}, nil
}

// Switch points the folder at dir. The directory is not created: a folder
// that does not exist shows up as a List error until it appears.
func (f *Folder) Switch(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("%w: staging directory is required", domain.ErrInvalidInput)
	}
	staging := &Staging{basePath: filepath.Clean(expandHome(dir))}

	f.mu.Lock()
	f.current = staging
	f.mu.Unlock()
	return nil
}

func (f *Folder) Dir() string {
	return f.staging().Dir()
}

func (f *Folder) List(ctx context.Context) ([]domain.StagedFile, error) {
	return f.staging().List(ctx)
}

func (f *Folder) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return f.staging().Open(ctx, name)
}

func (f *Folder) Remove(ctx context.Context, name string) error {
	return f.staging().Remove(ctx, name)
}

func (f *Folder) staging() *Staging {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

func expandHome(dir string) string {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dir
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~"))
}
