// Package localfs exposes the scanner's output directory as the staging area.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

type Staging struct {
	basePath string
}

func New(basePath string) (*Staging, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("%w: staging directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Staging{basePath: basePath}, nil
}

func (s *Staging) Dir() string {
	return s.basePath
}

// List returns the regular .jpg/.jpeg files in the directory, sorted by name.
func (s *Staging) List(_ context.Context) ([]domain.StagedFile, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("list staging dir: %w", err)
	}
	files := make([]domain.StagedFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsScan(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, domain.StagedFile{
			Name:    entry.Name(),
			Path:    filepath.Join(s.basePath, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *Staging) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *Staging) Remove(_ context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *Staging) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: invalid staged file name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(s.basePath, name), nil
}

// IsScan reports whether a file name carries a JPEG extension, ignoring case.
func IsScan(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}
