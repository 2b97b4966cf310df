package localfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

func TestFolderSwitchesBetweenDirectories(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "a.jpg", "a")
	writeFile(t, second, "b.jpg", "b")
	writeFile(t, second, "c.jpeg", "c")

	folder, err := NewFolder(first)
	if err != nil {
		t.Fatalf("NewFolder() error = %v", err)
	}
	files, _ := folder.List(context.Background())
	if names := domain.StagedFileNames(files); len(names) != 1 || names[0] != "a.jpg" {
		t.Fatalf("unexpected first listing %v", names)
	}

	if err := folder.Switch(second); err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	if folder.Dir() != filepath.Clean(second) {
		t.Fatalf("unexpected dir %q", folder.Dir())
	}
	files, _ = folder.List(context.Background())
	if names := domain.StagedFileNames(files); len(names) != 2 || names[0] != "b.jpg" {
		t.Fatalf("unexpected second listing %v", names)
	}
	if err := folder.Remove(context.Background(), "b.jpg"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(second, "b.jpg")); !os.IsNotExist(err) {
		t.Fatalf("expected b.jpg removed from the new folder, got %v", err)
	}
}

func TestFolderSwitchDoesNotCreateDirectory(t *testing.T) {
	folder, err := NewFolder(t.TempDir())
	if err != nil {
		t.Fatalf("NewFolder() error = %v", err)
	}
	missing := filepath.Join(t.TempDir(), "missing")
	if err := folder.Switch(missing); err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	if _, err := folder.List(context.Background()); err == nil {
		t.Fatalf("expected listing a missing folder to fail")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("Switch must not create the folder, stat err = %v", err)
	}
}

func TestFolderSwitchRejectsBlank(t *testing.T) {
	dir := t.TempDir()
	folder, _ := NewFolder(dir)
	if err := folder.Switch("   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if folder.Dir() != dir {
		t.Fatalf("blank switch must keep %q, got %q", dir, folder.Dir())
	}
}
