package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/scan-uploader/internal/config"
)

func TestNewWiresDefaults(t *testing.T) {
	cfg := config.Config{
		APIBaseURL: "http://api.local/api",
		StagingDir: filepath.Join(t.TempDir(), "scans"),
	}
	app, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if len(app.Registry.Names()) != 5 {
		t.Fatalf("expected default categories, got %v", app.Registry.Names())
	}
	if app.History != nil || app.Watcher != nil || app.StagingChanges() != nil {
		t.Fatalf("optional features must be off by default")
	}
	if _, err := os.Stat(cfg.StagingDir); err != nil {
		t.Fatalf("expected staging dir created: %v", err)
	}

	res := httptest.NewRecorder()
	app.StatusHandler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", res.Code)
	}
}

func TestNewWithHistoryAndCategoriesFile(t *testing.T) {
	dir := t.TempDir()
	categories := filepath.Join(dir, "categories.yaml")
	data := []byte(`categories:
  - name: Kartu Keluarga
    endpoint: kartu-keluarga
    fields:
      - name: nik
        label: NIK
        kind: national_id
      - name: noFisik
        label: Nomor Fisik
        kind: physical_ref
        carry_over: true
`)
	if err := os.WriteFile(categories, data, 0o644); err != nil {
		t.Fatalf("write categories: %v", err)
	}

	app, err := New(context.Background(), config.Config{
		StagingDir:     filepath.Join(dir, "scans"),
		CategoriesFile: categories,
		HistoryDB:      filepath.Join(dir, "history.db"),
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if names := app.Registry.Names(); len(names) != 1 || names[0] != "Kartu Keluarga" {
		t.Fatalf("unexpected categories %v", names)
	}
	if app.History == nil {
		t.Fatalf("expected history ledger")
	}
	records, err := app.History.ListRecent(context.Background(), 5)
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty ledger, got %v %v", records, err)
	}
}

func TestNewFailsOnMissingCategoriesFile(t *testing.T) {
	_, err := New(context.Background(), config.Config{
		StagingDir:     t.TempDir(),
		CategoriesFile: "/nonexistent/categories.yaml",
	}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestSwitchStagingMovesFolderAndWatcher(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	if err := os.Mkdir(second, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(second, "page.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write scan: %v", err)
	}

	app, err := New(context.Background(), config.Config{StagingDir: first, StagingWatch: true}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()
	oldChanges := app.StagingChanges()
	if oldChanges == nil {
		t.Fatalf("expected a watcher on the initial folder")
	}

	changes, err := app.SwitchStaging(second)
	if err != nil {
		t.Fatalf("SwitchStaging() error = %v", err)
	}
	if changes == nil || app.Staging.Dir() != second {
		t.Fatalf("expected watcher on %s, dir=%s", second, app.Staging.Dir())
	}
	if _, ok := <-oldChanges; ok {
		t.Fatalf("expected the old change feed closed")
	}
	files, err := app.Staging.List(context.Background())
	if err != nil || len(files) != 1 || files[0].Name != "page.jpg" {
		t.Fatalf("unexpected listing %v %v", files, err)
	}

	changes, err = app.SwitchStaging(filepath.Join(root, "missing"))
	if err != nil {
		t.Fatalf("SwitchStaging() to missing folder error = %v", err)
	}
	if changes != nil {
		t.Fatalf("a missing folder cannot be watched")
	}
	if _, err := app.Staging.List(context.Background()); err == nil {
		t.Fatalf("expected listing a missing folder to fail")
	}
}
