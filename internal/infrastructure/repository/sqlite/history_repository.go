// Package sqlite keeps a local ledger of upload attempts next to the staging directory.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

const defaultListLimit = 50

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	// one writer: the upload worker and the loop never write concurrently, but keep sqlite honest
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}

func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS upload_history (
	batch_id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	files TEXT NOT NULL,
	status TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	detail TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_history_created_at ON upload_history(created_at DESC);
`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Record(ctx context.Context, rec domain.HistoryRecord) error {
	files, err := json.Marshal(rec.Files)
	if err != nil {
		return fmt.Errorf("marshal history files: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO upload_history (batch_id, category, files, status, status_code, detail, created_at)
VALUES (?,?,?,?,?,?,?)
ON CONFLICT(batch_id) DO UPDATE SET
	status = excluded.status,
	status_code = excluded.status_code,
	detail = excluded.detail
`, rec.BatchID, rec.Category, string(files), string(rec.Status), rec.StatusCode, rec.Detail,
		createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record upload history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT batch_id, category, files, status, status_code, detail, created_at
FROM upload_history
ORDER BY created_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list upload history: %w", err)
	}
	defer rows.Close()

	out := make([]domain.HistoryRecord, 0)
	for rows.Next() {
		var (
			rec       domain.HistoryRecord
			files     string
			status    string
			createdAt string
		)
		if err := rows.Scan(&rec.BatchID, &rec.Category, &files, &status, &rec.StatusCode, &rec.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan upload history: %w", err)
		}
		if err := json.Unmarshal([]byte(files), &rec.Files); err != nil {
			return nil, fmt.Errorf("decode history files for %s: %w", rec.BatchID, err)
		}
		rec.Status = domain.UploadStatus(status)
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse history time for %s: %w", rec.BatchID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upload history: %w", err)
	}
	return out, nil
}
