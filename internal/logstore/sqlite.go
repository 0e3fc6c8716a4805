package logstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/five82/logstory/internal/logtail"
)

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
    log_type    TEXT PRIMARY KEY,
    filename    TEXT NOT NULL,
    line_count  INTEGER NOT NULL,
    size        INTEGER NOT NULL,
    uploaded_at INTEGER NOT NULL,
    content     BLOB NOT NULL
);`

// SQLite persists uploads in a SQLite database. Content is stored as a
// zstd frame of the newline-joined lines.
type SQLite struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create uploads table: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &SQLite{db: db, enc: enc, dec: dec}, nil
}

func (s *SQLite) Put(ctx context.Context, u Upload) error {
	if u.UploadedAt.IsZero() {
		u.UploadedAt = time.Now()
	}
	blob := s.enc.EncodeAll([]byte(logtail.Join(u.Lines)), nil)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO uploads (log_type, filename, line_count, size, uploaded_at, content)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(log_type) DO UPDATE SET
    filename = excluded.filename,
    line_count = excluded.line_count,
    size = excluded.size,
    uploaded_at = excluded.uploaded_at,
    content = excluded.content`,
		u.LogType, u.Filename, len(u.Lines), u.Size, u.UploadedAt.UnixNano(), blob)
	if err != nil {
		return fmt.Errorf("store upload %q: %w", u.LogType, err)
	}
	return nil
}

func (s *SQLite) Lines(ctx context.Context, logType string) ([]string, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT content FROM uploads WHERE log_type = ?`, logType).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load upload %q: %w", logType, err)
	}
	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress upload %q: %w", logType, err)
	}
	return logtail.Split(raw), nil
}

func (s *SQLite) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT log_type, filename, line_count, size, uploaded_at
FROM uploads ORDER BY log_type`)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			in Info
			ts int64
		)
		if err := rows.Scan(&in.LogType, &in.Filename, &in.Lines, &in.Size, &ts); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		in.UploadedAt = time.Unix(0, ts)
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return out, nil
}

func (s *SQLite) Delete(ctx context.Context, logType string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE log_type = ?`, logType)
	if err != nil {
		return fmt.Errorf("delete upload %q: %w", logType, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Close() error {
	s.dec.Close()
	_ = s.enc.Close()
	return s.db.Close()
}
