// Package cache is the translation memory: successful unit translations kept
// in a local SQLite file so re-runs do not ask the provider again.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Memory wraps the SQLite connection.
type Memory struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite file at path.
func Open(path string) (*Memory, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer only; workers share this connection.
	conn.SetMaxOpenConns(1)

	m := &Memory{conn: conn}
	if err := m.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return m, nil
}

// Close closes the database connection.
func (m *Memory) Close() error {
	return m.conn.Close()
}

func (m *Memory) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS translations (
			source_lang TEXT NOT NULL,
			target_lang TEXT NOT NULL,
			source_text TEXT NOT NULL,
			translated TEXT NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (source_lang, target_lang, source_text)
		)`,
	}
	for _, q := range migrations {
		if _, err := m.conn.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the stored translation of text, if any.
func (m *Memory) Lookup(ctx context.Context, source, target, text string) (string, bool, error) {
	var out string
	err := m.conn.QueryRowContext(ctx,
		`SELECT translated FROM translations WHERE source_lang = ? AND target_lang = ? AND source_text = ?`,
		source, target, text,
	).Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup: %w", err)
	}
	if _, err := m.conn.ExecContext(ctx,
		`UPDATE translations SET hits = hits + 1 WHERE source_lang = ? AND target_lang = ? AND source_text = ?`,
		source, target, text,
	); err != nil {
		return "", false, fmt.Errorf("count hit: %w", err)
	}
	return out, true, nil
}

// Save stores or replaces the translation of text.
func (m *Memory) Save(ctx context.Context, source, target, text, translated string) error {
	_, err := m.conn.ExecContext(ctx,
		`INSERT INTO translations (source_lang, target_lang, source_text, translated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (source_lang, target_lang, source_text) DO UPDATE SET translated = excluded.translated`,
		source, target, text, translated,
	)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Stats reports the number of stored entries and the total hit count.
func (m *Memory) Stats(ctx context.Context) (entries, hits int64, err error) {
	err = m.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM translations`,
	).Scan(&entries, &hits)
	if err != nil {
		return 0, 0, fmt.Errorf("stats: %w", err)
	}
	return entries, hits, nil
}
