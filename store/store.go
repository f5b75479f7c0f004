// Package store persists crawl progress in SQLite. The database is
// the checkpoint: discovery and scraping both append to it, and
// re-runs read it to skip everything already done. One result row
// exists per URL no matter how often a run is replayed.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/gaurav-prasanna/filmdex/core"
)

//go:embed schema.sql
var schema string

// Store is the SQLite-backed checkpoint store.
type Store struct {
	db *sql.DB
}

// Open opens the checkpoint database at path, creating the file and
// schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	// WAL keeps concurrent worker writes from tripping over readers.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveURLSet records discovered URLs in order. URLs already present
// are ignored so rediscovery stays idempotent.
func (s *Store) SaveURLSet(ctx context.Context, urls []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO discovered_urls (url) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range urls {
		if _, err := stmt.ExecContext(ctx, u); err != nil {
			return fmt.Errorf("inserting %s: %w", u, err)
		}
	}
	return tx.Commit()
}

// LoadURLSet returns the stored URL set in discovery order.
func (s *Store) LoadURLSet(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM discovered_urls ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying URL set: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning URL: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// AppendRecord stores a successful result. The first write for a URL
// wins; replays are ignored.
func (s *Store) AppendRecord(ctx context.Context, rec core.Record) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results (url, status, record) VALUES (?, 'ok', ?)`,
		rec.SourceURL, string(blob))
	if err != nil {
		return fmt.Errorf("inserting record for %s: %w", rec.SourceURL, err)
	}
	return nil
}

// AppendFailure stores a failed result. The first write for a URL
// wins; replays are ignored.
func (s *Store) AppendFailure(ctx context.Context, fail core.FailureEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results (url, status, stage, category, error) VALUES (?, 'failed', ?, ?, ?)`,
		fail.URL, string(fail.Stage), string(fail.Category), fail.Error)
	if err != nil {
		return fmt.Errorf("inserting failure for %s: %w", fail.URL, err)
	}
	return nil
}

// ProcessedURLs returns every URL that already has a result row.
func (s *Store) ProcessedURLs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM results`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	processed := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning URL: %w", err)
		}
		processed[u] = true
	}
	return processed, rows.Err()
}

// Records returns all stored records ordered by URL.
func (s *Store) Records(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM results WHERE status = 'ok' ORDER BY url`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var recs []core.Record
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec core.Record
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Failures returns all stored failure entries ordered by URL.
func (s *Store) Failures(ctx context.Context) ([]core.FailureEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, stage, category, error FROM results WHERE status = 'failed' ORDER BY url`)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var fails []core.FailureEntry
	for rows.Next() {
		var f core.FailureEntry
		var stage, category sql.NullString
		var errText sql.NullString
		if err := rows.Scan(&f.URL, &stage, &category, &errText); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		f.Stage = core.Stage(stage.String)
		f.Category = core.Category(category.String)
		f.Error = errText.String
		fails = append(fails, f)
	}
	return fails, rows.Err()
}
