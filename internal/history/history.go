// Package history keeps a local log of completed analyses in SQLite so past
// result sets can be listed and reopened without contacting the service.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/model"
	"github.com/vanderheijden86/ccview/pkg/results"
)

// Kinds of analysis request.
const (
	KindText = "text"
	KindFile = "file"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	created_at   TEXT NOT NULL,
	source       TEXT NOT NULL,
	kind         TEXT NOT NULL,
	result_count INTEGER NOT NULL,
	payload      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// Entry is one recorded analysis.
type Entry struct {
	ID          string
	CreatedAt   time.Time
	Source      string
	Kind        string
	ResultCount int
	Results     []model.AnalysisResult
}

// Set returns the entry as a result set ready for a results.Store.
func (e Entry) Set() results.Set {
	return results.Set{Results: e.Results, Source: e.Source}
}

// Store is a SQLite-backed history log.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record stores a completed analysis. Attached graph images are not kept.
func (s *Store) Record(ctx context.Context, set results.Set, kind string) (Entry, error) {
	stored := make([]model.AnalysisResult, len(set.Results))
	for i, r := range set.Results {
		r.GraphImage = ""
		stored[i] = r
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return Entry{}, fmt.Errorf("encode results: %w", err)
	}

	e := Entry{
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		Source:      set.Source,
		Kind:        kind,
		ResultCount: len(stored),
		Results:     stored,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, source, kind, result_count, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Format(time.RFC3339Nano), e.Source, e.Kind, e.ResultCount, string(payload))
	if err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}
	debug.Log("history: recorded %s (%s, %d results)", e.ID, e.Source, e.ResultCount)
	return e, nil
}

// List returns the most recent entries first, without their results.
// limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, created_at, source, kind, result_count FROM analyses ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &created, &e.Source, &e.Kind, &e.ResultCount); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads one entry including its results. id may be a unique prefix.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	if id == "" {
		return Entry{}, ErrNotFound
	}
	// substr rather than LIKE so '%' and '_' in id match literally.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, kind, result_count, payload FROM analyses WHERE substr(id, 1, length(?)) = ? LIMIT 2`, id, id)
	if err != nil {
		return Entry{}, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var found []Entry
	for rows.Next() {
		var e Entry
		var created, payload string
		if err := rows.Scan(&e.ID, &created, &e.Source, &e.Kind, &e.ResultCount, &payload); err != nil {
			return Entry{}, fmt.Errorf("scan history row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		if err := json.Unmarshal([]byte(payload), &e.Results); err != nil {
			return Entry{}, fmt.Errorf("decode history payload %s: %w", e.ID, err)
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, err
	}
	switch len(found) {
	case 0:
		return Entry{}, ErrNotFound
	case 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("ambiguous id prefix %q", id)
	}
}

// Prune deletes all but the newest keep entries and returns how many rows
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM analyses WHERE id NOT IN (SELECT id FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}
