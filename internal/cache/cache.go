package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quantmind-br/py/internal/core"
)

// Store persists interpreter probe results between launcher invocations.
// Rows are keyed by (path, mtime_ns, size); a changed binary is a miss.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the probe cache at dbPath
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open probe cache: %w", err)
	}

	// The launcher is single-threaded; one connection is enough and
	// keeps sqlite's locking out of the picture.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(time.Minute)

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the on-disk location of the cache database
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS probes (
    path TEXT PRIMARY KEY,
    mtime_ns INTEGER NOT NULL,
    size INTEGER NOT NULL,
    major INTEGER NOT NULL,
    minor INTEGER NOT NULL,
    patch INTEGER NOT NULL,
    arch TEXT NOT NULL,
    probed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Get returns the cached probe result for a binary. ok is false on a miss
// or when the stored mtime/size no longer match the binary on disk.
func (s *Store) Get(ctx context.Context, path string, mtimeNs, size int64) (core.Version, core.Architecture, bool) {
	query := `SELECT mtime_ns, size, major, minor, patch, arch FROM probes WHERE path = ?`

	var (
		storedMtime, storedSize int64
		v                       core.Version
		arch                    string
	)
	err := s.db.QueryRowContext(ctx, query, path).Scan(
		&storedMtime, &storedSize, &v.Major, &v.Minor, &v.Patch, &arch,
	)
	if err != nil {
		return core.Version{}, core.ArchUnknown, false
	}

	if storedMtime != mtimeNs || storedSize != size {
		return core.Version{}, core.ArchUnknown, false
	}

	return v, core.Architecture(arch), true
}

// Put records a probe result, replacing any previous row for the path
func (s *Store) Put(ctx context.Context, path string, mtimeNs, size int64, v core.Version, arch core.Architecture) error {
	query := `
INSERT INTO probes (path, mtime_ns, size, major, minor, patch, arch)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    mtime_ns = excluded.mtime_ns,
    size = excluded.size,
    major = excluded.major,
    minor = excluded.minor,
    patch = excluded.patch,
    arch = excluded.arch,
    probed_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, path, mtimeNs, size, v.Major, v.Minor, v.Patch, string(arch)); err != nil {
		return fmt.Errorf("store probe result: %w", err)
	}
	return nil
}

// Prune removes rows whose binaries no longer exist on disk and
// returns how many were dropped
func (s *Store) Prune(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM probes`)
	if err != nil {
		return 0, fmt.Errorf("query probes: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return 0, fmt.Errorf("scan probe row: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("rows error: %w", err)
	}

	for _, path := range stale {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM probes WHERE path = ?`, path); err != nil {
			return 0, fmt.Errorf("delete stale probe: %w", err)
		}
	}

	return len(stale), nil
}

// Count returns the number of cached probe results
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM probes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count probes: %w", err)
	}
	return n, nil
}

// Clear drops every cached probe result
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM probes`); err != nil {
		return fmt.Errorf("clear probes: %w", err)
	}
	return nil
}
