package workset

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"mkvcleaver/internal/tracks"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

const (
	DatabaseName = "workset.db"
	LockName     = "workset.lock"
)

var (
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrLocked reports that another process holds the workspace lock.
	ErrLocked = errors.New("workspace is locked by another mkvcleaver process")
)

// Store manages working set persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the working set database in dir.
func Open(ctx context.Context, dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("workspace directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	dbPath := filepath.Join(dir, DatabaseName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(filepath.Join(dir, LockName)),
	}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Lock takes the exclusive workspace lock without blocking.
func (s *Store) Lock() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (%s)", ErrLocked, s.lock.Path())
	}
	return nil
}

// Unlock releases the workspace lock if held.
func (s *Store) Unlock() error {
	if !s.lock.Locked() {
		return nil
	}
	return s.lock.Unlock()
}

// Close releases the lock and closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	unlockErr := s.Unlock()
	if err := s.db.Close(); err != nil {
		return err
	}
	return unlockErr
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Load reads the persisted working set. An empty database yields an empty set.
func (s *Store) Load(ctx context.Context) (*tracks.WorkingSet, error) {
	var (
		files []tracks.File
		batch []tracks.BatchEntry
	)
	err := retryOnBusy(ctx, func() error {
		var err error
		if files, err = s.loadFiles(ctx); err != nil {
			return err
		}
		batch, err = s.loadBatch(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load working set: %w", err)
	}
	return tracks.Restore(files, batch), nil
}

func (s *Store) loadFiles(ctx context.Context) ([]tracks.File, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, path, name, included FROM files ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		files []tracks.File
		ids   []int64
	)
	for rows.Next() {
		var (
			id       int64
			f        tracks.File
			included int
		)
		if err := rows.Scan(&id, &f.Path, &f.Name, &included); err != nil {
			return nil, err
		}
		f.Included = included != 0
		files = append(files, f)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		list, err := s.loadTracks(ctx, id, files[i].Path)
		if err != nil {
			return nil, err
		}
		files[i].Tracks = list
	}
	return files, nil
}

func (s *Store) loadTracks(ctx context.Context, fileID int64, owner string) ([]tracks.Track, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT number, type, codec_id, language, name, selected FROM tracks WHERE file_id = ? ORDER BY position",
		fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []tracks.Track{}
	for rows.Next() {
		var (
			t        tracks.Track
			typ      string
			selected int
		)
		if err := rows.Scan(&t.Number, &typ, &t.CodecID, &t.Language, &t.Name, &selected); err != nil {
			return nil, err
		}
		t.Type = tracks.ParseType(typ)
		t.Selected = selected != 0
		t.Owner = owner
		list = append(list, t)
	}
	return list, rows.Err()
}

func (s *Store) loadBatch(ctx context.Context) ([]tracks.BatchEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, occurrence, selected, owner, number, type, codec_id, language, name
		 FROM batch ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batch []tracks.BatchEntry
	for rows.Next() {
		var (
			e        tracks.BatchEntry
			typ      string
			selected int
		)
		if err := rows.Scan(&e.Label, &e.Occurrence, &selected, &e.Track.Owner, &e.Track.Number,
			&typ, &e.Track.CodecID, &e.Track.Language, &e.Track.Name); err != nil {
			return nil, err
		}
		e.Track.Type = tracks.ParseType(typ)
		e.Selected = selected != 0
		batch = append(batch, e)
	}
	return batch, rows.Err()
}

// Save replaces the persisted state with ws in a single transaction.
func (s *Store) Save(ctx context.Context, ws *tracks.WorkingSet) error {
	if ws == nil {
		return errors.New("working set required")
	}
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if err := s.writeAll(ctx, tx, ws); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("save working set: %w", err)
	}
	return nil
}

func (s *Store) writeAll(ctx context.Context, tx *sql.Tx, ws *tracks.WorkingSet) error {
	for _, stmt := range []string{"DELETE FROM tracks", "DELETE FROM files", "DELETE FROM batch"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for pos, f := range ws.Files() {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO files (position, path, name, included, added_at) VALUES (?, ?, ?, ?, ?)",
			pos, f.Path, f.Name, boolToInt(f.Included), now)
		if err != nil {
			return fmt.Errorf("insert file %s: %w", f.Path, err)
		}
		fileID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for tpos, t := range f.Tracks {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tracks (file_id, position, number, type, codec_id, language, name, selected)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				fileID, tpos, t.Number, string(t.Type), t.CodecID, t.Language, t.Name, boolToInt(t.Selected)); err != nil {
				return fmt.Errorf("insert track %d of %s: %w", t.Number, f.Path, err)
			}
		}
	}

	for pos, e := range ws.Batch() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO batch (position, label, occurrence, selected, owner, number, type, codec_id, language, name)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pos, e.Label, e.Occurrence, boolToInt(e.Selected), e.Track.Owner, e.Track.Number,
			string(e.Track.Type), e.Track.CodecID, e.Track.Language, e.Track.Name); err != nil {
			return fmt.Errorf("insert batch entry %d: %w", pos, err)
		}
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
