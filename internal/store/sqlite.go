package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/goalpace/internal/model"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite stores the goal collection in a single-file SQLite database.
type SQLite struct {
	path     string
	db       *sql.DB
	revision int64

	// recovered holds the corruption found at open time until Load reports it.
	recovered error
}

// OpenSQLite opens or creates the database at path, upgrading older schemas
// in place. A file that is not a readable database is moved aside and
// replaced with an empty one; the next Load reports model.ErrStorageCorrupt.
func OpenSQLite(path string) (*SQLite, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	s := &SQLite{path: path}
	err := s.open()
	if err != nil && isCorrupt(err) {
		if rerr := s.reset(err); rerr != nil {
			return nil, rerr
		}
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) open() error {
	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening store db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

// reset quarantines the current file and opens a fresh database.
func (s *SQLite) reset(cause error) error {
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
	dest, err := quarantine(s.path)
	if err != nil {
		return err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(s.path + suffix); err == nil {
			_ = os.Rename(s.path+suffix, dest+suffix)
		}
	}
	slog.Warn("store_quarantined", "path", s.path, "moved_to", dest, "err", cause)

	if err := s.open(); err != nil {
		return err
	}
	s.revision = 0
	s.recovered = fmt.Errorf("%w: %s moved to %s: %v", model.ErrStorageCorrupt, s.path, dest, cause)
	return nil
}

// migrate brings db up to SchemaVersion. It is safe to run on every open.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("store schema version %d is newer than supported %d", version, SchemaVersion)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := tableHasColumn(tx, "goals", "id")
	if err != nil {
		return err
	}
	if !exists {
		if _, err := tx.Exec(schemaSQL); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	} else {
		hasNotes, err := tableHasColumn(tx, "goals", "notes")
		if err != nil {
			return err
		}
		if !hasNotes {
			if _, err := tx.Exec(addNotesSQL); err != nil {
				return fmt.Errorf("adding notes column: %w", err)
			}
			slog.Info("store_migrated", "from", version, "to", SchemaVersion, "change", "notes column")
		}
	}

	if _, err := tx.Exec(metaSQL); err != nil {
		return fmt.Errorf("creating store meta: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	return tx.Commit()
}

func tableHasColumn(tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspecting %s: %w", table, err)
	}
	return n > 0, nil
}

// Load reads every goal in stored order.
func (s *SQLite) Load() ([]model.Goal, error) {
	if s.recovered != nil {
		err := s.recovered
		s.recovered = nil
		return nil, err
	}

	goals, rev, err := s.load()
	if err != nil && errors.Is(err, model.ErrStorageCorrupt) {
		if rerr := s.reset(err); rerr != nil {
			return nil, rerr
		}
		err = s.recovered
		s.recovered = nil
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.revision = rev
	return goals, nil
}

func (s *SQLite) load() ([]model.Goal, int64, error) {
	rev, err := readRevision(s.db)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`SELECT id, title, target_value, tracking_type,
		start_date, end_date, progress_log, notes
		FROM goals ORDER BY position`)
	if err != nil {
		return nil, 0, fmt.Errorf("querying goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var logJSON string
		var notesJSON sql.NullString
		if err := rows.Scan(&r.ID, &r.Title, &r.TargetValue, &r.TrackingType,
			&r.StartDate, &r.EndDate, &logJSON, &notesJSON); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning goal: %v", model.ErrStorageCorrupt, err)
		}
		if err := json.Unmarshal([]byte(logJSON), &r.ProgressLog); err != nil {
			return nil, 0, fmt.Errorf("%w: goal %s progress log: %v", model.ErrStorageCorrupt, r.ID, err)
		}
		r.Notes = map[string]string{}
		if notesJSON.Valid && notesJSON.String != "" {
			if err := json.Unmarshal([]byte(notesJSON.String), &r.Notes); err != nil {
				return nil, 0, fmt.Errorf("%w: goal %s notes: %v", model.ErrStorageCorrupt, r.ID, err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading goals: %w", err)
	}

	goals, err := toGoals(records)
	if err != nil {
		return nil, 0, err
	}
	return goals, rev, nil
}

// Save replaces the stored collection with goals in one transaction. It fails
// with model.ErrConflict if another writer saved since the last Load or Save.
func (s *SQLite) Save(goals []model.Goal) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rev, err := readRevision(tx)
	if err != nil {
		return err
	}
	if rev != s.revision {
		slog.Warn("store_conflict", "path", s.path, "loaded_revision", s.revision, "stored_revision", rev)
		return fmt.Errorf("%w: loaded revision %d, stored revision %d", model.ErrConflict, s.revision, rev)
	}

	if _, err := tx.Exec("DELETE FROM goals"); err != nil {
		return fmt.Errorf("clearing goals: %w", err)
	}
	for i, r := range toRecords(goals) {
		logJSON, err := json.Marshal(r.ProgressLog)
		if err != nil {
			return fmt.Errorf("encoding progress log: %w", err)
		}
		notesJSON, err := json.Marshal(r.Notes)
		if err != nil {
			return fmt.Errorf("encoding notes: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO goals
			(id, position, title, target_value, tracking_type, start_date, end_date, progress_log, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.Title, r.TargetValue, r.TrackingType, r.StartDate, r.EndDate,
			string(logJSON), string(notesJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting goal %s: %w", r.ID, err)
		}
	}

	if _, err := tx.Exec("UPDATE store_meta SET value = ? WHERE key = 'revision'", rev+1); err != nil {
		return fmt.Errorf("bumping revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	s.revision = rev + 1
	slog.Debug("store_saved", "path", s.path, "goals", len(goals), "revision", s.revision)
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func readRevision(q queryRower) (int64, error) {
	var rev int64
	if err := q.QueryRow("SELECT CAST(value AS INTEGER) FROM store_meta WHERE key = 'revision'").Scan(&rev); err != nil {
		return 0, fmt.Errorf("reading store revision: %w", err)
	}
	return rev, nil
}

// isCorrupt reports whether err means the file is not a usable database.
func isCorrupt(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "file is not a database") || strings.Contains(msg, "malformed")
}
