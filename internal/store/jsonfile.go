package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"
)

// Meta describes a JSON snapshot.
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the whole collection as written to a JSON file.
type Snapshot struct {
	Meta  Meta     `json:"_meta"`
	Goals []Record `json:"goals"`
}

// JSONFile stores the collection as one JSON snapshot, rewritten atomically
// (temp file + rename) on every save.
type JSONFile struct {
	path     string
	revision int64
}

// OpenJSON prepares a snapshot store at path, writing an empty current-schema
// snapshot if none exists yet.
func OpenJSON(path string) (*JSONFile, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	s := &JSONFile{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(Snapshot{Goals: []Record{}}, 0); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking store file: %w", err)
	}
	return s, nil
}

// Path returns the snapshot file location.
func (s *JSONFile) Path() string {
	return s.path
}

// Load reads the snapshot. Records written before notes existed are
// back-filled and the upgraded snapshot is written back immediately.
func (s *JSONFile) Load() ([]model.Goal, error) {
	snap, err := s.read()
	if errors.Is(err, model.ErrStorageCorrupt) {
		return nil, s.reset(err)
	}
	if err != nil {
		return nil, err
	}

	migrated := snap.Meta.Version < SchemaVersion
	for i := range snap.Goals {
		if snap.Goals[i].Notes == nil {
			snap.Goals[i].Notes = map[string]string{}
			migrated = true
		}
		if snap.Goals[i].ProgressLog == nil {
			snap.Goals[i].ProgressLog = map[string]float64{}
		}
	}

	goals, err := toGoals(snap.Goals)
	if err != nil {
		return nil, s.reset(err)
	}

	s.revision = snap.Meta.Revision
	if migrated {
		from := snap.Meta.Version
		if err := s.write(snap, snap.Meta.Revision); err != nil {
			return nil, fmt.Errorf("writing migrated snapshot: %w", err)
		}
		slog.Info("store_migrated", "path", s.path, "from", from, "to", SchemaVersion, "change", "notes field")
	}
	return goals, nil
}

// Save overwrites the snapshot. It fails with model.ErrConflict if the file
// was rewritten by someone else since the last Load or Save.
func (s *JSONFile) Save(goals []model.Goal) error {
	current, err := s.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking snapshot before save: %w", err)
	}
	if err == nil && current.Meta.Revision != s.revision {
		slog.Warn("store_conflict", "path", s.path, "loaded_revision", s.revision, "stored_revision", current.Meta.Revision)
		return fmt.Errorf("%w: loaded revision %d, stored revision %d",
			model.ErrConflict, s.revision, current.Meta.Revision)
	}

	next := s.revision + 1
	if err := s.write(Snapshot{Goals: toRecords(goals)}, next); err != nil {
		return err
	}
	s.revision = next
	return nil
}

// read decodes the file. Both the current snapshot object and the oldest
// layout (a bare array of records) are accepted.
func (s *JSONFile) read() (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(s.path)
	if err != nil {
		return snap, fmt.Errorf("reading snapshot: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &snap.Goals); err != nil {
			return snap, fmt.Errorf("%w: %s: %v", model.ErrStorageCorrupt, s.path, err)
		}
		snap.Meta = Meta{Storage: "json_snapshot", Version: 1}
		return snap, nil
	}
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return snap, fmt.Errorf("%w: %s: %v", model.ErrStorageCorrupt, s.path, err)
	}
	return snap, nil
}

func (s *JSONFile) write(snap Snapshot, revision int64) error {
	snap.Meta = Meta{
		Storage:   "json_snapshot",
		Version:   SchemaVersion,
		Revision:  revision,
		Timestamp: time.Now().UTC(),
	}
	if snap.Goals == nil {
		snap.Goals = []Record{}
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// reset quarantines the unreadable file, writes an empty snapshot in its
// place and returns the corruption error for the caller to surface.
func (s *JSONFile) reset(cause error) error {
	dest, err := quarantine(s.path)
	if err != nil {
		return err
	}
	slog.Warn("store_quarantined", "path", s.path, "moved_to", dest, "err", cause)
	if err := s.write(Snapshot{}, 0); err != nil {
		return err
	}
	s.revision = 0
	return fmt.Errorf("%w: %s moved to %s", cause, s.path, dest)
}
