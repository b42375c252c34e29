package store

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"
)

// backend is what every store in this package satisfies.
type backend interface {
	Load() ([]model.Goal, error)
	Save([]model.Goal) error
}

func sampleGoals() []model.Goal {
	d1 := model.MustParseDate("2024-03-01")
	d2 := model.MustParseDate("2024-03-02")
	return []model.Goal{
		{
			ID: "b-second-by-id", Title: "Gym", TargetValue: 100, TrackingType: model.Sessions,
			StartDate: model.MustParseDate("2024-01-01"), EndDate: model.MustParseDate("2024-12-31"),
			ProgressLog: map[model.Date]float64{d1: 1, d2: 1},
			Notes:       map[model.Date]string{d2: "leg day"},
		},
		{
			ID: "a-first-by-id", Title: "Piano", TargetValue: 250.5, TrackingType: model.Hours,
			StartDate: model.MustParseDate("2024-02-01"), EndDate: model.MustParseDate("2025-01-31"),
			ProgressLog: map[model.Date]float64{d1: 2.5},
			Notes:       map[model.Date]string{},
		},
	}
}

func assertSameGoals(t *testing.T, got, want []model.Goal) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Title != w.Title || g.TargetValue != w.TargetValue ||
			g.TrackingType != w.TrackingType || g.StartDate != w.StartDate || g.EndDate != w.EndDate {
			t.Fatalf("goal %d = %+v, want %+v", i, g, w)
		}
		if len(g.ProgressLog) != len(w.ProgressLog) || len(g.Notes) != len(w.Notes) {
			t.Fatalf("goal %d maps: log %v notes %v, want %v %v", i, g.ProgressLog, g.Notes, w.ProgressLog, w.Notes)
		}
		for d, v := range w.ProgressLog {
			if g.ProgressLog[d] != v {
				t.Fatalf("goal %d log[%s] = %v, want %v", i, d, g.ProgressLog[d], v)
			}
		}
		for d, n := range w.Notes {
			if g.Notes[d] != n {
				t.Fatalf("goal %d notes[%s] = %q, want %q", i, d, g.Notes[d], n)
			}
		}
	}
}

func openBackends(t *testing.T) map[string]func(path string) backend {
	t.Helper()
	return map[string]func(string) backend{
		"sqlite": func(p string) backend {
			s, err := OpenSQLite(p + ".db")
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"json": func(p string) backend {
			s, err := OpenJSON(p + ".json")
			if err != nil {
				t.Fatalf("OpenJSON: %v", err)
			}
			return s
		},
	}
}

func TestRoundTripPreservesOrderAndMaps(t *testing.T) {
	for name, open := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "goals")
			s := open(path)

			loaded, err := s.Load()
			if err != nil {
				t.Fatalf("first Load: %v", err)
			}
			if len(loaded) != 0 {
				t.Fatalf("fresh store has %d goals", len(loaded))
			}

			want := sampleGoals()
			if err := s.Save(want); err != nil {
				t.Fatalf("Save: %v", err)
			}

			reopened := open(path)
			got, err := reopened.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertSameGoals(t, got, want)
		})
	}
}

func TestSaveDetectsConcurrentWriter(t *testing.T) {
	for name, open := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "goals")
			a := open(path)
			b := open(path)
			if _, err := a.Load(); err != nil {
				t.Fatal(err)
			}
			if _, err := b.Load(); err != nil {
				t.Fatal(err)
			}

			if err := a.Save(sampleGoals()); err != nil {
				t.Fatalf("first writer: %v", err)
			}
			err := b.Save(sampleGoals()[:1])
			if !errors.Is(err, model.ErrConflict) {
				t.Fatalf("second writer err = %v, want ErrConflict", err)
			}

			// a keeps saving fine after its own write
			if err := a.Save(sampleGoals()[:1]); err != nil {
				t.Fatalf("first writer again: %v", err)
			}
		})
	}
}

func TestSQLiteMigratesLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(schemaV1SQL); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO goals
		(id, position, title, target_value, tracking_type, start_date, end_date, progress_log)
		VALUES ('old', 0, 'Run', 50, 'sessions', '2024-01-01', '2024-12-31', '{"2024-02-01": 1}')`); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite on legacy db: %v", err)
	}
	goals, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(goals) != 1 || goals[0].Notes == nil || len(goals[0].Notes) != 0 {
		t.Fatalf("legacy goal = %+v, want empty notes", goals)
	}
	if goals[0].ProgressLog[model.MustParseDate("2024-02-01")] != 1 {
		t.Fatal("legacy progress lost")
	}
	_ = s.Close()

	// The upgrade is persisted: the raw table now has the column and version.
	db, err = sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != SchemaVersion {
		t.Fatalf("user_version = %d, want %d", version, SchemaVersion)
	}
	var notes string
	if err := db.QueryRow("SELECT notes FROM goals WHERE id = 'old'").Scan(&notes); err != nil {
		t.Fatalf("notes column missing after migration: %v", err)
	}
	if notes != "{}" {
		t.Fatalf("notes = %q, want {}", notes)
	}

	// Opening again is a no-op.
	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	_ = s2.Close()
}

func TestJSONMigratesLegacySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.json")
	legacy := `[{"id":"old","title":"Run","target_value":50,"tracking_type":"sessions",
	  "start_date":"2024-01-01","end_date":"2024-12-31","progress_log":{"2024-02-01":1}}]`
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := OpenJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	goals, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(goals) != 1 || goals[0].Notes == nil {
		t.Fatalf("goals = %+v", goals)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"notes": {}`) || !strings.Contains(string(raw), `"version": 2`) {
		t.Fatalf("upgraded snapshot not persisted:\n%s", raw)
	}

	// A save right after the migration must not look like a conflict.
	if err := s.Save(goals); err != nil {
		t.Fatalf("Save after migration: %v", err)
	}
}

func TestCorruptStoreFallsBackToEmpty(t *testing.T) {
	garbage := []byte(strings.Repeat("this is not a goal store\n", 200))

	t.Run("sqlite", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "goals.db")
		if err := os.WriteFile(path, garbage, 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite should recover, got %v", err)
		}
		defer s.Close()

		goals, err := s.Load()
		if !errors.Is(err, model.ErrStorageCorrupt) {
			t.Fatalf("Load err = %v, want ErrStorageCorrupt", err)
		}
		if len(goals) != 0 {
			t.Fatal("corrupt store should load as empty")
		}
		assertQuarantined(t, dir, "goals.db")

		// Subsequent use works on the fresh database.
		if goals, err := s.Load(); err != nil || len(goals) != 0 {
			t.Fatalf("second Load = %v, %v", goals, err)
		}
		if err := s.Save(sampleGoals()); err != nil {
			t.Fatalf("Save after recovery: %v", err)
		}
	})

	t.Run("json", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "goals.json")
		if err := os.WriteFile(path, []byte(`{"_meta": {`), 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := OpenJSON(path)
		if err != nil {
			t.Fatal(err)
		}
		goals, err := s.Load()
		if !errors.Is(err, model.ErrStorageCorrupt) {
			t.Fatalf("Load err = %v, want ErrStorageCorrupt", err)
		}
		if len(goals) != 0 {
			t.Fatal("corrupt store should load as empty")
		}
		assertQuarantined(t, dir, "goals.json")
		if err := s.Save(sampleGoals()); err != nil {
			t.Fatalf("Save after recovery: %v", err)
		}
	})

	t.Run("bad record", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "goals.json")
		bad := `{"_meta":{"version":2},"goals":[{"id":"x","title":"t","target_value":1,
		  "tracking_type":"sessions","start_date":"2024-13-01","end_date":"2024-12-31",
		  "progress_log":{},"notes":{}}]}`
		if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := OpenJSON(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.Load(); !errors.Is(err, model.ErrStorageCorrupt) {
			t.Fatalf("Load err = %v, want ErrStorageCorrupt", err)
		}
	})

	t.Run("zero session", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "goals.json")
		bad := `{"_meta":{"version":2},"goals":[{"id":"x","title":"t","target_value":1,
		  "tracking_type":"sessions","start_date":"2024-01-01","end_date":"2024-12-31",
		  "progress_log":{"2024-02-01":0},"notes":{}}]}`
		if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := OpenJSON(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.Load(); !errors.Is(err, model.ErrStorageCorrupt) {
			t.Fatalf("Load err = %v, want ErrStorageCorrupt", err)
		}
		assertQuarantined(t, dir, "goals.json")
	})
}

func assertQuarantined(t *testing.T, dir, name string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, name+".corrupt-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatalf("no quarantined copy of %s in %s", name, dir)
	}
}

func TestRecordCoercion(t *testing.T) {
	r := ToRecord(sampleGoals()[0])
	if r.StartDate != "2024-01-01" || r.ProgressLog["2024-03-02"] != 1 || r.Notes["2024-03-02"] != "leg day" {
		t.Fatalf("record = %+v", r)
	}

	bad := r
	bad.ProgressLog = map[string]float64{"03/01/2024": 1}
	if _, err := bad.Goal(); !errors.Is(err, model.ErrStorageCorrupt) {
		t.Fatalf("bad log key err = %v", err)
	}
	bad = r
	bad.TrackingType = "reps"
	if _, err := bad.Goal(); !errors.Is(err, model.ErrStorageCorrupt) {
		t.Fatalf("bad type err = %v", err)
	}
	for _, v := range []float64{7, 0, 0.5} {
		bad = r
		bad.ProgressLog = map[string]float64{"2024-03-01": 1, "2024-03-02": v}
		if _, err := bad.Goal(); !errors.Is(err, model.ErrStorageCorrupt) {
			t.Fatalf("session value %v err = %v", v, err)
		}
	}
	hours := ToRecord(sampleGoals()[1])
	hours.ProgressLog = map[string]float64{"2024-03-01": 7, "2024-03-02": 0}
	if _, err := hours.Goal(); err != nil {
		t.Fatalf("hours values rejected: %v", err)
	}
	if _, err := toGoals([]Record{r, r}); !errors.Is(err, model.ErrStorageCorrupt) {
		t.Fatalf("duplicate id err = %v", err)
	}
}

func TestYAMLArchiveRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := sampleGoals()
	if err := ExportYAML(&buf, want, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	if !strings.Contains(buf.String(), "tracking_type: sessions") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}

	got, err := ImportYAML(&buf)
	if err != nil {
		t.Fatalf("ImportYAML: %v", err)
	}
	assertSameGoals(t, got, want)
}

func TestYAMLImportValidates(t *testing.T) {
	doc := `version: 2
goals:
  - id: g1
    title: Gym
    target_value: 0
    tracking_type: sessions
    start_date: "2024-01-01"
    end_date: "2024-12-31"
    progress_log: {}
`
	if _, err := ImportYAML(strings.NewReader(doc)); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	orphan := `version: 2
goals:
  - id: g1
    title: Gym
    target_value: 10
    tracking_type: sessions
    start_date: "2024-01-01"
    end_date: "2024-12-31"
    progress_log: {}
    notes:
      "2024-01-05": lonely
`
	if _, err := ImportYAML(strings.NewReader(orphan)); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("orphan note err = %v, want ErrValidation", err)
	}

	weighted := `version: 2
goals:
  - id: g1
    title: Gym
    target_value: 10
    tracking_type: sessions
    start_date: "2024-01-01"
    end_date: "2024-12-31"
    progress_log:
      "2024-02-01": 7
      "2024-02-02": -0
`
	if _, err := ImportYAML(strings.NewReader(weighted)); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("session value other than 1 err = %v, want ErrValidation", err)
	}

	goals, err := ImportYAML(strings.NewReader(""))
	if err != nil || goals != nil {
		t.Fatalf("empty archive = %v, %v", goals, err)
	}
}
