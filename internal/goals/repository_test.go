package goals

import (
	"errors"
	"fmt"
	"testing"

	"github.com/theirongolddev/goalpace/internal/model"
)

type memStore struct {
	goals   []model.Goal
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() ([]model.Goal, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]model.Goal, len(m.goals))
	for i, g := range m.goals {
		out[i] = g.Clone()
	}
	return out, nil
}

func (m *memStore) Save(goals []model.Goal) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.goals = make([]model.Goal, len(goals))
	for i, g := range goals {
		m.goals[i] = g.Clone()
	}
	return nil
}

func sequentialIDs(ids ...string) Option {
	n := 0
	return WithIDGenerator(func() string {
		id := ids[n%len(ids)]
		n++
		return id
	})
}

func gym() NewGoal {
	return NewGoal{
		Title:        "Gym",
		TrackingType: model.Sessions,
		TargetValue:  100,
		StartDate:    model.MustParseDate("2024-01-01"),
		EndDate:      model.MustParseDate("2024-12-31"),
	}
}

func openRepo(t *testing.T, s *memStore, opts ...Option) *Repository {
	t.Helper()
	r, err := Open(s, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return r
}

func TestCreateAssignsIDsAndKeepsOrder(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s, sequentialIDs("g1", "g2"))

	a, err := r.Create(gym())
	if err != nil {
		t.Fatal(err)
	}
	in := gym()
	in.Title = "  Piano  "
	in.TrackingType = model.Hours
	b, err := r.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "g1" || b.ID != "g2" || b.Title != "Piano" {
		t.Fatalf("created %q/%q title %q", a.ID, b.ID, b.Title)
	}
	if a.ProgressLog == nil || a.Notes == nil {
		t.Fatal("new goal should have empty maps")
	}

	list := r.List()
	if len(list) != 2 || list[0].ID != "g1" || list[1].ID != "g2" {
		t.Fatalf("List order = %v", list)
	}
}

func TestCreateRegeneratesCollidingID(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("dup", "dup", "fresh"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	g, err := r.Create(gym())
	if err != nil {
		t.Fatal(err)
	}
	if g.ID != "fresh" {
		t.Fatalf("id = %q, want fresh", g.ID)
	}
}

func TestCreateGivesUpOnEndlessCollisions(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("same"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(gym()); err == nil {
		t.Fatal("expected id generation failure")
	}
	if len(r.List()) != 1 {
		t.Fatal("failed create must not add a goal")
	}
}

func TestCreateRejectsInvalidGoal(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s)

	bad := gym()
	bad.EndDate = bad.StartDate
	if _, err := r.Create(bad); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	bad = gym()
	bad.TargetValue = -5
	if _, err := r.Create(bad); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if r.Dirty() || len(r.List()) != 0 {
		t.Fatal("failed create changed state")
	}
	if err := r.Flush(); err != nil || s.saves != 0 {
		t.Fatalf("Flush after failures: err %v, saves %d", err, s.saves)
	}
}

func TestListReturnsCopies(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	list := r.List()
	list[0].Title = "mutated"
	list[0].ProgressLog[model.MustParseDate("2024-02-01")] = 1

	g, _ := r.Get("g1")
	if g.Title != "Gym" || len(g.ProgressLog) != 0 {
		t.Fatalf("repository state leaked: %+v", g)
	}
}

func TestLogFlushRoundTrip(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	day := model.MustParseDate("2024-03-01")
	res, err := r.Log("g1", day, 0, "first")
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Fatalf("Total = %v, want 1", res.Total)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
	if s.saves != 1 {
		t.Fatalf("saves = %d, want 1", s.saves)
	}

	// Flush without changes is a no-op.
	if err := r.Flush(); err != nil || s.saves != 1 {
		t.Fatalf("idle Flush: err %v saves %d", err, s.saves)
	}

	again := openRepo(t, s)
	g, err := again.Get("g1")
	if err != nil {
		t.Fatal(err)
	}
	if g.ProgressLog[day] != 1 || g.Notes[day] != "first" {
		t.Fatalf("reloaded goal = %+v", g)
	}
}

func TestDuplicateSessionLeavesStateUntouched(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
	day := model.MustParseDate("2024-03-01")
	if _, err := r.Log("g1", day, 0, ""); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}

	_, err := r.Log("g1", day, 0, "overwrite?")
	if !errors.Is(err, model.ErrDuplicateEntry) {
		t.Fatalf("err = %v, want ErrDuplicateEntry", err)
	}
	if r.Dirty() {
		t.Fatal("rejected log marked repository dirty")
	}
	g, _ := r.Get("g1")
	if g.ProgressLog[day] != 1 || g.Notes[day] != "" {
		t.Fatalf("goal changed: %+v", g)
	}
}

func TestHoursOutOfRangeRejected(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("h1"))
	in := gym()
	in.TrackingType = model.Hours
	if _, err := r.Create(in); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Log("h1", model.MustParseDate("2024-03-01"), 25, ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if r.Dirty() {
		t.Fatal("rejected log marked repository dirty")
	}
}

func TestDeletedGoalIsNotFound(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete("g1"); err != nil {
		t.Fatal(err)
	}

	day := model.MustParseDate("2024-03-01")
	title := "x"
	checks := map[string]error{
		"get":    func() error { _, err := r.Get("g1"); return err }(),
		"update": func() error { _, err := r.Update("g1", Changes{Title: &title}); return err }(),
		"log":    func() error { _, err := r.Log("g1", day, 0, ""); return err }(),
		"unlog":  func() error { _, err := r.Unlog("g1", day); return err }(),
		"note":   r.Annotate("g1", day, "x"),
		"delete": r.Delete("g1"),
	}
	for name, err := range checks {
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("%s after delete: err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestUpdateValidatesAndPreservesProgress(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	day := model.MustParseDate("2024-03-01")
	if _, err := r.Log("g1", day, 0, ""); err != nil {
		t.Fatal(err)
	}

	target := 120.0
	end := model.MustParseDate("2025-06-30")
	g, err := r.Update("g1", Changes{TargetValue: &target, EndDate: &end})
	if err != nil {
		t.Fatal(err)
	}
	if g.TargetValue != 120 || g.EndDate != end || g.ProgressLog[day] != 1 || g.Title != "Gym" {
		t.Fatalf("updated goal = %+v", g)
	}

	early := model.MustParseDate("2023-12-01")
	if _, err := r.Update("g1", Changes{EndDate: &early}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	blank := "   "
	if _, err := r.Update("g1", Changes{Title: &blank}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	got, _ := r.Get("g1")
	if got.EndDate != end || got.Title != "Gym" {
		t.Fatalf("failed update changed goal: %+v", got)
	}
}

func TestFindByTitleFirstMatchWins(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("g1", "g2"))
	for range 2 {
		if _, err := r.Create(gym()); err != nil {
			t.Fatal(err)
		}
	}
	g, ok := r.FindByTitle("Gym")
	if !ok || g.ID != "g1" {
		t.Fatalf("FindByTitle = %q, %v; want g1", g.ID, ok)
	}
	if _, ok := r.FindByTitle("gym"); ok {
		t.Fatal("title match should be exact")
	}
}

func TestResolve(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("abc123", "abd456"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	piano := gym()
	piano.Title = "Piano"
	if _, err := r.Create(piano); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ref  string
		want string
	}{
		{"abc123", "abc123"},
		{"abd", "abd456"},
		{"Piano", "abd456"},
		{" Gym ", "abc123"},
	}
	for _, tt := range tests {
		g, err := r.Resolve(tt.ref)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.ref, err)
		}
		if g.ID != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, g.ID, tt.want)
		}
	}

	if _, err := r.Resolve("ab"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("ambiguous prefix err = %v", err)
	}
	if _, err := r.Resolve("zzz"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("unknown err = %v", err)
	}
	if _, err := r.Resolve(""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("empty err = %v", err)
	}
}

func TestUnlogAndAnnotate(t *testing.T) {
	r := openRepo(t, &memStore{}, sequentialIDs("h1"))
	in := gym()
	in.TrackingType = model.Hours
	if _, err := r.Create(in); err != nil {
		t.Fatal(err)
	}
	day := model.MustParseDate("2024-03-01")
	if _, err := r.Log("h1", day, 1.5, ""); err != nil {
		t.Fatal(err)
	}
	if err := r.Annotate("h1", day, "scales"); err != nil {
		t.Fatal(err)
	}
	g, _ := r.Get("h1")
	if g.Notes[day] != "scales" {
		t.Fatalf("note = %q", g.Notes[day])
	}

	removed, err := r.Unlog("h1", day)
	if err != nil || removed != 1.5 {
		t.Fatalf("Unlog = %v, %v", removed, err)
	}
	g, _ = r.Get("h1")
	if len(g.ProgressLog) != 0 || len(g.Notes) != 0 {
		t.Fatalf("unlog left %+v", g)
	}
}

func TestOpenWithCorruptStoreWarns(t *testing.T) {
	s := &memStore{loadErr: fmt.Errorf("%w: bad bytes", model.ErrStorageCorrupt)}
	r, err := Open(s)
	if err != nil {
		t.Fatalf("Open should recover: %v", err)
	}
	if !errors.Is(r.Warning(), model.ErrStorageCorrupt) {
		t.Fatalf("Warning = %v", r.Warning())
	}
	if len(r.List()) != 0 {
		t.Fatal("corrupt store should open empty")
	}
}

func TestOpenPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	if _, err := Open(&memStore{loadErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestFlushFailureKeepsDirty(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	s.saveErr = model.ErrConflict
	if err := r.Flush(); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if !r.Dirty() {
		t.Fatal("failed flush should stay dirty")
	}
	s.saveErr = nil
	if err := r.Flush(); err != nil || s.saves != 1 {
		t.Fatalf("retry: err %v saves %d", err, s.saves)
	}
}

func TestReloadDiscardsUnsavedChanges(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}

	day := model.MustParseDate("2024-03-01")
	if _, err := r.Log("g1", day, 1, ""); err != nil {
		t.Fatal(err)
	}
	s.saveErr = model.ErrConflict
	if err := r.Flush(); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// another writer logged a different day in the meantime
	other := s.goals[0].Clone()
	other.ProgressLog[day.AddDays(1)] = 1
	s.goals = []model.Goal{other}
	s.saveErr = nil

	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if r.Dirty() {
		t.Fatal("reload should clear dirty")
	}
	g, err := r.Get("g1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.ProgressLog[day]; ok || len(g.ProgressLog) != 1 {
		t.Fatalf("log after reload = %v", g.ProgressLog)
	}
	if _, err := r.Log("g1", day, 1, ""); err != nil {
		t.Fatalf("log after reload: %v", err)
	}
	if err := r.Flush(); err != nil || len(s.goals[0].ProgressLog) != 2 {
		t.Fatalf("flush after reload: err %v log %v", err, s.goals[0].ProgressLog)
	}
}

func TestReloadPropagatesLoadErrors(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s)
	boom := errors.New("disk on fire")
	s.loadErr = boom
	if err := r.Reload(); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	s.loadErr = model.ErrStorageCorrupt
	if err := r.Reload(); err != nil || !errors.Is(r.Warning(), model.ErrStorageCorrupt) {
		t.Fatalf("corrupt reload: err %v warning %v", err, r.Warning())
	}
}

func TestImportMergeAndReplace(t *testing.T) {
	s := &memStore{}
	r := openRepo(t, s, sequentialIDs("g1"))
	if _, err := r.Create(gym()); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}

	archived := model.Goal{
		ID: "a1", Title: "Piano", TrackingType: model.Hours, TargetValue: 40,
		StartDate:   model.MustParseDate("2024-01-01"),
		EndDate:     model.MustParseDate("2024-06-30"),
		ProgressLog: map[model.Date]float64{model.MustParseDate("2024-02-01"): 1.5},
		Notes:       map[model.Date]string{},
	}

	n, err := r.Import([]model.Goal{archived}, false)
	if err != nil || n != 1 {
		t.Fatalf("merge: n=%d err=%v", n, err)
	}
	if got := r.List(); len(got) != 2 || got[1].ID != "a1" {
		t.Fatalf("after merge: %+v", got)
	}

	if _, err := r.Import([]model.Goal{archived}, false); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("re-import err = %v, want ErrValidation", err)
	}
	if len(r.List()) != 2 {
		t.Fatal("rejected import changed the collection")
	}

	if _, err := r.Import([]model.Goal{archived}, true); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got := r.List()
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("after replace: %+v", got)
	}
	if err := r.Flush(); err != nil || len(s.goals) != 1 {
		t.Fatalf("flush: err=%v stored=%d", err, len(s.goals))
	}
}

func TestImportRejectsInvalidGoal(t *testing.T) {
	r := openRepo(t, &memStore{})
	bad := model.Goal{ID: "x", Title: "", TrackingType: model.Sessions, TargetValue: 1,
		StartDate: model.MustParseDate("2024-01-01"), EndDate: model.MustParseDate("2024-02-01")}
	if _, err := r.Import([]model.Goal{bad}, true); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if r.Dirty() {
		t.Fatal("rejected import marked dirty")
	}
}
