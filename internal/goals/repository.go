// Package goals holds the in-memory goal collection between a load and a
// flush. All mutations happen here; nothing reaches disk until Flush.
package goals

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/progress"

	"github.com/google/uuid"
)

// Store is a whole-collection persistence backend.
type Store interface {
	Load() ([]model.Goal, error)
	Save([]model.Goal) error
}

// maxIDAttempts bounds id regeneration on collision.
const maxIDAttempts = 8

// Repository is the ordered goal collection.
type Repository struct {
	mu      sync.Mutex
	store   Store
	newID   func() string
	goals   []model.Goal
	dirty   bool
	warning error
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDGenerator replaces the default random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// Open loads the collection from store. A corrupt store yields an empty
// repository and the corruption is kept for Warning.
func Open(store Store, opts ...Option) (*Repository, error) {
	r := &Repository{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}

	goals, err := store.Load()
	switch {
	case errors.Is(err, model.ErrStorageCorrupt):
		slog.Warn("store_corrupt", "err", err)
		r.warning = err
		goals = nil
	case err != nil:
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	r.goals = goals
	slog.Debug("goals_loaded", "count", len(goals))
	return r, nil
}

// Warning returns the non-fatal problem found while opening or reloading,
// if any.
func (r *Repository) Warning() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warning
}

// NewGoal is the input to Create.
type NewGoal struct {
	Title        string
	TrackingType model.TrackingType
	TargetValue  float64
	StartDate    model.Date
	EndDate      model.Date
}

// Create validates and appends a new goal with a fresh id.
func (r *Repository) Create(in NewGoal) (model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := model.Goal{
		Title:        strings.TrimSpace(in.Title),
		TargetValue:  in.TargetValue,
		TrackingType: in.TrackingType,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		ProgressLog:  map[model.Date]float64{},
		Notes:        map[model.Date]string{},
	}
	if err := g.Validate(); err != nil {
		return model.Goal{}, err
	}

	id, err := r.uniqueID()
	if err != nil {
		return model.Goal{}, err
	}
	g.ID = id
	r.goals = append(r.goals, g)
	r.dirty = true
	slog.Info("goal_created", "id", g.ID, "title", g.Title, "type", g.TrackingType)
	return g.Clone(), nil
}

func (r *Repository) uniqueID() (string, error) {
	for range maxIDAttempts {
		id := r.newID()
		if id != "" && r.index(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generating goal id: %d collisions in a row", maxIDAttempts)
}

// Get returns a copy of the goal with id.
func (r *Repository) Get(id string) (model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return model.Goal{}, notFound(id)
	}
	return r.goals[i].Clone(), nil
}

// List returns copies of every goal in insertion order.
func (r *Repository) List() []model.Goal {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Goal, len(r.goals))
	for i, g := range r.goals {
		out[i] = g.Clone()
	}
	return out
}

// Changes lists the editable fields of a goal. Nil fields are left alone.
type Changes struct {
	Title       *string
	TargetValue *float64
	EndDate     *model.Date
}

// Update applies changes to the goal with id.
func (r *Repository) Update(id string, c Changes) (model.Goal, error) {
	return r.mutate(id, func(g *model.Goal) error {
		if c.Title != nil {
			g.Title = strings.TrimSpace(*c.Title)
		}
		if c.TargetValue != nil {
			g.TargetValue = *c.TargetValue
		}
		if c.EndDate != nil {
			g.EndDate = *c.EndDate
		}
		return g.Validate()
	})
}

// Delete removes the goal with id along with its log and notes.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return notFound(id)
	}
	r.goals = append(r.goals[:i], r.goals[i+1:]...)
	r.dirty = true
	slog.Info("goal_deleted", "id", id)
	return nil
}

// FindByTitle returns the first goal whose title matches exactly. Titles are
// not unique.
func (r *Repository) FindByTitle(title string) (model.Goal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.goals {
		if g.Title == title {
			return g.Clone(), true
		}
	}
	return model.Goal{}, false
}

// Resolve looks a goal up by exact id, then by a unique id prefix, then by
// title.
func (r *Repository) Resolve(ref string) (model.Goal, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Goal{}, fmt.Errorf("%w: empty goal reference", model.ErrValidation)
	}

	r.mu.Lock()
	if i := r.index(ref); i >= 0 {
		g := r.goals[i].Clone()
		r.mu.Unlock()
		return g, nil
	}
	var matches []int
	for i, g := range r.goals {
		if strings.HasPrefix(g.ID, ref) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 1 {
		g := r.goals[matches[0]].Clone()
		r.mu.Unlock()
		return g, nil
	}
	r.mu.Unlock()

	if g, ok := r.FindByTitle(ref); ok {
		return g, nil
	}
	if len(matches) > 1 {
		return model.Goal{}, fmt.Errorf("%w: %q matches %d goals", model.ErrNotFound, ref, len(matches))
	}
	return model.Goal{}, notFound(ref)
}

// Log records progress on the goal with id.
func (r *Repository) Log(id string, date model.Date, amount float64, note string) (progress.Result, error) {
	var res progress.Result
	_, err := r.mutate(id, func(g *model.Goal) error {
		var err error
		res, err = progress.Log(g, date, amount, note)
		return err
	})
	if err != nil {
		return progress.Result{}, err
	}
	slog.Info("progress_logged", "id", id, "date", date, "added", res.Added, "total", res.Total)
	return res, nil
}

// Unlog removes the entry for date and returns the amount that was logged.
func (r *Repository) Unlog(id string, date model.Date) (float64, error) {
	var removed float64
	_, err := r.mutate(id, func(g *model.Goal) error {
		var err error
		removed, err = progress.Unlog(g, date)
		return err
	})
	if err != nil {
		return 0, err
	}
	slog.Info("progress_unlogged", "id", id, "date", date, "removed", removed)
	return removed, nil
}

// Annotate sets or clears the note on a logged date.
func (r *Repository) Annotate(id string, date model.Date, note string) error {
	_, err := r.mutate(id, func(g *model.Goal) error {
		return progress.Annotate(g, date, note)
	})
	return err
}

// Import adds archived goals. With replace the collection becomes exactly
// gs; otherwise an id that already exists rejects the whole batch.
func (r *Repository) Import(gs []model.Goal, replace bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(gs))
	for _, g := range gs {
		if err := g.Validate(); err != nil {
			return 0, err
		}
		if g.ID == "" || seen[g.ID] {
			return 0, fmt.Errorf("%w: duplicate or empty id %q in archive", model.ErrValidation, g.ID)
		}
		seen[g.ID] = true
		if !replace && r.index(g.ID) >= 0 {
			return 0, fmt.Errorf("%w: goal %q already exists", model.ErrValidation, g.ID)
		}
	}

	if replace {
		r.goals = r.goals[:0]
	}
	for _, g := range gs {
		r.goals = append(r.goals, g.Clone())
	}
	r.dirty = true
	slog.Info("goals_imported", "count", len(gs), "replace", replace)
	return len(gs), nil
}

// Dirty reports whether there are changes not yet flushed.
func (r *Repository) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

// Flush writes the whole collection through the store if anything changed.
func (r *Repository) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return nil
	}
	if err := r.store.Save(r.goals); err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}
	r.dirty = false
	slog.Debug("goals_flushed", "count", len(r.goals))
	return nil
}

// Reload discards unflushed changes and replaces the collection with what
// the store currently holds. A corrupt store reloads as empty and sets
// Warning, as Open does.
func (r *Repository) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	goals, err := r.store.Load()
	switch {
	case errors.Is(err, model.ErrStorageCorrupt):
		slog.Warn("store_corrupt", "err", err)
		r.warning = err
		goals = nil
	case err != nil:
		return fmt.Errorf("reloading goals: %w", err)
	}
	discarded := r.dirty
	r.goals = goals
	r.dirty = false
	slog.Info("goals_reloaded", "count", len(goals), "discarded_changes", discarded)
	return nil
}

// mutate runs fn on a copy of the goal and swaps the copy in only if fn
// succeeds.
func (r *Repository) mutate(id string, fn func(*model.Goal) error) (model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return model.Goal{}, notFound(id)
	}
	g := r.goals[i].Clone()
	if err := fn(&g); err != nil {
		return model.Goal{}, err
	}
	r.goals[i] = g
	r.dirty = true
	return g.Clone(), nil
}

func (r *Repository) index(id string) int {
	for i := range r.goals {
		if r.goals[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("%w: goal %q", model.ErrNotFound, id)
}
