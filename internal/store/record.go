// Package store persists the goal collection. Every backend loads and saves
// the whole collection at once.
package store

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"
)

// SchemaVersion is the current on-disk schema. Version 1 predates notes.
const SchemaVersion = 2

// Record is the serialized form of a goal shared by every backend.
type Record struct {
	ID           string             `json:"id" yaml:"id"`
	Title        string             `json:"title" yaml:"title"`
	TargetValue  float64            `json:"target_value" yaml:"target_value"`
	TrackingType string             `json:"tracking_type" yaml:"tracking_type"`
	StartDate    string             `json:"start_date" yaml:"start_date"`
	EndDate      string             `json:"end_date" yaml:"end_date"`
	ProgressLog  map[string]float64 `json:"progress_log" yaml:"progress_log"`
	// Notes is nil when the record was written before notes existed.
	Notes map[string]string `json:"notes" yaml:"notes"`
}

// ToRecord converts a goal to its serialized form.
func ToRecord(g model.Goal) Record {
	r := Record{
		ID:           g.ID,
		Title:        g.Title,
		TargetValue:  g.TargetValue,
		TrackingType: string(g.TrackingType),
		StartDate:    g.StartDate.String(),
		EndDate:      g.EndDate.String(),
		ProgressLog:  make(map[string]float64, len(g.ProgressLog)),
		Notes:        make(map[string]string, len(g.Notes)),
	}
	for d, v := range g.ProgressLog {
		r.ProgressLog[d.String()] = v
	}
	for d, n := range g.Notes {
		r.Notes[d.String()] = n
	}
	return r
}

// Goal converts the record back, coercing dates and nested mappings. Any
// value that cannot be coerced is reported as model.ErrStorageCorrupt, as is
// a sessions entry whose value is not exactly 1.
func (r Record) Goal() (model.Goal, error) {
	g := model.Goal{
		ID:           r.ID,
		Title:        r.Title,
		TargetValue:  r.TargetValue,
		TrackingType: model.TrackingType(r.TrackingType),
		ProgressLog:  make(map[model.Date]float64, len(r.ProgressLog)),
		Notes:        make(map[model.Date]string, len(r.Notes)),
	}
	if r.ID == "" {
		return g, fmt.Errorf("%w: record without id", model.ErrStorageCorrupt)
	}
	if !g.TrackingType.Valid() {
		return g, fmt.Errorf("%w: goal %s: tracking type %q", model.ErrStorageCorrupt, r.ID, r.TrackingType)
	}

	var err error
	if g.StartDate, err = model.ParseDate(r.StartDate); err != nil {
		return g, fmt.Errorf("%w: goal %s start date: %v", model.ErrStorageCorrupt, r.ID, err)
	}
	if g.EndDate, err = model.ParseDate(r.EndDate); err != nil {
		return g, fmt.Errorf("%w: goal %s end date: %v", model.ErrStorageCorrupt, r.ID, err)
	}

	for k, v := range r.ProgressLog {
		d, err := model.ParseDate(k)
		if err != nil {
			return g, fmt.Errorf("%w: goal %s progress log: %v", model.ErrStorageCorrupt, r.ID, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return g, fmt.Errorf("%w: goal %s progress log %s: value %v", model.ErrStorageCorrupt, r.ID, k, v)
		}
		if g.TrackingType == model.Sessions && v != 1 {
			return g, fmt.Errorf("%w: goal %s session on %s is %v, want 1", model.ErrStorageCorrupt, r.ID, k, v)
		}
		g.ProgressLog[d] = v
	}
	for k, n := range r.Notes {
		d, err := model.ParseDate(k)
		if err != nil {
			return g, fmt.Errorf("%w: goal %s notes: %v", model.ErrStorageCorrupt, r.ID, err)
		}
		if n == "" {
			continue
		}
		g.Notes[d] = n
	}
	return g, nil
}

// toGoals converts records in order, failing on the first bad record.
func toGoals(records []Record) ([]model.Goal, error) {
	goals := make([]model.Goal, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate goal id %s", model.ErrStorageCorrupt, r.ID)
		}
		seen[r.ID] = struct{}{}
		g, err := r.Goal()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func toRecords(goals []model.Goal) []Record {
	records := make([]Record, 0, len(goals))
	for _, g := range goals {
		records = append(records, ToRecord(g))
	}
	return records
}

// quarantine moves an unreadable store out of the way so a fresh one can be
// created in its place. It returns the new location.
func quarantine(path string) (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("moving corrupt store aside: %w", err)
	}
	return dest, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	return nil
}
