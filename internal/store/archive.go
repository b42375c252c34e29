package store

import (
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"

	"gopkg.in/yaml.v3"
)

// Archive is the human-editable YAML export of the whole collection.
type Archive struct {
	Version    int       `yaml:"version"`
	ExportedAt time.Time `yaml:"exported_at"`
	Goals      []Record  `yaml:"goals"`
}

// ExportYAML writes goals as an Archive.
func ExportYAML(w io.Writer, goals []model.Goal, now time.Time) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Archive{
		Version:    SchemaVersion,
		ExportedAt: now.UTC(),
		Goals:      toRecords(goals),
	}); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	return enc.Close()
}

// ImportYAML reads an Archive. Missing notes are treated as empty, and every
// goal must pass model.Goal.Validate. Records that would be corrupt on disk
// are rejected as model.ErrValidation.
func ImportYAML(r io.Reader) ([]model.Goal, error) {
	var a Archive
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	if a.Version > SchemaVersion {
		return nil, fmt.Errorf("archive version %d is newer than supported %d", a.Version, SchemaVersion)
	}

	goals, err := toGoals(a.Goals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		for d := range g.Notes {
			if _, ok := g.ProgressLog[d]; !ok {
				return nil, fmt.Errorf("goal %s: %w: note on %s has no logged progress", g.ID, model.ErrValidation, d)
			}
		}
	}
	return goals, nil
}
