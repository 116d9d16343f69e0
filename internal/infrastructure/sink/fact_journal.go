// Package sink records completed fact actions. The terminal's upload
// pipeline drains this journal later; the engine only appends.
package sink

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/warelabs/taskterm/internal/domain/model/task"
)

const openFlags = os.O_CREATE | os.O_WRONLY | os.O_APPEND

// FactJournal implements port.SubmissionSink by appending facts to a YAML
// journal file, one document per fact
type FactJournal struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewFactJournal creates a journal at the given path
func NewFactJournal(fs afero.Fs, path string) *FactJournal {
	return &FactJournal{fs: fs, path: path}
}

type journalEntry struct {
	ID          string    `yaml:"id"`
	Action      string    `yaml:"action"`
	Product     string    `yaml:"product,omitempty"`
	Pallet      string    `yaml:"pallet,omitempty"`
	Bin         string    `yaml:"bin,omitempty"`
	PlaceBin    string    `yaml:"placementBin,omitempty"`
	PlacePallet string    `yaml:"placementPallet,omitempty"`
	Quantity    *float64  `yaml:"quantity,omitempty"`
	StartedAt   time.Time `yaml:"startedAt"`
	CompletedAt time.Time `yaml:"completedAt"`
}

// Submit appends one completed fact action
func (j *FactJournal) Submit(ctx context.Context, fact *task.FactAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := journalEntry{
		ID:          fact.ID().String(),
		Action:      fact.ActionID().String(),
		StartedAt:   fact.StartedAt().Value(),
		CompletedAt: fact.CompletedAt().Value(),
	}
	if p := fact.Product(); p != nil {
		entry.Product = p.ID
	}
	if p := fact.Pallet(); p != nil {
		entry.Pallet = p.ID
	}
	if b := fact.Bin(); b != nil {
		entry.Bin = b.ID
	}
	if b := fact.PlacementBin(); b != nil {
		entry.PlaceBin = b.ID
	}
	if p := fact.PlacementPallet(); p != nil {
		entry.PlacePallet = p.ID
	}
	if q := fact.Quantity(); q != nil {
		v := q.Value()
		entry.Quantity = &v
	}

	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal fact failed: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := j.fs.OpenFile(j.path, openFlags, 0o644)
	if err != nil {
		return fmt.Errorf("open fact journal failed: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append([]byte("---\n"), data...)); err != nil {
		return fmt.Errorf("append fact failed: %w", err)
	}
	return nil
}
