// Package search narrows the current plan down to the actions a scanned or
// typed value belongs to. The Filter is a session-scoped overlay; the
// Searcher resolves a raw value against the currently eligible actions.
package search

import (
	"sort"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

// ActiveFilter is one applied constraint, presented to the operator
type ActiveFilter struct {
	Field    model.FactActionField
	EntityID string
	Label    string
}

type filterEntry struct {
	entityID string
	label    string
	seq      uint64
}

// Filter is a per-session overlay of field constraints. At most one value is
// held per field; re-adding a field replaces its constraint. All state is
// session-scoped and must be cleared when a new task or search cycle begins.
type Filter struct {
	entries  map[model.FactActionField]*filterEntry
	seq      uint64
	priority []model.FactActionField
}

// NewFilter creates an empty filter. The priority list orders presented
// filters when recency cannot (for example after deserialization); it may
// be nil.
func NewFilter(priority []model.FactActionField) *Filter {
	return &Filter{
		entries:  make(map[model.FactActionField]*filterEntry),
		priority: priority,
	}
}

// Add sets the constraint for a field, replacing any previous value
func (f *Filter) Add(field model.FactActionField, entityID, label string) {
	f.seq++
	f.entries[field] = &filterEntry{entityID: entityID, label: label, seq: f.seq}
}

// Remove drops the constraint for a field
func (f *Filter) Remove(field model.FactActionField) {
	delete(f.entries, field)
}

// Clear drops every constraint. Called when a new task or a new search
// cycle begins.
func (f *Filter) Clear() {
	f.entries = make(map[model.FactActionField]*filterEntry)
	f.seq = 0
}

// Len returns the number of active constraints
func (f *Filter) Len() int {
	return len(f.entries)
}

// Value returns the active constraint for a field, if set
func (f *Filter) Value(field model.FactActionField) (ActiveFilter, bool) {
	e, ok := f.entries[field]
	if !ok {
		return ActiveFilter{}, false
	}
	return ActiveFilter{Field: field, EntityID: e.entityID, Label: e.label}, true
}

// Active returns the applied constraints, most recently added first.
// Entries with equal recency fall back to the configured field priority.
func (f *Filter) Active() []ActiveFilter {
	fields := make([]model.FactActionField, 0, len(f.entries))
	for field := range f.entries {
		fields = append(fields, field)
	}
	sort.SliceStable(fields, func(i, j int) bool {
		a, b := f.entries[fields[i]], f.entries[fields[j]]
		if a.seq != b.seq {
			return a.seq > b.seq
		}
		return f.priorityIndex(fields[i]) < f.priorityIndex(fields[j])
	})

	out := make([]ActiveFilter, 0, len(fields))
	for _, field := range fields {
		e := f.entries[field]
		out = append(out, ActiveFilter{Field: field, EntityID: e.entityID, Label: e.label})
	}
	return out
}

func (f *Filter) priorityIndex(field model.FactActionField) int {
	for i, p := range f.priority {
		if p == field {
			return i
		}
	}
	return len(f.priority)
}

// Apply keeps only the actions whose plan targets equal every active
// constraint (AND semantics; unset filters impose no constraint)
func (f *Filter) Apply(actions []*task.PlannedAction) []*task.PlannedAction {
	if len(f.entries) == 0 {
		return actions
	}
	var out []*task.PlannedAction
	for _, a := range actions {
		if f.matches(a) {
			out = append(out, a)
		}
	}
	return out
}

func (f *Filter) matches(a *task.PlannedAction) bool {
	for field, e := range f.entries {
		id, ok := a.TargetEntityID(field)
		if !ok || id != e.entityID {
			return false
		}
	}
	return true
}
