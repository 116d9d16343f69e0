package wizard

import (
	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

// Buffer is the session-scoped store of recently collected values. It
// outlives individual wizard sessions within one task session, so a bin
// scanned for one action can prefill the same field of the next. Steps opt
// in or out through their BufferUsage policy.
type Buffer struct {
	values map[model.FactActionField]task.FieldValue
}

// NewBuffer creates an empty buffer
func NewBuffer() *Buffer {
	return &Buffer{values: make(map[model.FactActionField]task.FieldValue)}
}

// Put stores a value for later reuse on the same field
func (b *Buffer) Put(field model.FactActionField, v task.FieldValue) {
	b.values[field] = v
}

// Get returns the buffered value for a field, if any
func (b *Buffer) Get(field model.FactActionField) (task.FieldValue, bool) {
	v, ok := b.values[field]
	return v, ok
}

// Remove drops the buffered value for a field
func (b *Buffer) Remove(field model.FactActionField) {
	delete(b.values, field)
}

// Clear drops every buffered value. Called when the task session ends.
func (b *Buffer) Clear() {
	b.values = make(map[model.FactActionField]task.FieldValue)
}
