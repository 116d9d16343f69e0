package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// TaskID represents a unique identifier for a task
type TaskID struct {
	value string
}

// NewTaskIDFromString creates a TaskID from an existing string
func NewTaskIDFromString(id string) (TaskID, error) {
	if id == "" {
		return TaskID{}, errors.New("task ID cannot be empty")
	}
	return TaskID{value: id}, nil
}

// String returns the string representation
func (t TaskID) String() string {
	return t.value
}

// Equals checks if two TaskIDs are equal
func (t TaskID) Equals(other TaskID) bool {
	return t.value == other.value
}

// ActionID represents a unique identifier for a planned action
type ActionID struct {
	value string
}

// NewActionIDFromString creates an ActionID from an existing string
func NewActionIDFromString(id string) (ActionID, error) {
	if id == "" {
		return ActionID{}, errors.New("action ID cannot be empty")
	}
	return ActionID{value: id}, nil
}

// String returns the string representation
func (a ActionID) String() string {
	return a.value
}

// Equals checks if two ActionIDs are equal
func (a ActionID) Equals(other ActionID) bool {
	return a.value == other.value
}

// StepID represents a unique identifier for a wizard step template
type StepID struct {
	value string
}

// NewStepIDFromString creates a StepID from an existing string
func NewStepIDFromString(id string) (StepID, error) {
	if id == "" {
		return StepID{}, errors.New("step ID cannot be empty")
	}
	return StepID{value: id}, nil
}

// String returns the string representation
func (s StepID) String() string {
	return s.value
}

// Equals checks if two StepIDs are equal
func (s StepID) Equals(other StepID) bool {
	return s.value == other.value
}

// FactID represents a unique identifier for a recorded fact action.
// Format: ULID (e.g., 01JB6X8Y2K9FQR4T3VWHGP5M2C)
type FactID struct {
	value string
}

// NewFactID generates a new FactID using ULID
func NewFactID() FactID {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return FactID{value: id.String()}
}

// NewFactIDFromString creates a FactID from an existing string
func NewFactIDFromString(id string) (FactID, error) {
	if id == "" {
		return FactID{}, errors.New("fact ID cannot be empty")
	}
	return FactID{value: id}, nil
}

// String returns the string representation
func (f FactID) String() string {
	return f.value
}

// Equals checks if two FactIDs are equal
func (f FactID) Equals(other FactID) bool {
	return f.value == other.value
}

// Quantity represents a non-negative amount of product
type Quantity struct {
	value float64
}

// NewQuantity creates a Quantity from a float value
func NewQuantity(value float64) (Quantity, error) {
	if value < 0 {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{value: value}, nil
}

// Value returns the float value
func (q Quantity) Value() float64 {
	return q.value
}

// Add returns the sum of two quantities
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// GreaterOrEqual checks if this quantity meets or exceeds another
func (q Quantity) GreaterOrEqual(other Quantity) bool {
	return q.value >= other.value
}

// String returns the string representation
func (q Quantity) String() string {
	return fmt.Sprintf("%g", q.value)
}

// Timestamp represents a point in time
type Timestamp struct {
	value time.Time
}

// NewTimestamp creates a new Timestamp with current time
func NewTimestamp() Timestamp {
	return Timestamp{value: time.Now()}
}

// NewTimestampFromTime creates a Timestamp from a time.Time value
func NewTimestampFromTime(t time.Time) Timestamp {
	return Timestamp{value: t}
}

// Value returns the time.Time value
func (t Timestamp) Value() time.Time {
	return t.value
}

// Before checks if this timestamp is before another
func (t Timestamp) Before(other Timestamp) bool {
	return t.value.Before(other.value)
}

// After checks if this timestamp is after another
func (t Timestamp) After(other Timestamp) bool {
	return t.value.After(other.value)
}

// String returns the string representation
func (t Timestamp) String() string {
	return t.value.Format(time.RFC3339)
}
