package task

import (
	"errors"
	"fmt"
	"sort"

	"github.com/warelabs/taskterm/internal/domain/model"
)

// TaskType is the configuration shared by all tasks of one kind. It is
// immutable for the task's lifetime.
type TaskType struct {
	id                        string
	name                      string
	regularOrdering           model.OrderingPolicy
	searchFields              []model.FactActionField
	allowCompleteWithoutFacts bool
	templates                 map[string]*ActionTemplate
}

// NewTaskType creates a task type. The search field list is the priority
// order used by value search; it may be empty for types without search.
func NewTaskType(
	id string,
	name string,
	regularOrdering model.OrderingPolicy,
	searchFields []model.FactActionField,
	allowCompleteWithoutFacts bool,
	templates []*ActionTemplate,
) (*TaskType, error) {
	if id == "" {
		return nil, errors.New("task type ID cannot be empty")
	}
	if !regularOrdering.IsValid() {
		return nil, errors.New("task type has no valid ordering policy")
	}
	for _, f := range searchFields {
		if !f.IsValid() {
			return nil, fmt.Errorf("invalid search field %q", f)
		}
	}
	byID := make(map[string]*ActionTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID()] = t
	}
	return &TaskType{
		id:                        id,
		name:                      name,
		regularOrdering:           regularOrdering,
		searchFields:              searchFields,
		allowCompleteWithoutFacts: allowCompleteWithoutFacts,
		templates:                 byID,
	}, nil
}

// ID returns the task type ID
func (t *TaskType) ID() string {
	return t.id
}

// Name returns the task type name
func (t *TaskType) Name() string {
	return t.name
}

// RegularOrdering returns the ordering policy for Regular-stage actions
func (t *TaskType) RegularOrdering() model.OrderingPolicy {
	return t.regularOrdering
}

// SearchFields returns the searchable fields in priority order
func (t *TaskType) SearchFields() []model.FactActionField {
	return t.searchFields
}

// AllowCompleteWithoutFacts reports whether the task may be completed with
// no fact actions recorded
func (t *TaskType) AllowCompleteWithoutFacts() bool {
	return t.allowCompleteWithoutFacts
}

// Template returns the action template with the given ID, if registered
func (t *TaskType) Template(id string) (*ActionTemplate, bool) {
	tpl, ok := t.templates[id]
	return tpl, ok
}

// Task is the aggregate root of one unit of warehouse work: an ordered plan
// of actions plus an append-only log of recorded facts. A task snapshot is
// owned by exactly one wizard/search session at a time.
type Task struct {
	id       model.TaskID
	name     string
	status   model.TaskStatus
	taskType *TaskType
	plan     []*PlannedAction
	facts    []*FactAction
}

// NewTask creates a task from its loaded plan. The plan is sorted by stage
// order on load and not reordered afterwards.
func NewTask(
	id model.TaskID,
	name string,
	status model.TaskStatus,
	taskType *TaskType,
	plan []*PlannedAction,
	facts []*FactAction,
) (*Task, error) {
	if !status.IsValid() {
		return nil, errors.New("invalid task status")
	}
	if taskType == nil {
		return nil, errors.New("task must reference a task type")
	}
	sorted := make([]*PlannedAction, len(plan))
	copy(sorted, plan)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})
	for _, f := range facts {
		if findAction(sorted, f.ActionID()) == nil {
			return nil, fmt.Errorf("fact %s references unknown action %s", f.ID(), f.ActionID())
		}
	}
	return &Task{
		id:       id,
		name:     name,
		status:   status,
		taskType: taskType,
		plan:     sorted,
		facts:    facts,
	}, nil
}

func findAction(plan []*PlannedAction, id model.ActionID) *PlannedAction {
	for _, a := range plan {
		if a.ID().Equals(id) {
			return a
		}
	}
	return nil
}

// ID returns the task ID
func (t *Task) ID() model.TaskID {
	return t.id
}

// Name returns the task name
func (t *Task) Name() string {
	return t.name
}

// Status returns the current task status
func (t *Task) Status() model.TaskStatus {
	return t.status
}

// Type returns the task type
func (t *Task) Type() *TaskType {
	return t.taskType
}

// Plan returns the planned actions ordered by their sequence number
func (t *Task) Plan() []*PlannedAction {
	return t.plan
}

// Facts returns the recorded fact actions, oldest first
func (t *Task) Facts() []*FactAction {
	return t.facts
}

// Action resolves a planned action by ID, or nil when absent
func (t *Task) Action(id model.ActionID) *PlannedAction {
	return findAction(t.plan, id)
}

// FactsFor returns the fact actions recorded against one planned action
func (t *Task) FactsFor(id model.ActionID) []*FactAction {
	var matched []*FactAction
	for _, f := range t.facts {
		if f.ActionID().Equals(id) {
			matched = append(matched, f)
		}
	}
	return matched
}

// AppendFact records a completed fact action. The referenced planned action
// must exist; the fact log itself is append-only.
func (t *Task) AppendFact(f *FactAction) error {
	if findAction(t.plan, f.ActionID()) == nil {
		return fmt.Errorf("fact references unknown action %s", f.ActionID())
	}
	t.facts = append(t.facts, f)
	return nil
}

// UpdateStatus transitions the task to a new status
func (t *Task) UpdateStatus(next model.TaskStatus) error {
	if !next.IsValid() {
		return errors.New("invalid task status")
	}
	if !t.status.CanTransitionTo(next) {
		return fmt.Errorf("invalid status transition from %s to %s", t.status, next)
	}
	t.status = next
	return nil
}

// Start moves the task into active work
func (t *Task) Start() error {
	return t.UpdateStatus(model.TaskStatusInProgress)
}

// Pause suspends an in-progress task
func (t *Task) Pause() error {
	return t.UpdateStatus(model.TaskStatusPaused)
}

// Resume continues a paused task
func (t *Task) Resume() error {
	return t.UpdateStatus(model.TaskStatusInProgress)
}

// Complete finishes the task
func (t *Task) Complete() error {
	return t.UpdateStatus(model.TaskStatusCompleted)
}

// Cancel abandons the task
func (t *Task) Cancel() error {
	return t.UpdateStatus(model.TaskStatusCancelled)
}

// IsFullyCompleted reports whether the given planned action is done under
// the completion invariant, recomputed from the current fact log
func (t *Task) IsFullyCompleted(a *PlannedAction) bool {
	return IsFullyCompleted(a, t.facts)
}

// CompletedQuantity returns the accumulated fact quantity for the action
func (t *Task) CompletedQuantity(a *PlannedAction) model.Quantity {
	return CompletedQuantity(a, t.facts)
}
