// Package ordering decides which planned actions may be worked on, given the
// task's stage precedence (Initial, then Regular, then Final) and the task
// type's ordering policy. All violations are reported as descriptive error
// values; an ordering error is always locally recoverable.
package ordering

import (
	"errors"
	"fmt"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

// ErrActionNotFound is returned when the requested action is not in the plan
var ErrActionNotFound = errors.New("action not found")

// ErrAlreadyCompleted is returned when a completed action may not be reopened
var ErrAlreadyCompleted = errors.New("action is already completed")

// ErrOrderViolation wraps all out-of-turn execution attempts
var ErrOrderViolation = errors.New("action cannot be executed yet")

// CanExecute reports whether the planned action may be started or continued
// right now. A nil result means the operator may open the action's wizard.
func CanExecute(t *task.Task, id model.ActionID) error {
	a := t.Action(id)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrActionNotFound, id)
	}

	if t.IsFullyCompleted(a) {
		// A completed action may only be reopened to accumulate more
		// facts, and only in the one combination where ordering cannot
		// be violated by doing so.
		reopenable := a.Template().AllowMultipleFacts() &&
			a.Stage() == model.StageRegular &&
			t.Type().RegularOrdering() == model.OrderingArbitrary
		if !reopenable {
			return fmt.Errorf("%w: %s", ErrAlreadyCompleted, id)
		}
	}

	switch a.Stage() {
	case model.StageInitial:
		return canExecuteInitial(t, a)
	case model.StageRegular:
		return canExecuteRegular(t, a)
	case model.StageFinal:
		return canExecuteFinal(t, a)
	default:
		// Stage validity is enforced at plan load; this is unreachable
		// for a loaded task.
		return fmt.Errorf("%w: action %s has unknown stage", ErrOrderViolation, id)
	}
}

// canExecuteInitial allows only the first incomplete Initial action.
// Initial actions are implicitly strict-ordered regardless of policy.
func canExecuteInitial(t *task.Task, a *task.PlannedAction) error {
	first := firstIncomplete(t, model.StageInitial)
	if first == nil || !first.ID().Equals(a.ID()) {
		return blockedBy(first, "an earlier initial action must be completed first")
	}
	return nil
}

// blockedBy names the action standing in the way when one is known
func blockedBy(first *task.PlannedAction, fallback string) error {
	if first != nil {
		return fmt.Errorf("%w: action %s must be completed first", ErrOrderViolation, first.ID())
	}
	return fmt.Errorf("%w: %s", ErrOrderViolation, fallback)
}

func canExecuteRegular(t *task.Task, a *task.PlannedAction) error {
	if !stageCompleted(t, model.StageInitial) {
		return fmt.Errorf("%w: initial actions must be completed first", ErrOrderViolation)
	}
	if t.Type().RegularOrdering() == model.OrderingStrict {
		first := firstIncomplete(t, model.StageRegular)
		if first == nil || !first.ID().Equals(a.ID()) {
			return blockedBy(first, "a lower-order action must be completed first")
		}
		return nil
	}
	// Arbitrary: any incomplete action is fine, but an accumulating action
	// whose quantity target is met takes no more facts.
	if a.Template().AllowMultipleFacts() {
		if planned := a.PlannedQuantity(); planned != nil {
			if t.CompletedQuantity(a).GreaterOrEqual(*planned) {
				return fmt.Errorf("%w: planned quantity already reached", ErrAlreadyCompleted)
			}
		}
	}
	return nil
}

// canExecuteFinal requires both earlier stages resolved; Final actions are
// always strict-ordered regardless of the Regular policy.
func canExecuteFinal(t *task.Task, a *task.PlannedAction) error {
	if !stageCompleted(t, model.StageInitial) {
		return fmt.Errorf("%w: initial actions must be completed first", ErrOrderViolation)
	}
	if !stageCompleted(t, model.StageRegular) {
		return fmt.Errorf("%w: regular actions must be completed first", ErrOrderViolation)
	}
	first := firstIncomplete(t, model.StageFinal)
	if first == nil || !first.ID().Equals(a.ID()) {
		return blockedBy(first, "an earlier final action must be completed first")
	}
	return nil
}

// NextAvailableAction walks the stage precedence and returns the first
// action the operator should work on, or nil when the task is fully resolved.
func NextAvailableAction(t *task.Task) *task.PlannedAction {
	for _, stage := range []model.CompletionStage{model.StageInitial, model.StageRegular, model.StageFinal} {
		if a := firstIncomplete(t, stage); a != nil {
			return a
		}
	}
	return nil
}

// CanCompleteTask reports whether the task as a whole may be completed.
// Task types that allow completion without facts always pass; otherwise
// every non-skipped planned action must be fully completed.
func CanCompleteTask(t *task.Task) error {
	if t.Type().AllowCompleteWithoutFacts() {
		return nil
	}
	for _, a := range t.Plan() {
		if a.Skipped() {
			continue
		}
		if !t.IsFullyCompleted(a) {
			return fmt.Errorf("action %s is not completed", a.ID())
		}
	}
	return nil
}

// CandidateActions returns all actions of the first not-fully-resolved
// stage: the set a scanned value is matched against. Under Strict ordering
// the Regular candidates include every action up to and including the first
// incomplete one, so a re-scan of an already-done bin still resolves.
func CandidateActions(t *task.Task) []*task.PlannedAction {
	if firstIncomplete(t, model.StageInitial) != nil {
		return incompleteOf(t, model.StageInitial)
	}
	if firstIncomplete(t, model.StageRegular) != nil {
		if t.Type().RegularOrdering() == model.OrderingStrict {
			return regularUpToFirstIncomplete(t)
		}
		return incompleteOf(t, model.StageRegular)
	}
	return incompleteOf(t, model.StageFinal)
}

// firstIncomplete returns the lowest-order incomplete action of a stage.
// The plan is pre-sorted by order at load time.
func firstIncomplete(t *task.Task, stage model.CompletionStage) *task.PlannedAction {
	for _, a := range t.Plan() {
		if a.Stage() != stage || a.Skipped() {
			continue
		}
		if !t.IsFullyCompleted(a) {
			return a
		}
	}
	return nil
}

func stageCompleted(t *task.Task, stage model.CompletionStage) bool {
	return firstIncomplete(t, stage) == nil
}

func incompleteOf(t *task.Task, stage model.CompletionStage) []*task.PlannedAction {
	var out []*task.PlannedAction
	for _, a := range t.Plan() {
		if a.Stage() != stage || a.Skipped() {
			continue
		}
		if !t.IsFullyCompleted(a) {
			out = append(out, a)
		}
	}
	return out
}

func regularUpToFirstIncomplete(t *task.Task) []*task.PlannedAction {
	var out []*task.PlannedAction
	for _, a := range t.Plan() {
		if a.Stage() != model.StageRegular || a.Skipped() {
			continue
		}
		out = append(out, a)
		if !t.IsFullyCompleted(a) {
			return out
		}
	}
	return out
}
