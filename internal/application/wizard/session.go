// Package wizard drives one planned action's guided data collection: a
// fixed sequence of steps, each collecting one typed value, ending in a
// summary and a submission. The session owns an in-progress fact draft and
// derives its display state from explicit flags in one place.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warelabs/taskterm/internal/application/port"
	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
	"github.com/warelabs/taskterm/internal/domain/service/ordering"
)

// ErrSessionClosed is returned when an event reaches an exited or
// successfully completed session
var ErrSessionClosed = errors.New("wizard session is closed")

// ErrConfirmationRequired is returned when a command needs an explicit
// confirmation before dispatch
var ErrConfirmationRequired = errors.New("command requires confirmation")

// Deps are the collaborators a session owns. No process-wide singletons:
// everything the session touches is passed in here.
type Deps struct {
	Evaluator  port.RuleEvaluator
	Sink       port.SubmissionSink
	Dispatcher port.CommandDispatcher
	Buffer     *Buffer
}

// Session is one wizard run against one planned action
type Session struct {
	id     uuid.UUID
	task   *task.Task
	action *task.PlannedAction
	steps  []*task.StepTemplate
	deps   Deps

	stepIndex int
	values    map[model.StepID]task.FieldValue
	draft     *task.FactDraft

	flags          sessionFlags
	sendingFailed  bool
	confirmPending bool
	exited         bool
	emitted        *task.FactAction
	lastOutcome    *port.CommandOutcome
}

// NewSession opens a wizard for the given planned action. Eligibility is
// re-checked here so a stale UI cannot open an out-of-turn action.
func NewSession(t *task.Task, actionID model.ActionID, deps Deps) (*Session, error) {
	if err := ordering.CanExecute(t, actionID); err != nil {
		return nil, err
	}
	a := t.Action(actionID)
	steps := a.Template().Steps()
	if len(steps) == 0 {
		return nil, fmt.Errorf("action %s has no steps configured", actionID)
	}
	if deps.Buffer == nil {
		deps.Buffer = NewBuffer()
	}
	s := &Session{
		id:     uuid.New(),
		task:   t,
		action: a,
		steps:  steps,
		deps:   deps,
		values: make(map[model.StepID]task.FieldValue),
		draft:  task.NewFactDraft(actionID, time.Now()),
	}
	s.enterStep()
	return s, nil
}

// ID returns the session ID
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Action returns the planned action this session collects values for
func (s *Session) Action() *task.PlannedAction {
	return s.action
}

// State returns the derived display state
func (s *Session) State() State {
	return deriveState(s.flags)
}

// CurrentStep returns the step template the operator is on
func (s *Session) CurrentStep() *task.StepTemplate {
	return s.steps[s.stepIndex]
}

// StepIndex returns the zero-based index of the current step
func (s *Session) StepIndex() int {
	return s.stepIndex
}

// StepCount returns the number of configured steps
func (s *Session) StepCount() int {
	return len(s.steps)
}

// Value returns the collected value for a step, if any
func (s *Session) Value(stepID model.StepID) (task.FieldValue, bool) {
	v, ok := s.values[stepID]
	return v, ok
}

// Draft returns the in-progress fact draft
func (s *Session) Draft() *task.FactDraft {
	return s.draft
}

// Error returns the current step error, if any
func (s *Session) Error() error {
	return s.flags.err
}

// SendingFailed reports whether the last submission attempt failed. The UI
// offers "retry submission" for this, not "fix this field".
func (s *Session) SendingFailed() bool {
	return s.sendingFailed
}

// PendingConfirmation reports whether an auto-advance awaits confirmation
func (s *Session) PendingConfirmation() bool {
	return s.confirmPending
}

// IsExited reports whether the operator confirmed leaving the wizard
func (s *Session) IsExited() bool {
	return s.exited
}

// EmittedFact returns the fact action produced by a successful submission
func (s *Session) EmittedFact() *task.FactAction {
	return s.emitted
}

// LastCommandOutcome returns the transient result of the last ShowResult
// command, if any
func (s *Session) LastCommandOutcome() *port.CommandOutcome {
	return s.lastOutcome
}

func (s *Session) closed() bool {
	return s.exited || s.flags.completed
}

// SetObject records a validated value for the given step. Values for any
// step other than the current one are ignored: that is the stale-response
// protection for lookups that complete after the wizard moved on. The same
// protection applies while the summary or exit dialog is showing, so a late
// lookup cannot change the draft behind what the summary displayed.
// A value arriving while an error is shown is accepted and clears the error.
func (s *Session) SetObject(ctx context.Context, stepID model.StepID, value task.FieldValue) error {
	if s.closed() {
		return ErrSessionClosed
	}
	if s.flags.showSummary || s.flags.showExitDialog {
		return nil
	}
	step := s.CurrentStep()
	if !step.ID().Equals(stepID) {
		return nil
	}

	s.flags.err = nil
	s.sendingFailed = false

	if err := s.validate(ctx, step, value); err != nil {
		s.flags.err = err
		return nil
	}

	s.values[step.ID()] = value
	s.draft.Apply(step.Field(), value)
	s.writeBuffer(step, value)

	if step.AutoAdvance() {
		if step.AutoAdvanceConfirm() {
			s.confirmPending = true
			return nil
		}
		s.completeCurrentStep()
	}
	return nil
}

// validate runs the step's rules in order; the first violation wins.
// Faults from a remote evaluator surface the same way: as a step error the
// operator can retry, never as a corrupted session.
func (s *Session) validate(ctx context.Context, step *task.StepTemplate, value task.FieldValue) error {
	ectx := port.EvalContext{Action: s.action, Field: step.Field()}
	for _, rule := range step.Rules() {
		if err := s.deps.Evaluator.Evaluate(ctx, value, rule, ectx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) writeBuffer(step *task.StepTemplate, value task.FieldValue) {
	switch step.Buffer() {
	case model.BufferDefault, model.BufferAlways:
		s.deps.Buffer.Put(step.Field(), value)
	case model.BufferClear:
		s.deps.Buffer.Remove(step.Field())
	}
}

// enterStep applies the buffer policy when a step becomes current: Always
// prefills unconditionally, Default only when the step has no value yet
func (s *Session) enterStep() {
	step := s.CurrentStep()
	switch step.Buffer() {
	case model.BufferAlways:
		if v, ok := s.deps.Buffer.Get(step.Field()); ok {
			s.values[step.ID()] = v
			s.draft.Apply(step.Field(), v)
		}
	case model.BufferDefault:
		if _, have := s.values[step.ID()]; have {
			return
		}
		if v, ok := s.deps.Buffer.Get(step.Field()); ok {
			s.values[step.ID()] = v
			s.draft.Apply(step.Field(), v)
		}
	}
}

// NextStep advances to the following step, or to the summary from the last
// one. A required step without a value blocks with a field error.
func (s *Session) NextStep() error {
	if s.closed() {
		return ErrSessionClosed
	}
	if s.flags.showSummary || s.flags.showExitDialog {
		return nil
	}
	step := s.CurrentStep()
	if _, have := s.values[step.ID()]; !have && step.Required() {
		s.flags.err = fmt.Errorf("%s is required", step.Field())
		return nil
	}
	s.completeCurrentStep()
	return nil
}

func (s *Session) completeCurrentStep() {
	s.confirmPending = false
	s.flags.err = nil
	if s.stepIndex == len(s.steps)-1 {
		s.flags.showSummary = true
		return
	}
	s.stepIndex++
	s.enterStep()
}

// PreviousStep retreats one step. From the summary it returns to the last
// step; from the first step it raises the exit dialog instead.
func (s *Session) PreviousStep() error {
	if s.closed() {
		return ErrSessionClosed
	}
	if s.flags.showExitDialog {
		return nil
	}
	s.confirmPending = false
	if s.flags.showSummary {
		s.flags.showSummary = false
		return nil
	}
	if s.stepIndex > 0 {
		s.stepIndex--
		s.enterStep()
		return nil
	}
	s.flags.showExitDialog = true
	return nil
}

// ConfirmAdvance completes the step held back by a confirmation-gated
// auto-advance
func (s *Session) ConfirmAdvance() error {
	if s.closed() {
		return ErrSessionClosed
	}
	if !s.confirmPending {
		return nil
	}
	s.completeCurrentStep()
	return nil
}

// DeclineAdvance dismisses a pending auto-advance confirmation; the
// collected value stays
func (s *Session) DeclineAdvance() {
	s.confirmPending = false
}

// SetError records a step-scoped error
func (s *Session) SetError(err error) {
	s.flags.err = err
}

// ClearError clears the step error; the derived state falls back to the
// step or summary
func (s *Session) ClearError() {
	s.flags.err = nil
}

// StartLoading marks an async lookup in flight so the UI blocks re-entrant
// submissions
func (s *Session) StartLoading() {
	s.flags.loading = true
}

// StopLoading clears the loading flag
func (s *Session) StopLoading() {
	s.flags.loading = false
}

// AcceptLookup delivers the result of an async lookup started for a step.
// Results for a step the wizard has moved past are dropped.
func (s *Session) AcceptLookup(ctx context.Context, stepID model.StepID, value task.FieldValue) error {
	if s.closed() {
		return ErrSessionClosed
	}
	s.flags.loading = false
	return s.SetObject(ctx, stepID, value)
}

// RetryOperation clears the current error and resumes loading so the caller
// can repeat the failed lookup
func (s *Session) RetryOperation() {
	s.flags.err = nil
	s.flags.loading = true
}

// ShowExitDialog raises the exit dialog
func (s *Session) ShowExitDialog() {
	s.flags.showExitDialog = true
}

// DismissExitDialog returns to the prior state
func (s *Session) DismissExitDialog() {
	s.flags.showExitDialog = false
}

// ConfirmExit discards the wizard. No further transitions apply.
func (s *Session) ConfirmExit() {
	s.flags.showExitDialog = false
	s.exited = true
}

// Submit seals the draft and hands it to the submission sink. On success
// the fact is appended to the task's log and the session completes; on
// failure the session records a retryable sending error distinct from field
// errors. Only valid from the summary, and also used to retry after a
// failed submission.
func (s *Session) Submit(ctx context.Context) error {
	if s.closed() {
		return ErrSessionClosed
	}
	if !s.flags.showSummary {
		return errors.New("submission is only possible from the summary")
	}

	s.flags.loading = true
	s.flags.submitting = true
	s.flags.err = nil
	s.sendingFailed = false

	fact, err := s.draft.Build(time.Now())
	if err == nil {
		err = s.deps.Sink.Submit(ctx, fact)
	}

	s.flags.loading = false
	s.flags.submitting = false
	if err != nil {
		s.sendingFailed = true
		s.flags.err = fmt.Errorf("submission failed: %w", err)
		return err
	}

	if err := s.task.AppendFact(fact); err != nil {
		s.sendingFailed = true
		s.flags.err = err
		return err
	}
	s.emitted = fact
	s.flags.completed = true
	return nil
}
