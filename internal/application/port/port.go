// Package port declares the capability interfaces the wizard session is
// handed on construction. There are no process-wide singletons: a session
// owns references to its collaborators and nothing else.
package port

import (
	"context"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

// EvalContext carries the plan context a rule may need
type EvalContext struct {
	// Action is the planned action the wizard is collecting values for
	Action *task.PlannedAction

	// Field is the fact action field the evaluated step collects
	Field model.FactActionField
}

// RuleEvaluator checks a collected value against one validation rule.
// A violation is reported as an error whose message is operator-facing;
// remote rule types may perform I/O and honor the context.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, value task.FieldValue, rule *task.ValidationRule, ectx EvalContext) error
}

// RemoteRuleClient performs a server-side rule check. A non-nil error with
// a violation message blocks the step exactly like a local rule.
type RemoteRuleClient interface {
	Check(ctx context.Context, endpoint string, value task.FieldValue, ectx EvalContext) error
}

// SubmissionSink accepts a completed fact action. The engine does not
// persist or transmit facts itself.
type SubmissionSink interface {
	Submit(ctx context.Context, fact *task.FactAction) error
}

// CommandOutcome is what a dispatched step command returned
type CommandOutcome struct {
	Message string
}

// CommandDispatcher invokes a step command's endpoint with its validated
// parameters
type CommandDispatcher interface {
	Dispatch(ctx context.Context, endpoint string, params map[string]string) (CommandOutcome, error)
}
