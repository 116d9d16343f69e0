// Package rules evaluates step validation rules. Plan-membership, range and
// pattern rules are checked locally; remote rules are delegated to an
// injected client so the evaluator itself stays I/O-free when none are
// configured.
package rules

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/warelabs/taskterm/internal/application/port"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

// Evaluator implements port.RuleEvaluator
type Evaluator struct {
	remote port.RemoteRuleClient
}

// NewEvaluator creates an evaluator. remote may be nil when the task type
// declares no remote rules; hitting one then is a rule violation, not a panic.
func NewEvaluator(remote port.RemoteRuleClient) *Evaluator {
	return &Evaluator{remote: remote}
}

// Evaluate checks one rule. A violation is returned as an error carrying the
// rule's operator-facing message.
func (e *Evaluator) Evaluate(ctx context.Context, value task.FieldValue, rule *task.ValidationRule, ectx port.EvalContext) error {
	switch rule.Type {
	case task.RuleFromPlan:
		return e.evaluateFromPlan(value, rule, ectx)
	case task.RuleRange:
		return e.evaluateRange(value, rule)
	case task.RulePattern:
		return e.evaluatePattern(value, rule)
	case task.RuleRemote:
		if e.remote == nil {
			return violation(rule, "remote validation is not available")
		}
		if err := e.remote.Check(ctx, rule.Endpoint, value, ectx); err != nil {
			return violation(rule, err.Error())
		}
		return nil
	default:
		return fmt.Errorf("unknown validation rule type %q", rule.Type)
	}
}

func (e *Evaluator) evaluateFromPlan(value task.FieldValue, rule *task.ValidationRule, ectx port.EvalContext) error {
	if ectx.Action == nil {
		return errors.New("plan rule requires an action context")
	}
	target, ok := ectx.Action.TargetEntityID(ectx.Field)
	if !ok {
		// The plan prescribes nothing for this field; any value passes.
		return nil
	}
	id, ok := task.EntityIDOf(value)
	if !ok || id != target {
		return violation(rule, "value is not the one planned for this action")
	}
	return nil
}

func (e *Evaluator) evaluateRange(value task.FieldValue, rule *task.ValidationRule) error {
	q, ok := value.(task.QuantityValue)
	if !ok {
		// Range rules only constrain quantities
		return nil
	}
	v := q.Quantity.Value()
	if rule.Min != nil && v < *rule.Min {
		return violation(rule, fmt.Sprintf("quantity must be at least %g", *rule.Min))
	}
	if rule.Max != nil && v > *rule.Max {
		return violation(rule, fmt.Sprintf("quantity must be at most %g", *rule.Max))
	}
	return nil
}

func (e *Evaluator) evaluatePattern(value task.FieldValue, rule *task.ValidationRule) error {
	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return fmt.Errorf("invalid rule pattern %q: %w", rule.Pattern, err)
	}
	if !re.MatchString(value.Raw()) {
		return violation(rule, "value does not match the expected format")
	}
	return nil
}

// violation prefers the rule's configured message over the default one
func violation(rule *task.ValidationRule, fallback string) error {
	if rule.Message != "" {
		return errors.New(rule.Message)
	}
	return errors.New(fallback)
}
