package wizard

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/warelabs/taskterm/internal/application/port"
	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

// dateLayouts accepted for Date parameters
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// VisibleCommands returns the current step's commands whose display
// condition holds, ordered by their configured order
func (s *Session) VisibleCommands() []*task.StepCommand {
	step := s.CurrentStep()
	var visible []*task.StepCommand
	for _, c := range step.Commands() {
		if s.commandVisible(step, c) {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})
	return visible
}

func (s *Session) commandVisible(step *task.StepTemplate, c *task.StepCommand) bool {
	switch c.Display {
	case model.DisplayAlways:
		return true
	case model.DisplayWhenObjectSelected:
		_, have := s.values[step.ID()]
		return have
	case model.DisplayWhenActionCompleted:
		return s.task.IsFullyCompleted(s.action)
	default:
		return false
	}
}

// ValidateParameters checks the supplied parameter values client-side.
// The first failing parameter blocks dispatch with its own error.
func ValidateParameters(cmd *task.StepCommand, params map[string]string) error {
	for _, p := range cmd.Parameters {
		raw, supplied := params[p.Name]
		if !supplied || raw == "" {
			if p.Required {
				return fmt.Errorf("parameter %s is required", p.Name)
			}
			continue
		}
		if err := validateParameter(p, raw); err != nil {
			return err
		}
	}
	return nil
}

func validateParameter(p *task.CommandParameter, raw string) error {
	if p.MaxLength > 0 && len(raw) > p.MaxLength {
		return fmt.Errorf("parameter %s exceeds %d characters", p.Name, p.MaxLength)
	}
	if p.Pattern != "" {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("parameter %s has an invalid pattern: %w", p.Name, err)
		}
		if !re.MatchString(raw) {
			return fmt.Errorf("parameter %s does not match the expected format", p.Name)
		}
	}

	switch p.Type {
	case model.ParameterText:
		return nil
	case model.ParameterNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("parameter %s must be a number", p.Name)
		}
		if p.MinValue != nil && v < *p.MinValue {
			return fmt.Errorf("parameter %s must be at least %g", p.Name, *p.MinValue)
		}
		if p.MaxValue != nil && v > *p.MaxValue {
			return fmt.Errorf("parameter %s must be at most %g", p.Name, *p.MaxValue)
		}
		return nil
	case model.ParameterBoolean:
		if _, err := strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("parameter %s must be true or false", p.Name)
		}
		return nil
	case model.ParameterSelect:
		for _, opt := range p.Options {
			if raw == opt {
				return nil
			}
		}
		return fmt.Errorf("parameter %s must be one of the offered options", p.Name)
	case model.ParameterDate:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, raw); err == nil {
				return nil
			}
		}
		return fmt.Errorf("parameter %s must be a date", p.Name)
	default:
		return fmt.Errorf("parameter %s has unknown type %q", p.Name, p.Type)
	}
}

// InvokeCommand validates, confirms, dispatches and applies one visible
// step command. confirmed acknowledges the command's confirmation gate.
func (s *Session) InvokeCommand(ctx context.Context, commandID string, params map[string]string, confirmed bool) error {
	if s.closed() {
		return ErrSessionClosed
	}
	var cmd *task.StepCommand
	for _, c := range s.VisibleCommands() {
		if c.ID == commandID {
			cmd = c
			break
		}
	}
	if cmd == nil {
		return fmt.Errorf("command %s is not available on this step", commandID)
	}

	if err := ValidateParameters(cmd, params); err != nil {
		s.flags.err = err
		return err
	}
	if cmd.ConfirmationRequired && !confirmed {
		return ErrConfirmationRequired
	}

	s.flags.loading = true
	outcome, err := s.deps.Dispatcher.Dispatch(ctx, cmd.Endpoint, params)
	s.flags.loading = false
	if err != nil {
		s.flags.err = fmt.Errorf("command failed: %w", err)
		return err
	}

	return s.applyBehavior(cmd, outcome)
}

// applyBehavior applies the command's configured effect to the session
func (s *Session) applyBehavior(cmd *task.StepCommand, outcome port.CommandOutcome) error {
	switch cmd.Behavior {
	case model.BehaviorNone:
		return nil
	case model.BehaviorShowResult:
		s.lastOutcome = &outcome
		return nil
	case model.BehaviorRefreshStep:
		step := s.CurrentStep()
		delete(s.values, step.ID())
		s.draft.ClearField(step.Field())
		return nil
	case model.BehaviorGoToNextStep:
		return s.NextStep()
	case model.BehaviorGoToPreviousStep:
		return s.PreviousStep()
	case model.BehaviorCompleteAction:
		if err := s.action.MarkManuallyCompleted(time.Now()); err != nil {
			s.flags.err = err
			return err
		}
		s.flags.completed = true
		return nil
	default:
		return fmt.Errorf("unknown execution behavior %q", cmd.Behavior)
	}
}
