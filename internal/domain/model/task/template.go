package task

import (
	"errors"

	"github.com/warelabs/taskterm/internal/domain/model"
)

// RuleType identifies a field validation rule kind
type RuleType string

const (
	// RuleFromPlan requires the value to match the planned target of the field
	RuleFromPlan RuleType = "FromPlan"
	// RuleRange bounds a numeric value between Min and Max (inclusive)
	RuleRange RuleType = "Range"
	// RulePattern matches the raw scanned/typed code against a regular expression
	RulePattern RuleType = "Pattern"
	// RuleRemote delegates the check to a server-side endpoint
	RuleRemote RuleType = "Remote"
)

// IsValid validates the rule type
func (r RuleType) IsValid() bool {
	switch r {
	case RuleFromPlan, RuleRange, RulePattern, RuleRemote:
		return true
	default:
		return false
	}
}

// ValidationRule is one declarative check applied to a step value before the
// step may advance. The first violated rule's Message becomes the field error.
type ValidationRule struct {
	Type     RuleType
	Message  string
	Min      *float64
	Max      *float64
	Pattern  string
	Endpoint string
}

// CommandParameter is one typed input of a step command, validated
// client-side before dispatch.
type CommandParameter struct {
	Name      string
	Label     string
	Type      model.ParameterType
	Required  bool
	MinValue  *float64
	MaxValue  *float64
	MaxLength int
	Pattern   string
	Options   []string
}

// StepCommand is a user-invocable side operation exposed by a wizard step
type StepCommand struct {
	ID                   string
	Title                string
	Endpoint             string
	Order                int
	Display              model.DisplayCondition
	Behavior             model.ExecutionBehavior
	ConfirmationRequired bool
	Parameters           []*CommandParameter
}

// StepTemplate is the contract of one wizard step: which field it collects
// and how the collected value is validated, buffered and advanced.
type StepTemplate struct {
	id                 model.StepID
	title              string
	field              model.FactActionField
	required           bool
	rules              []*ValidationRule
	buffer             model.BufferUsage
	autoAdvance        bool
	autoAdvanceConfirm bool
	commands           []*StepCommand
}

// NewStepTemplate creates a step template
func NewStepTemplate(
	id model.StepID,
	title string,
	field model.FactActionField,
	required bool,
	rules []*ValidationRule,
	buffer model.BufferUsage,
	autoAdvance bool,
	autoAdvanceConfirm bool,
	commands []*StepCommand,
) (*StepTemplate, error) {
	if !field.IsValid() {
		return nil, errors.New("invalid step field")
	}
	if !buffer.IsValid() {
		return nil, errors.New("invalid buffer usage")
	}
	for _, r := range rules {
		if !r.Type.IsValid() {
			return nil, errors.New("invalid validation rule type")
		}
	}
	return &StepTemplate{
		id:                 id,
		title:              title,
		field:              field,
		required:           required,
		rules:              rules,
		buffer:             buffer,
		autoAdvance:        autoAdvance,
		autoAdvanceConfirm: autoAdvanceConfirm,
		commands:           commands,
	}, nil
}

// ID returns the step template ID
func (s *StepTemplate) ID() model.StepID {
	return s.id
}

// Title returns the operator-facing step title
func (s *StepTemplate) Title() string {
	return s.title
}

// Field returns the fact action field this step collects
func (s *StepTemplate) Field() model.FactActionField {
	return s.field
}

// Required reports whether the step must collect a value
func (s *StepTemplate) Required() bool {
	return s.required
}

// Rules returns the validation rules in evaluation order
func (s *StepTemplate) Rules() []*ValidationRule {
	return s.rules
}

// Buffer returns the step's buffer usage policy
func (s *StepTemplate) Buffer() model.BufferUsage {
	return s.buffer
}

// AutoAdvance reports whether setting the step field completes the step
func (s *StepTemplate) AutoAdvance() bool {
	return s.autoAdvance
}

// AutoAdvanceConfirm reports whether auto-advance requires confirmation
func (s *StepTemplate) AutoAdvanceConfirm() bool {
	return s.autoAdvanceConfirm
}

// Commands returns the step's commands
func (s *StepTemplate) Commands() []*StepCommand {
	return s.commands
}

// ActionTemplate defines behavior shared by all planned actions referencing it
type ActionTemplate struct {
	id                  string
	name                string
	allowMultipleFacts  bool
	allowManualComplete bool
	steps               []*StepTemplate
}

// NewActionTemplate creates an action template
func NewActionTemplate(
	id string,
	name string,
	allowMultipleFacts bool,
	allowManualComplete bool,
	steps []*StepTemplate,
) (*ActionTemplate, error) {
	if id == "" {
		return nil, errors.New("template ID cannot be empty")
	}
	if len(steps) == 0 {
		return nil, errors.New("template must declare at least one step")
	}
	return &ActionTemplate{
		id:                  id,
		name:                name,
		allowMultipleFacts:  allowMultipleFacts,
		allowManualComplete: allowManualComplete,
		steps:               steps,
	}, nil
}

// ID returns the template ID
func (t *ActionTemplate) ID() string {
	return t.id
}

// Name returns the template name
func (t *ActionTemplate) Name() string {
	return t.name
}

// AllowMultipleFacts reports whether several fact actions may accumulate
// against one planned action
func (t *ActionTemplate) AllowMultipleFacts() bool {
	return t.allowMultipleFacts
}

// AllowManualComplete reports whether the operator may complete the action
// without recording facts
func (t *ActionTemplate) AllowManualComplete() bool {
	return t.allowManualComplete
}

// Steps returns the wizard steps in execution order
func (t *ActionTemplate) Steps() []*StepTemplate {
	return t.steps
}
