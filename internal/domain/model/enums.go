package model

import "fmt"

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "ToDo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusPaused     TaskStatus = "Paused"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// String returns the string representation
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid validates the task status
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusPaused, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	validTransitions := map[TaskStatus][]TaskStatus{
		TaskStatusToDo:       {TaskStatusInProgress, TaskStatusCancelled},
		TaskStatusInProgress: {TaskStatusPaused, TaskStatusCompleted, TaskStatusCancelled},
		TaskStatusPaused:     {TaskStatusInProgress, TaskStatusCancelled},
		TaskStatusCompleted:  {},
		TaskStatusCancelled:  {},
	}

	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == next {
			return true
		}
	}
	return false
}

// ParseTaskStatus parses a task status code.
// Unknown codes are a load error, never defaulted.
func ParseTaskStatus(code string) (TaskStatus, error) {
	s := TaskStatus(code)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown task status %q", code)
	}
	return s, nil
}

// CompletionStage represents the coarse ordering class of a planned action
type CompletionStage string

const (
	StageInitial CompletionStage = "Initial"
	StageRegular CompletionStage = "Regular"
	StageFinal   CompletionStage = "Final"
)

// String returns the string representation
func (c CompletionStage) String() string {
	return string(c)
}

// IsValid validates the completion stage
func (c CompletionStage) IsValid() bool {
	switch c {
	case StageInitial, StageRegular, StageFinal:
		return true
	default:
		return false
	}
}

// ParseCompletionStage parses a stage code.
// Unknown stages are fatal for the task session: defaulting one would make
// the ordering semantics of the whole plan undefined.
func ParseCompletionStage(code string) (CompletionStage, error) {
	c := CompletionStage(code)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown completion stage %q", code)
	}
	return c, nil
}

// OrderingPolicy governs whether Regular-stage actions must follow ascending order
type OrderingPolicy string

const (
	OrderingStrict    OrderingPolicy = "Strict"
	OrderingArbitrary OrderingPolicy = "Arbitrary"
)

// String returns the string representation
func (o OrderingPolicy) String() string {
	return string(o)
}

// IsValid validates the ordering policy
func (o OrderingPolicy) IsValid() bool {
	switch o {
	case OrderingStrict, OrderingArbitrary:
		return true
	default:
		return false
	}
}

// ParseOrderingPolicy parses an ordering policy code.
// Unknown policies are a load error, never defaulted.
func ParseOrderingPolicy(code string) (OrderingPolicy, error) {
	o := OrderingPolicy(code)
	if !o.IsValid() {
		return "", fmt.Errorf("unknown ordering policy %q", code)
	}
	return o, nil
}

// FactActionField identifies a single collectable value of a fact action
type FactActionField string

const (
	FieldStorageBin               FactActionField = "StorageBin"
	FieldStoragePallet            FactActionField = "StoragePallet"
	FieldStorageProduct           FactActionField = "StorageProduct"
	FieldStorageProductClassifier FactActionField = "StorageProductClassifier"
	FieldPlacementBin             FactActionField = "PlacementBin"
	FieldPlacementPallet          FactActionField = "PlacementPallet"
	FieldQuantity                 FactActionField = "Quantity"
)

// String returns the string representation
func (f FactActionField) String() string {
	return string(f)
}

// IsValid validates the field code
func (f FactActionField) IsValid() bool {
	switch f {
	case FieldStorageBin, FieldStoragePallet, FieldStorageProduct,
		FieldStorageProductClassifier, FieldPlacementBin, FieldPlacementPallet,
		FieldQuantity:
		return true
	default:
		return false
	}
}

// ParseFactActionField parses a fact action field code
func ParseFactActionField(code string) (FactActionField, error) {
	f := FactActionField(code)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown fact action field %q", code)
	}
	return f, nil
}

// BufferUsage governs how a step interacts with the session value buffer
type BufferUsage string

const (
	BufferNever   BufferUsage = "Never"
	BufferDefault BufferUsage = "Default"
	BufferAlways  BufferUsage = "Always"
	BufferClear   BufferUsage = "Clear"
)

// String returns the string representation
func (b BufferUsage) String() string {
	return string(b)
}

// IsValid validates the buffer usage code
func (b BufferUsage) IsValid() bool {
	switch b {
	case BufferNever, BufferDefault, BufferAlways, BufferClear:
		return true
	default:
		return false
	}
}

// ParseBufferUsage parses a buffer usage code
func ParseBufferUsage(code string) (BufferUsage, error) {
	b := BufferUsage(code)
	if !b.IsValid() {
		return "", fmt.Errorf("unknown buffer usage %q", code)
	}
	return b, nil
}

// DisplayCondition governs when a step command is visible
type DisplayCondition string

const (
	DisplayAlways              DisplayCondition = "Always"
	DisplayWhenObjectSelected  DisplayCondition = "WhenObjectSelected"
	DisplayWhenActionCompleted DisplayCondition = "WhenActionCompleted"
)

// String returns the string representation
func (d DisplayCondition) String() string {
	return string(d)
}

// IsValid validates the display condition
func (d DisplayCondition) IsValid() bool {
	switch d {
	case DisplayAlways, DisplayWhenObjectSelected, DisplayWhenActionCompleted:
		return true
	default:
		return false
	}
}

// ParseDisplayCondition parses a display condition code
func ParseDisplayCondition(code string) (DisplayCondition, error) {
	d := DisplayCondition(code)
	if !d.IsValid() {
		return "", fmt.Errorf("unknown display condition %q", code)
	}
	return d, nil
}

// ExecutionBehavior governs what a step command does to the wizard on success
type ExecutionBehavior string

const (
	BehaviorNone             ExecutionBehavior = "None"
	BehaviorShowResult       ExecutionBehavior = "ShowResult"
	BehaviorRefreshStep      ExecutionBehavior = "RefreshStep"
	BehaviorGoToNextStep     ExecutionBehavior = "GoToNextStep"
	BehaviorGoToPreviousStep ExecutionBehavior = "GoToPreviousStep"
	BehaviorCompleteAction   ExecutionBehavior = "CompleteAction"
)

// String returns the string representation
func (e ExecutionBehavior) String() string {
	return string(e)
}

// IsValid validates the execution behavior
func (e ExecutionBehavior) IsValid() bool {
	switch e {
	case BehaviorNone, BehaviorShowResult, BehaviorRefreshStep,
		BehaviorGoToNextStep, BehaviorGoToPreviousStep, BehaviorCompleteAction:
		return true
	default:
		return false
	}
}

// ParseExecutionBehavior parses an execution behavior code
func ParseExecutionBehavior(code string) (ExecutionBehavior, error) {
	e := ExecutionBehavior(code)
	if !e.IsValid() {
		return "", fmt.Errorf("unknown execution behavior %q", code)
	}
	return e, nil
}

// ParameterType identifies the value type of a command parameter
type ParameterType string

const (
	ParameterText    ParameterType = "Text"
	ParameterNumber  ParameterType = "Number"
	ParameterBoolean ParameterType = "Boolean"
	ParameterSelect  ParameterType = "Select"
	ParameterDate    ParameterType = "Date"
)

// String returns the string representation
func (p ParameterType) String() string {
	return string(p)
}

// IsValid validates the parameter type
func (p ParameterType) IsValid() bool {
	switch p {
	case ParameterText, ParameterNumber, ParameterBoolean, ParameterSelect, ParameterDate:
		return true
	default:
		return false
	}
}

// ParseParameterType parses a parameter type code
func ParseParameterType(code string) (ParameterType, error) {
	p := ParameterType(code)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown parameter type %q", code)
	}
	return p, nil
}
