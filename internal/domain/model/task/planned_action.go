package task

import (
	"errors"
	"time"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/stock"
)

// Targets holds the objects a planned action already knows from the plan.
// Every field is optional; an unset target means the operator supplies the
// value freely during the wizard.
type Targets struct {
	StorageProduct    *stock.Product
	ProductClassifier *stock.ProductClassifier
	StoragePallet     *stock.Pallet
	StorageBin        *stock.Bin
	PlacementBin      *stock.Bin
	PlacementPallet   *stock.Pallet
}

// PlannedAction is one unit of planned work inside a task's plan.
// The stage and order are fixed at plan-load time and never change.
type PlannedAction struct {
	id                  model.ActionID
	order               int
	stage               model.CompletionStage
	template            *ActionTemplate
	targets             Targets
	plannedQuantity     *model.Quantity
	skipped             bool
	manuallyCompleted   bool
	manuallyCompletedAt *model.Timestamp
}

// NewPlannedAction creates a planned action. The stage must be known and
// valid: a plan entry without ordering metadata cannot be executed safely.
func NewPlannedAction(
	id model.ActionID,
	order int,
	stage model.CompletionStage,
	template *ActionTemplate,
	targets Targets,
	plannedQuantity *model.Quantity,
) (*PlannedAction, error) {
	if !stage.IsValid() {
		return nil, errors.New("planned action has no valid completion stage")
	}
	if template == nil {
		return nil, errors.New("planned action must reference a template")
	}
	return &PlannedAction{
		id:              id,
		order:           order,
		stage:           stage,
		template:        template,
		targets:         targets,
		plannedQuantity: plannedQuantity,
	}, nil
}

// ID returns the action ID
func (a *PlannedAction) ID() model.ActionID {
	return a.id
}

// Order returns the sequence number within the action's stage
func (a *PlannedAction) Order() int {
	return a.order
}

// Stage returns the action's completion stage
func (a *PlannedAction) Stage() model.CompletionStage {
	return a.stage
}

// Template returns the action template
func (a *PlannedAction) Template() *ActionTemplate {
	return a.template
}

// Targets returns the plan-known target objects
func (a *PlannedAction) Targets() Targets {
	return a.targets
}

// PlannedQuantity returns the planned quantity, or nil when the plan does
// not prescribe one. Only meaningful for multi-fact templates.
func (a *PlannedAction) PlannedQuantity() *model.Quantity {
	return a.plannedQuantity
}

// Skipped reports whether the action was excluded from the plan
func (a *PlannedAction) Skipped() bool {
	return a.skipped
}

// MarkSkipped excludes the action from task completion checks
func (a *PlannedAction) MarkSkipped() {
	a.skipped = true
}

// ManuallyCompleted reports whether the operator completed the action by hand
func (a *PlannedAction) ManuallyCompleted() bool {
	return a.manuallyCompleted
}

// ManuallyCompletedAt returns the manual completion timestamp, if any
func (a *PlannedAction) ManuallyCompletedAt() *model.Timestamp {
	return a.manuallyCompletedAt
}

// MarkManuallyCompleted completes the action by hand. Only permitted when
// the template allows manual completion.
func (a *PlannedAction) MarkManuallyCompleted(at time.Time) error {
	if !a.template.AllowManualComplete() {
		return errors.New("template does not allow manual completion")
	}
	ts := model.NewTimestampFromTime(at)
	a.manuallyCompleted = true
	a.manuallyCompletedAt = &ts
	return nil
}

// TargetEntityID returns the identifier of the plan-known entity on the given
// field, if one is set. Quantity has no entity and always reports false.
func (a *PlannedAction) TargetEntityID(field model.FactActionField) (string, bool) {
	switch field {
	case model.FieldStorageBin:
		if a.targets.StorageBin != nil {
			return a.targets.StorageBin.EntityID(), true
		}
	case model.FieldStoragePallet:
		if a.targets.StoragePallet != nil {
			return a.targets.StoragePallet.EntityID(), true
		}
	case model.FieldStorageProduct:
		if a.targets.StorageProduct != nil {
			return a.targets.StorageProduct.EntityID(), true
		}
	case model.FieldStorageProductClassifier:
		if a.targets.ProductClassifier != nil {
			return a.targets.ProductClassifier.EntityID(), true
		}
	case model.FieldPlacementBin:
		if a.targets.PlacementBin != nil {
			return a.targets.PlacementBin.EntityID(), true
		}
	case model.FieldPlacementPallet:
		if a.targets.PlacementPallet != nil {
			return a.targets.PlacementPallet.EntityID(), true
		}
	}
	return "", false
}
