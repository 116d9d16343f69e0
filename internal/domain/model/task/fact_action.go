package task

import (
	"errors"
	"time"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/stock"
)

// FieldValue is a tagged variant of the values a wizard step can collect.
// The variant type carries the payload, so a field/value mismatch cannot be
// constructed from a step's own flow; projection onto the fact draft is
// exhaustive over the valid pairings.
type FieldValue interface {
	isFieldValue()

	// Raw returns the textual form used for pattern rules and display
	Raw() string
}

// BinValue wraps a resolved storage/placement bin
type BinValue struct {
	Bin *stock.Bin
}

func (BinValue) isFieldValue() {}

// Raw returns the bin code
func (v BinValue) Raw() string { return v.Bin.Code }

// PalletValue wraps a resolved pallet
type PalletValue struct {
	Pallet *stock.Pallet
}

func (PalletValue) isFieldValue() {}

// Raw returns the pallet code
func (v PalletValue) Raw() string { return v.Pallet.Code }

// ProductValue wraps a resolved product
type ProductValue struct {
	Product *stock.Product
}

func (ProductValue) isFieldValue() {}

// Raw returns the product code
func (v ProductValue) Raw() string { return v.Product.Code }

// ClassifierValue wraps a resolved product classifier
type ClassifierValue struct {
	Classifier *stock.ProductClassifier
}

func (ClassifierValue) isFieldValue() {}

// Raw returns the classifier code
func (v ClassifierValue) Raw() string { return v.Classifier.Code }

// QuantityValue wraps an entered quantity
type QuantityValue struct {
	Quantity model.Quantity
}

func (QuantityValue) isFieldValue() {}

// Raw returns the quantity in its textual form
func (v QuantityValue) Raw() string { return v.Quantity.String() }

// EntityIDOf returns the referenced entity's identifier for entity-backed
// variants. Quantities have no entity.
func EntityIDOf(v FieldValue) (string, bool) {
	switch val := v.(type) {
	case BinValue:
		return val.Bin.EntityID(), true
	case PalletValue:
		return val.Pallet.EntityID(), true
	case ProductValue:
		return val.Product.EntityID(), true
	case ClassifierValue:
		return val.Classifier.EntityID(), true
	default:
		return "", false
	}
}

// FactAction is one recorded execution against a planned action.
// Fact actions are append-only: never mutated or deleted by the engine.
type FactAction struct {
	id          model.FactID
	actionID    model.ActionID
	product     *stock.Product
	pallet      *stock.Pallet
	bin         *stock.Bin
	placeBin    *stock.Bin
	placePallet *stock.Pallet
	quantity    *model.Quantity
	startedAt   model.Timestamp
	completedAt model.Timestamp
}

// ID returns the fact ID
func (f *FactAction) ID() model.FactID {
	return f.id
}

// ActionID returns the planned action this fact was recorded against
func (f *FactAction) ActionID() model.ActionID {
	return f.actionID
}

// Product returns the supplied product, if any
func (f *FactAction) Product() *stock.Product {
	return f.product
}

// Pallet returns the supplied storage pallet, if any
func (f *FactAction) Pallet() *stock.Pallet {
	return f.pallet
}

// Bin returns the supplied storage bin, if any
func (f *FactAction) Bin() *stock.Bin {
	return f.bin
}

// PlacementBin returns the supplied placement bin, if any
func (f *FactAction) PlacementBin() *stock.Bin {
	return f.placeBin
}

// PlacementPallet returns the supplied placement pallet, if any
func (f *FactAction) PlacementPallet() *stock.Pallet {
	return f.placePallet
}

// Quantity returns the supplied quantity, if any
func (f *FactAction) Quantity() *model.Quantity {
	return f.quantity
}

// StartedAt returns when the wizard for this fact was opened
func (f *FactAction) StartedAt() model.Timestamp {
	return f.startedAt
}

// CompletedAt returns when the fact was submitted
func (f *FactAction) CompletedAt() model.Timestamp {
	return f.completedAt
}

// ReconstructFactAction rebuilds a fact action from stored data
func ReconstructFactAction(
	id model.FactID,
	actionID model.ActionID,
	product *stock.Product,
	pallet *stock.Pallet,
	bin *stock.Bin,
	placeBin *stock.Bin,
	placePallet *stock.Pallet,
	quantity *model.Quantity,
	startedAt time.Time,
	completedAt time.Time,
) *FactAction {
	return &FactAction{
		id:          id,
		actionID:    actionID,
		product:     product,
		pallet:      pallet,
		bin:         bin,
		placeBin:    placeBin,
		placePallet: placePallet,
		quantity:    quantity,
		startedAt:   model.NewTimestampFromTime(startedAt),
		completedAt: model.NewTimestampFromTime(completedAt),
	}
}

// FactDraft accumulates step values while a wizard session runs. Build seals
// it into an immutable FactAction.
type FactDraft struct {
	actionID  model.ActionID
	startedAt model.Timestamp

	Product         *stock.Product
	Pallet          *stock.Pallet
	Bin             *stock.Bin
	PlacementBin    *stock.Bin
	PlacementPallet *stock.Pallet
	Quantity        *model.Quantity
}

// NewFactDraft starts a draft for the given planned action
func NewFactDraft(actionID model.ActionID, startedAt time.Time) *FactDraft {
	return &FactDraft{
		actionID:  actionID,
		startedAt: model.NewTimestampFromTime(startedAt),
	}
}

// ActionID returns the planned action the draft records against
func (d *FactDraft) ActionID() model.ActionID {
	return d.actionID
}

// Apply projects a collected value onto the draft slot of the given field.
// Pairings outside the fixed field-to-slot mapping (a classifier value, or a
// variant that does not carry the field's payload) leave the draft unchanged.
func (d *FactDraft) Apply(field model.FactActionField, value FieldValue) {
	switch field {
	case model.FieldStorageBin:
		if v, ok := value.(BinValue); ok {
			d.Bin = v.Bin
		}
	case model.FieldPlacementBin:
		if v, ok := value.(BinValue); ok {
			d.PlacementBin = v.Bin
		}
	case model.FieldStoragePallet:
		if v, ok := value.(PalletValue); ok {
			d.Pallet = v.Pallet
		}
	case model.FieldPlacementPallet:
		if v, ok := value.(PalletValue); ok {
			d.PlacementPallet = v.Pallet
		}
	case model.FieldStorageProduct:
		if v, ok := value.(ProductValue); ok {
			d.Product = v.Product
		}
	case model.FieldQuantity:
		if v, ok := value.(QuantityValue); ok {
			q := v.Quantity
			d.Quantity = &q
		}
	}
}

// ClearField drops the draft slot of the given field, if one is mapped
func (d *FactDraft) ClearField(field model.FactActionField) {
	switch field {
	case model.FieldStorageBin:
		d.Bin = nil
	case model.FieldPlacementBin:
		d.PlacementBin = nil
	case model.FieldStoragePallet:
		d.Pallet = nil
	case model.FieldPlacementPallet:
		d.PlacementPallet = nil
	case model.FieldStorageProduct:
		d.Product = nil
	case model.FieldQuantity:
		d.Quantity = nil
	}
}

// Build seals the draft into a fact action with a fresh ULID
func (d *FactDraft) Build(completedAt time.Time) (*FactAction, error) {
	if d.actionID.String() == "" {
		return nil, errors.New("draft has no planned action reference")
	}
	return &FactAction{
		id:          model.NewFactID(),
		actionID:    d.actionID,
		product:     d.Product,
		pallet:      d.Pallet,
		bin:         d.Bin,
		placeBin:    d.PlacementBin,
		placePallet: d.PlacementPallet,
		quantity:    d.Quantity,
		startedAt:   d.startedAt,
		completedAt: model.NewTimestampFromTime(completedAt),
	}, nil
}
