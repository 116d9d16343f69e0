package task

import "github.com/warelabs/taskterm/internal/domain/model"

// CompletedQuantity sums the quantities of all facts recorded against the
// action. Facts without a quantity contribute nothing.
func CompletedQuantity(a *PlannedAction, facts []*FactAction) model.Quantity {
	var total model.Quantity
	for _, f := range facts {
		if !f.ActionID().Equals(a.ID()) {
			continue
		}
		if q := f.Quantity(); q != nil {
			total = total.Add(*q)
		}
	}
	return total
}

// IsFullyCompleted is the single source of truth for "is this action done".
// It is recomputed from the fact log on every call, never cached.
//
// An action is fully completed iff it was manually completed, or its
// template records a single fact and at least one matching fact exists, or
// its template accumulates facts and the summed quantity has reached the
// planned quantity.
func IsFullyCompleted(a *PlannedAction, facts []*FactAction) bool {
	if a.ManuallyCompleted() {
		return true
	}
	if !a.Template().AllowMultipleFacts() {
		for _, f := range facts {
			if f.ActionID().Equals(a.ID()) {
				return true
			}
		}
		return false
	}
	planned := a.PlannedQuantity()
	if planned == nil {
		// A multi-fact action without a quantity target can only be
		// finished manually.
		return false
	}
	return CompletedQuantity(a, facts).GreaterOrEqual(*planned)
}
