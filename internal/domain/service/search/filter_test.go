package search

import (
	"testing"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

func TestFilter_AddReplacesSameField(t *testing.T) {
	f := NewFilter(nil)
	f.Add(model.FieldStorageBin, "bin-1", "A-01")
	f.Add(model.FieldStorageBin, "bin-2", "A-02")

	if f.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", f.Len())
	}
	v, ok := f.Value(model.FieldStorageBin)
	if !ok || v.EntityID != "bin-2" {
		t.Errorf("expected bin-2 to replace bin-1, got %+v", v)
	}
}

func TestFilter_RemoveAndClear(t *testing.T) {
	f := NewFilter(nil)
	f.Add(model.FieldStorageBin, "bin-1", "A-01")
	f.Add(model.FieldStoragePallet, "pal-1", "P-01")

	f.Remove(model.FieldStorageBin)
	if _, ok := f.Value(model.FieldStorageBin); ok {
		t.Error("removed field still present")
	}
	if f.Len() != 1 {
		t.Fatalf("expected 1 entry after remove, got %d", f.Len())
	}

	f.Clear()
	if f.Len() != 0 {
		t.Fatalf("expected empty filter after clear, got %d", f.Len())
	}
}

func TestFilter_ActiveOrderedByRecency(t *testing.T) {
	f := NewFilter([]model.FactActionField{model.FieldStorageBin, model.FieldStoragePallet})
	f.Add(model.FieldStorageBin, "bin-1", "A-01")
	f.Add(model.FieldStoragePallet, "pal-1", "P-01")
	f.Add(model.FieldStorageProduct, "prod-1", "Widget")

	active := f.Active()
	if len(active) != 3 {
		t.Fatalf("expected 3 active filters, got %d", len(active))
	}
	wantFields := []model.FactActionField{
		model.FieldStorageProduct,
		model.FieldStoragePallet,
		model.FieldStorageBin,
	}
	for i, want := range wantFields {
		if active[i].Field != want {
			t.Errorf("position %d: expected %s, got %s", i, want, active[i].Field)
		}
	}
}

func TestFilter_ApplyANDSemantics(t *testing.T) {
	bin1 := &stock.Bin{ID: "bin-1", Code: "A-01"}
	bin2 := &stock.Bin{ID: "bin-2", Code: "A-02"}
	pal1 := &stock.Pallet{ID: "pal-1", Code: "P-01"}

	tpl := singleTemplate(t, "tpl")
	a1 := targetedAction(t, "a1", 1, tpl, task.Targets{StorageBin: bin1, StoragePallet: pal1})
	a2 := targetedAction(t, "a2", 2, tpl, task.Targets{StorageBin: bin1})
	a3 := targetedAction(t, "a3", 3, tpl, task.Targets{StorageBin: bin2})
	actions := []*task.PlannedAction{a1, a2, a3}

	f := NewFilter(nil)
	if got := f.Apply(actions); len(got) != 3 {
		t.Fatalf("empty filter should pass everything, got %d", len(got))
	}

	f.Add(model.FieldStorageBin, "bin-1", "A-01")
	got := f.Apply(actions)
	if len(got) != 2 {
		t.Fatalf("expected 2 actions on bin-1, got %d", len(got))
	}

	f.Add(model.FieldStoragePallet, "pal-1", "P-01")
	got = f.Apply(actions)
	if len(got) != 1 || !got[0].ID().Equals(a1.ID()) {
		t.Fatalf("expected only a1 with both constraints, got %d", len(got))
	}
}

func TestFilter_ApplyExcludesActionsWithoutTarget(t *testing.T) {
	tpl := singleTemplate(t, "tpl")
	a := targetedAction(t, "a1", 1, tpl, task.Targets{})

	f := NewFilter(nil)
	f.Add(model.FieldStorageBin, "bin-1", "A-01")
	if got := f.Apply([]*task.PlannedAction{a}); len(got) != 0 {
		t.Errorf("action with no target on the filtered field must not match")
	}
}
