package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelabs/taskterm/internal/application/port"
	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

func commandFixture(t *testing.T, commands []*task.StepCommand, manualComplete bool) *fixture {
	t.Helper()
	specs := []stepSpec{
		{id: "s-bin", field: model.FieldStorageBin, required: true, commands: commands},
		{id: "s-qty", field: model.FieldQuantity, required: true},
	}
	return newFixture(t, specs, manualComplete)
}

func TestVisibleCommands(t *testing.T) {
	commands := []*task.StepCommand{
		{ID: "second", Title: "Second", Order: 2, Display: model.DisplayAlways, Behavior: model.BehaviorNone},
		{ID: "first", Title: "First", Order: 1, Display: model.DisplayAlways, Behavior: model.BehaviorNone},
		{ID: "gated", Title: "Gated", Order: 3, Display: model.DisplayWhenObjectSelected, Behavior: model.BehaviorNone},
		{ID: "done-only", Title: "Done", Order: 4, Display: model.DisplayWhenActionCompleted, Behavior: model.BehaviorNone},
	}
	f := commandFixture(t, commands, false)

	visible := f.sess.VisibleCommands()
	require.Len(t, visible, 2)
	assert.Equal(t, "first", visible[0].ID)
	assert.Equal(t, "second", visible[1].ID)

	// selecting a value reveals the object-gated command
	require.NoError(t, f.sess.SetObject(context.Background(), stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	visible = f.sess.VisibleCommands()
	require.Len(t, visible, 3)
	assert.Equal(t, "gated", visible[2].ID)
}

func TestValidateParameters(t *testing.T) {
	min, max := 1.0, 99.0
	cmd := &task.StepCommand{
		ID: "adjust",
		Parameters: []*task.CommandParameter{
			{Name: "reason", Type: model.ParameterText, Required: true, MaxLength: 10},
			{Name: "count", Type: model.ParameterNumber, MinValue: &min, MaxValue: &max},
			{Name: "force", Type: model.ParameterBoolean},
			{Name: "zone", Type: model.ParameterSelect, Options: []string{"A", "B"}},
			{Name: "due", Type: model.ParameterDate},
		},
	}

	tests := []struct {
		name   string
		params map[string]string
		ok     bool
	}{
		{"all valid", map[string]string{"reason": "damaged", "count": "5", "force": "true", "zone": "A", "due": "2026-08-30"}, true},
		{"missing required", map[string]string{"count": "5"}, false},
		{"optional omitted", map[string]string{"reason": "damaged"}, true},
		{"too long", map[string]string{"reason": "this is far too long"}, false},
		{"not a number", map[string]string{"reason": "x", "count": "five"}, false},
		{"below min", map[string]string{"reason": "x", "count": "0"}, false},
		{"above max", map[string]string{"reason": "x", "count": "100"}, false},
		{"bad boolean", map[string]string{"reason": "x", "force": "yep"}, false},
		{"unknown option", map[string]string{"reason": "x", "zone": "C"}, false},
		{"bad date", map[string]string{"reason": "x", "due": "someday"}, false},
		{"rfc3339 date", map[string]string{"reason": "x", "due": "2026-08-30T12:00:00Z"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateParameters(cmd, tc.params)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateParameters_Pattern(t *testing.T) {
	cmd := &task.StepCommand{
		ID: "label",
		Parameters: []*task.CommandParameter{
			{Name: "code", Type: model.ParameterText, Pattern: `^L-\d+$`},
		},
	}
	assert.NoError(t, ValidateParameters(cmd, map[string]string{"code": "L-42"}))
	assert.Error(t, ValidateParameters(cmd, map[string]string{"code": "42"}))
}

func TestInvokeCommand_Dispatches(t *testing.T) {
	cmd := &task.StepCommand{
		ID: "print", Endpoint: "/print-label",
		Display: model.DisplayAlways, Behavior: model.BehaviorShowResult,
	}
	f := commandFixture(t, []*task.StepCommand{cmd}, false)
	f.disp.outcome = port.CommandOutcome{Message: "label queued"}

	require.NoError(t, f.sess.InvokeCommand(context.Background(), "print", nil, false))
	assert.Equal(t, []string{"/print-label"}, f.disp.endpoints)
	require.NotNil(t, f.sess.LastCommandOutcome())
	assert.Equal(t, "label queued", f.sess.LastCommandOutcome().Message)
}

func TestInvokeCommand_UnknownOrHiddenCommand(t *testing.T) {
	cmd := &task.StepCommand{
		ID: "gated", Endpoint: "/gated",
		Display: model.DisplayWhenObjectSelected, Behavior: model.BehaviorNone,
	}
	f := commandFixture(t, []*task.StepCommand{cmd}, false)

	assert.Error(t, f.sess.InvokeCommand(context.Background(), "missing", nil, false))
	// hidden commands cannot be invoked either
	assert.Error(t, f.sess.InvokeCommand(context.Background(), "gated", nil, false))
	assert.Empty(t, f.disp.endpoints)
}

func TestInvokeCommand_ConfirmationGate(t *testing.T) {
	cmd := &task.StepCommand{
		ID: "wipe", Endpoint: "/wipe",
		Display: model.DisplayAlways, Behavior: model.BehaviorNone,
		ConfirmationRequired: true,
	}
	f := commandFixture(t, []*task.StepCommand{cmd}, false)
	ctx := context.Background()

	err := f.sess.InvokeCommand(ctx, "wipe", nil, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, f.disp.endpoints)

	require.NoError(t, f.sess.InvokeCommand(ctx, "wipe", nil, true))
	assert.Len(t, f.disp.endpoints, 1)
}

func TestInvokeCommand_DispatchFailureIsStepError(t *testing.T) {
	cmd := &task.StepCommand{
		ID: "print", Endpoint: "/print-label",
		Display: model.DisplayAlways, Behavior: model.BehaviorNone,
	}
	f := commandFixture(t, []*task.StepCommand{cmd}, false)
	f.disp.err = errors.New("printer offline")

	assert.Error(t, f.sess.InvokeCommand(context.Background(), "print", nil, false))
	assert.Equal(t, StateError, f.sess.State())
}

func TestInvokeCommand_RefreshStepBehavior(t *testing.T) {
	cmd := &task.StepCommand{
		ID: "rescan", Endpoint: "/rescan",
		Display: model.DisplayAlways, Behavior: model.BehaviorRefreshStep,
	}
	f := commandFixture(t, []*task.StepCommand{cmd}, false)
	ctx := context.Background()

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.InvokeCommand(ctx, "rescan", nil, false))

	_, have := f.sess.Value(stepID(t, "s-bin"))
	assert.False(t, have)
	assert.Nil(t, f.sess.Draft().Bin)
}

func TestInvokeCommand_NavigationBehaviors(t *testing.T) {
	next := &task.StepCommand{
		ID: "skip", Endpoint: "/skip",
		Display: model.DisplayAlways, Behavior: model.BehaviorGoToNextStep,
	}
	f := commandFixture(t, []*task.StepCommand{next}, false)
	ctx := context.Background()

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.InvokeCommand(ctx, "skip", nil, false))
	assert.Equal(t, 1, f.sess.StepIndex())
}

func TestInvokeCommand_CompleteActionBehavior(t *testing.T) {
	cmd := &task.StepCommand{
		ID: "finish", Endpoint: "/finish",
		Display: model.DisplayAlways, Behavior: model.BehaviorCompleteAction,
	}

	t.Run("completes when the template allows it", func(t *testing.T) {
		f := commandFixture(t, []*task.StepCommand{cmd}, true)
		require.NoError(t, f.sess.InvokeCommand(context.Background(), "finish", nil, false))
		assert.Equal(t, StateSuccess, f.sess.State())
		assert.True(t, f.sess.Action().ManuallyCompleted())
	})

	t.Run("fails when manual completion is not allowed", func(t *testing.T) {
		f := commandFixture(t, []*task.StepCommand{cmd}, false)
		assert.Error(t, f.sess.InvokeCommand(context.Background(), "finish", nil, false))
		assert.False(t, f.sess.Action().ManuallyCompleted())
	})
}
