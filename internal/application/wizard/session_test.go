package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelabs/taskterm/internal/application/port"
	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

type stubEvaluator struct {
	err error
}

func (s *stubEvaluator) Evaluate(context.Context, task.FieldValue, *task.ValidationRule, port.EvalContext) error {
	return s.err
}

type stubSink struct {
	err       error
	submitted []*task.FactAction
}

func (s *stubSink) Submit(_ context.Context, fact *task.FactAction) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, fact)
	return nil
}

type stubDispatcher struct {
	outcome   port.CommandOutcome
	err       error
	endpoints []string
}

func (s *stubDispatcher) Dispatch(_ context.Context, endpoint string, _ map[string]string) (port.CommandOutcome, error) {
	s.endpoints = append(s.endpoints, endpoint)
	if s.err != nil {
		return port.CommandOutcome{}, s.err
	}
	return s.outcome, nil
}

type stepSpec struct {
	id          string
	field       model.FactActionField
	required    bool
	rules       []*task.ValidationRule
	buffer      model.BufferUsage
	autoAdvance bool
	autoConfirm bool
	commands    []*task.StepCommand
}

func buildSteps(t *testing.T, specs []stepSpec) []*task.StepTemplate {
	t.Helper()
	steps := make([]*task.StepTemplate, 0, len(specs))
	for _, sp := range specs {
		id, err := model.NewStepIDFromString(sp.id)
		require.NoError(t, err)
		buffer := sp.buffer
		if buffer == "" {
			buffer = model.BufferNever
		}
		step, err := task.NewStepTemplate(id, "", sp.field, sp.required, sp.rules, buffer, sp.autoAdvance, sp.autoConfirm, sp.commands)
		require.NoError(t, err)
		steps = append(steps, step)
	}
	return steps
}

type fixture struct {
	task   *task.Task
	sess   *Session
	sink   *stubSink
	disp   *stubDispatcher
	eval   *stubEvaluator
	buffer *Buffer
}

// newFixture builds a one-action task whose wizard has the given steps and
// opens a session on it.
func newFixture(t *testing.T, specs []stepSpec, manualComplete bool) *fixture {
	t.Helper()
	steps := buildSteps(t, specs)
	tpl, err := task.NewActionTemplate("tpl", "tpl", false, manualComplete, steps)
	require.NoError(t, err)

	actionID, err := model.NewActionIDFromString("a1")
	require.NoError(t, err)
	a, err := task.NewPlannedAction(actionID, 1, model.StageRegular, tpl, task.Targets{}, nil)
	require.NoError(t, err)

	taskType, err := task.NewTaskType("tt", "test", model.OrderingArbitrary, nil, false, []*task.ActionTemplate{tpl})
	require.NoError(t, err)
	taskID, err := model.NewTaskIDFromString("T-1")
	require.NoError(t, err)
	tk, err := task.NewTask(taskID, "test", model.TaskStatusInProgress, taskType, []*task.PlannedAction{a}, nil)
	require.NoError(t, err)

	f := &fixture{
		task:   tk,
		sink:   &stubSink{},
		disp:   &stubDispatcher{},
		eval:   &stubEvaluator{},
		buffer: NewBuffer(),
	}
	f.sess, err = NewSession(tk, actionID, Deps{
		Evaluator:  f.eval,
		Sink:       f.sink,
		Dispatcher: f.disp,
		Buffer:     f.buffer,
	})
	require.NoError(t, err)
	return f
}

func twoStepSpecs() []stepSpec {
	return []stepSpec{
		{id: "s-bin", field: model.FieldStorageBin, required: true},
		{id: "s-qty", field: model.FieldQuantity, required: true},
	}
}

func binValue(id, code string) task.BinValue {
	return task.BinValue{Bin: &stock.Bin{ID: id, Code: code}}
}

func qtyValue(t *testing.T, v float64) task.QuantityValue {
	t.Helper()
	q, err := model.NewQuantity(v)
	require.NoError(t, err)
	return task.QuantityValue{Quantity: q}
}

func stepID(t *testing.T, s string) model.StepID {
	t.Helper()
	id, err := model.NewStepIDFromString(s)
	require.NoError(t, err)
	return id
}

func TestSession_HappyPath(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)
	ctx := context.Background()

	assert.Equal(t, StateStep, f.sess.State())
	assert.Equal(t, 0, f.sess.StepIndex())

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.NextStep())
	assert.Equal(t, 1, f.sess.StepIndex())

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-qty"), qtyValue(t, 5)))
	require.NoError(t, f.sess.NextStep())
	assert.Equal(t, StateSummary, f.sess.State())

	require.NoError(t, f.sess.Submit(ctx))
	assert.Equal(t, StateSuccess, f.sess.State())
	require.Len(t, f.sink.submitted, 1)

	fact := f.sess.EmittedFact()
	require.NotNil(t, fact)
	assert.Equal(t, "a1", fact.ActionID().String())
	require.NotNil(t, fact.Bin())
	assert.Equal(t, "A-01", fact.Bin().Code)
	require.NotNil(t, fact.Quantity())
	assert.Equal(t, 5.0, fact.Quantity().Value())

	// the fact landed in the task's log
	assert.Len(t, f.task.Facts(), 1)
}

func TestSession_RequiredStepBlocksAdvance(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)

	require.NoError(t, f.sess.NextStep())
	assert.Equal(t, StateError, f.sess.State())
	assert.Equal(t, 0, f.sess.StepIndex())

	// supplying the value clears the error and unblocks
	require.NoError(t, f.sess.SetObject(context.Background(), stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	assert.Equal(t, StateStep, f.sess.State())
	require.NoError(t, f.sess.NextStep())
	assert.Equal(t, 1, f.sess.StepIndex())
}

func TestSession_ValidationFailureIsStepError(t *testing.T) {
	specs := twoStepSpecs()
	specs[0].rules = []*task.ValidationRule{{Type: task.RuleFromPlan}}
	f := newFixture(t, specs, false)
	f.eval.err = errors.New("wrong bin")

	require.NoError(t, f.sess.SetObject(context.Background(), stepID(t, "s-bin"), binValue("bin-9", "Z-99")))
	assert.Equal(t, StateError, f.sess.State())
	assert.EqualError(t, f.sess.Error(), "wrong bin")

	// the rejected value was not recorded
	_, have := f.sess.Value(stepID(t, "s-bin"))
	assert.False(t, have)
}

func TestSession_StaleStepValueIgnored(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)
	ctx := context.Background()

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.NextStep())

	// a late lookup response for the bin step arrives after moving on
	require.NoError(t, f.sess.AcceptLookup(ctx, stepID(t, "s-bin"), binValue("bin-2", "A-02")))

	v, have := f.sess.Value(stepID(t, "s-bin"))
	require.True(t, have)
	assert.Equal(t, "A-01", v.Raw())
}

func TestSession_LateLookupDuringSummaryIgnored(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)
	ctx := context.Background()

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.NextStep())
	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-qty"), qtyValue(t, 5)))
	require.NoError(t, f.sess.NextStep())
	require.Equal(t, StateSummary, f.sess.State())

	// a lookup for the last step completes after it was confirmed; the
	// draft must still match what the summary shows
	require.NoError(t, f.sess.AcceptLookup(ctx, stepID(t, "s-qty"), qtyValue(t, 999)))
	assert.Equal(t, StateSummary, f.sess.State())

	v, have := f.sess.Value(stepID(t, "s-qty"))
	require.True(t, have)
	assert.Equal(t, "5", v.Raw())

	require.NoError(t, f.sess.Submit(ctx))
	fact := f.sess.EmittedFact()
	require.NotNil(t, fact)
	require.NotNil(t, fact.Quantity())
	assert.Equal(t, 5.0, fact.Quantity().Value())
}

func TestSession_AcceptLookupStopsLoading(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)

	f.sess.StartLoading()
	assert.Equal(t, StateLoading, f.sess.State())

	require.NoError(t, f.sess.AcceptLookup(context.Background(), stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	assert.Equal(t, StateStep, f.sess.State())
	_, have := f.sess.Value(stepID(t, "s-bin"))
	assert.True(t, have)
}

func TestSession_RetryOperation(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)

	f.sess.SetError(errors.New("lookup timed out"))
	assert.Equal(t, StateError, f.sess.State())

	f.sess.RetryOperation()
	assert.Equal(t, StateLoading, f.sess.State())
	assert.NoError(t, f.sess.Error())
}

func TestSession_AutoAdvance(t *testing.T) {
	specs := twoStepSpecs()
	specs[0].autoAdvance = true
	f := newFixture(t, specs, false)

	require.NoError(t, f.sess.SetObject(context.Background(), stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	assert.Equal(t, 1, f.sess.StepIndex())
}

func TestSession_AutoAdvanceWithConfirmation(t *testing.T) {
	specs := twoStepSpecs()
	specs[0].autoAdvance = true
	specs[0].autoConfirm = true
	f := newFixture(t, specs, false)
	ctx := context.Background()

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	assert.Equal(t, 0, f.sess.StepIndex())
	assert.True(t, f.sess.PendingConfirmation())

	t.Run("decline keeps the value and the step", func(t *testing.T) {
		f.sess.DeclineAdvance()
		assert.False(t, f.sess.PendingConfirmation())
		assert.Equal(t, 0, f.sess.StepIndex())
		_, have := f.sess.Value(stepID(t, "s-bin"))
		assert.True(t, have)
	})

	t.Run("confirm advances", func(t *testing.T) {
		require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
		require.True(t, f.sess.PendingConfirmation())
		require.NoError(t, f.sess.ConfirmAdvance())
		assert.Equal(t, 1, f.sess.StepIndex())
	})
}

func TestSession_PreviousStep(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)
	ctx := context.Background()

	// from the first step: exit dialog, not a silent no-op
	require.NoError(t, f.sess.PreviousStep())
	assert.Equal(t, StateExitDialog, f.sess.State())
	f.sess.DismissExitDialog()
	assert.Equal(t, StateStep, f.sess.State())

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.NextStep())
	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-qty"), qtyValue(t, 5)))
	require.NoError(t, f.sess.NextStep())
	assert.Equal(t, StateSummary, f.sess.State())

	// from the summary: back to the last step
	require.NoError(t, f.sess.PreviousStep())
	assert.Equal(t, StateStep, f.sess.State())
	assert.Equal(t, 1, f.sess.StepIndex())

	require.NoError(t, f.sess.PreviousStep())
	assert.Equal(t, 0, f.sess.StepIndex())
}

func TestSession_ExitDialogBlocksStepNavigation(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)
	ctx := context.Background()

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.NextStep())
	require.Equal(t, 1, f.sess.StepIndex())

	f.sess.ShowExitDialog()
	require.Equal(t, StateExitDialog, f.sess.State())

	// only dismissing or confirming the dialog applies; navigation does not
	require.NoError(t, f.sess.PreviousStep())
	assert.Equal(t, StateExitDialog, f.sess.State())
	assert.Equal(t, 1, f.sess.StepIndex())

	require.NoError(t, f.sess.NextStep())
	assert.Equal(t, 1, f.sess.StepIndex())

	f.sess.DismissExitDialog()
	assert.Equal(t, StateStep, f.sess.State())
	assert.Equal(t, 1, f.sess.StepIndex())
}

func TestSession_ExitClosesSession(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)

	f.sess.ShowExitDialog()
	f.sess.ConfirmExit()
	assert.True(t, f.sess.IsExited())

	err := f.sess.SetObject(context.Background(), stepID(t, "s-bin"), binValue("bin-1", "A-01"))
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, f.sess.NextStep(), ErrSessionClosed)
	assert.ErrorIs(t, f.sess.Submit(context.Background()), ErrSessionClosed)
}

func TestSession_SubmitOnlyFromSummary(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)
	assert.Error(t, f.sess.Submit(context.Background()))
	assert.Empty(t, f.sink.submitted)
}

func TestSession_SubmitFailureIsRetryable(t *testing.T) {
	f := newFixture(t, twoStepSpecs(), false)
	ctx := context.Background()

	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-bin"), binValue("bin-1", "A-01")))
	require.NoError(t, f.sess.NextStep())
	require.NoError(t, f.sess.SetObject(ctx, stepID(t, "s-qty"), qtyValue(t, 5)))
	require.NoError(t, f.sess.NextStep())

	f.sink.err = errors.New("gateway unreachable")
	assert.Error(t, f.sess.Submit(ctx))
	assert.True(t, f.sess.SendingFailed())
	assert.Empty(t, f.task.Facts())

	// the session is still open on the summary; retrying succeeds
	f.sink.err = nil
	require.NoError(t, f.sess.Submit(ctx))
	assert.Equal(t, StateSuccess, f.sess.State())
	assert.False(t, f.sess.SendingFailed())
	assert.Len(t, f.task.Facts(), 1)
}

func TestSession_BufferPrefill(t *testing.T) {
	t.Run("default prefills an empty step", func(t *testing.T) {
		specs := []stepSpec{
			{id: "s-bin", field: model.FieldStorageBin, required: true, buffer: model.BufferDefault},
			{id: "s-qty", field: model.FieldQuantity, required: true},
		}
		f := newFixture(t, specs, false)
		f.buffer.Put(model.FieldStorageBin, binValue("bin-1", "A-01"))

		// re-open a session so entering the first step sees the buffer
		sess, err := NewSession(f.task, f.sess.Action().ID(), Deps{
			Evaluator: f.eval, Sink: f.sink, Dispatcher: f.disp, Buffer: f.buffer,
		})
		require.NoError(t, err)
		v, have := sess.Value(stepID(t, "s-bin"))
		require.True(t, have)
		assert.Equal(t, "A-01", v.Raw())
	})

	t.Run("never leaves the step empty", func(t *testing.T) {
		f := newFixture(t, twoStepSpecs(), false)
		f.buffer.Put(model.FieldStorageBin, binValue("bin-1", "A-01"))
		sess, err := NewSession(f.task, f.sess.Action().ID(), Deps{
			Evaluator: f.eval, Sink: f.sink, Dispatcher: f.disp, Buffer: f.buffer,
		})
		require.NoError(t, err)
		_, have := sess.Value(stepID(t, "s-bin"))
		assert.False(t, have)
	})

	t.Run("accepted value lands in the buffer for default and always", func(t *testing.T) {
		specs := []stepSpec{
			{id: "s-bin", field: model.FieldStorageBin, required: true, buffer: model.BufferDefault},
			{id: "s-qty", field: model.FieldQuantity, required: true},
		}
		f := newFixture(t, specs, false)
		require.NoError(t, f.sess.SetObject(context.Background(), stepID(t, "s-bin"), binValue("bin-1", "A-01")))
		v, ok := f.buffer.Get(model.FieldStorageBin)
		require.True(t, ok)
		assert.Equal(t, "A-01", v.Raw())
	})

	t.Run("clear drops the buffered value", func(t *testing.T) {
		specs := []stepSpec{
			{id: "s-bin", field: model.FieldStorageBin, required: true, buffer: model.BufferClear},
			{id: "s-qty", field: model.FieldQuantity, required: true},
		}
		f := newFixture(t, specs, false)
		f.buffer.Put(model.FieldStorageBin, binValue("bin-0", "A-00"))
		require.NoError(t, f.sess.SetObject(context.Background(), stepID(t, "s-bin"), binValue("bin-1", "A-01")))
		_, ok := f.buffer.Get(model.FieldStorageBin)
		assert.False(t, ok)
	})
}
