package wizard

// State is the derived display state of a wizard session
type State string

const (
	StateLoading    State = "Loading"
	StateStep       State = "Step"
	StateSummary    State = "Summary"
	StateSending    State = "Sending"
	StateSuccess    State = "Success"
	StateError      State = "Error"
	StateExitDialog State = "ExitDialog"
)

// String returns the string representation
func (s State) String() string {
	return string(s)
}

// deriveState is the single place the session flags are folded into a
// display state. The precedence Loading > ExitDialog > Summary > Error >
// Step is load-bearing: reordering it changes which surface wins when two
// conditions hold at once (an error banner while the exit dialog is open
// must show the dialog).
func deriveState(f sessionFlags) State {
	switch {
	case f.completed:
		return StateSuccess
	case f.loading && f.submitting:
		return StateSending
	case f.loading:
		return StateLoading
	case f.showExitDialog:
		return StateExitDialog
	case f.showSummary:
		return StateSummary
	case f.err != nil:
		return StateError
	default:
		return StateStep
	}
}

// sessionFlags are the raw booleans the display state derives from
type sessionFlags struct {
	loading        bool
	submitting     bool
	completed      bool
	showSummary    bool
	showExitDialog bool
	err            error
}
