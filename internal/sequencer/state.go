package sequencer

import "printestimate/internal/kinematics"

// State is the plain, owned record threaded through the G-code front end
// and the planner's finalize callback. It is process-wide for one run, not
// a global — the driver that walks the input stream owns exactly one of
// these (per Design Notes §9).
type State struct {
	Position kinematics.Position

	AbsoluteXYZ bool // G90/G91
	AbsoluteE   bool // M82/M83

	Tool string

	FeedRate    float64 // mm/s, modal, set by the last F word
	SpeedFactor float64 // M220 S<pct>/100, default 1
	FlowFactor  float64 // M221 S<pct>/100, default 1

	CurrentKind  string // set by TYPE:/;TYPE: slicer comments
	CurrentLayer int    // set by LAYER:/LAYER_CHANGE comments

	LineNo int
}

// NewState returns modal state in its G-code-standard initial configuration:
// absolute positioning, absolute extrusion, unit speed/flow factors.
func NewState() *State {
	return &State{
		AbsoluteXYZ: true,
		AbsoluteE:   true,
		SpeedFactor: 1,
		FlowFactor:  1,
	}
}
