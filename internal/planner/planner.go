// Package planner implements the bounded-look-ahead trapezoid-generator
// planner: it buffers pending moves, resolves junction velocities against
// the previous move, and runs the back-pass/forward-pass of §4.2 to
// finalize start/cruise/end velocities before handing moves off for
// integration. The buffer is an indexed, owned slice with O(1) tail append;
// popping a flushed prefix shifts the remaining moves to the front. There is
// no pointer-chasing linked list.
package planner

import (
	"printestimate/internal/kinematics"
	"printestimate/internal/limits"
)

// Planner buffers moves between flush boundaries and resolves their
// velocities. It owns the moves; onFinal is called once per move, in
// order, exactly when that move's start_v2/cruise_v2/end_v2 are final.
type Planner struct {
	limits  *limits.PrinterLimits
	pending []*kinematics.Move
	onFinal func(*kinematics.Move) error
	atRest  bool // true when the next appended move must start from v=0
}

// New creates a planner bound to lim, invoking onFinal for every move as it
// is finalized (in sequence order). onFinal typically runs the integrator
// and sequencer accounting; a non-nil error aborts the run.
func New(lim *limits.PrinterLimits, onFinal func(*kinematics.Move) error) *Planner {
	return &Planner{
		limits:  lim,
		pending: make([]*kinematics.Move, 0, 64),
		onFinal: onFinal,
		atRest:  true,
	}
}

// Append adds a move to the tail of the buffer, resolves its junction
// velocity against the move ahead of it (or forces a standing start if the
// buffer is empty), recomputes the back-pass/forward-pass over the whole
// pending buffer, and opportunistically flushes any prefix whose start
// velocity can no longer change.
func (p *Planner) Append(move *kinematics.Move) error {
	if move == nil {
		return nil
	}
	if len(p.pending) == 0 {
		if p.atRest {
			move.MaxStartV2 = 0
		}
	} else {
		prev := p.pending[len(p.pending)-1]
		move.MaxStartV2 = junctionMaxStartV2(prev, move, p.limits)
	}
	p.pending = append(p.pending, move)
	p.atRest = false

	p.resolve()
	return p.flushStable()
}

// Flush finalizes every buffered move, assuming the machine comes to a full
// stop after the last one (the terminal exit velocity is 0). Called on
// explicit flush triggers: tool change, dwell, sync commands, end of file.
func (p *Planner) Flush() error {
	if len(p.pending) == 0 {
		p.atRest = true
		return nil
	}
	p.resolve()
	for _, m := range p.pending {
		if err := p.onFinal(m); err != nil {
			return err
		}
	}
	p.pending = p.pending[:0]
	p.atRest = true
	return nil
}

// Pending reports how many moves are buffered but not yet finalized, for
// diagnostics and tests.
func (p *Planner) Pending() int {
	return len(p.pending)
}

// resolve runs the back-pass then the forward-pass over the entire pending
// buffer, assuming a full stop follows the last buffered move. This is the
// conservative assumption used while the true successor is still unknown;
// it is corrected the next time Append or Flush recomputes the buffer, and
// becomes final once a move is actually flushed.
func (p *Planner) resolve() {
	n := len(p.pending)
	if n == 0 {
		return
	}

	startV2 := make([]float64, n)
	smoothedV2 := make([]float64, n)

	nextEndV2 := 0.0
	nextSmoothedV2 := 0.0
	for i := n - 1; i >= 0; i-- {
		m := p.pending[i]
		reachableStartV2 := nextEndV2 + m.DeltaV2
		sv2 := m.MaxStartV2
		if reachableStartV2 < sv2 {
			sv2 = reachableStartV2
		}
		startV2[i] = sv2

		reachableSmoothedV2 := nextSmoothedV2 + m.SmoothDeltaV2
		smv2 := m.MaxSmoothedV2
		if reachableSmoothedV2 < smv2 {
			smv2 = reachableSmoothedV2
		}
		smoothedV2[i] = smv2

		nextEndV2 = sv2
		nextSmoothedV2 = smv2
	}

	for i := 0; i < n; i++ {
		m := p.pending[i]
		endV2 := 0.0
		if i+1 < n {
			endV2 = startV2[i+1]
		}

		peak := m.MaxCruiseV2
		if v := startV2[i] + m.DeltaV2; v < peak {
			peak = v
		}
		if v := endV2 + m.DeltaV2; v < peak {
			peak = v
		}
		// Accelerating from start and decelerating to end must both fit
		// within the move's own distance.
		if v := (startV2[i] + endV2 + m.DeltaV2) / 2; v < peak {
			peak = v
		}
		if smoothedV2[i] < peak {
			peak = smoothedV2[i]
		}

		m.StartV2 = startV2[i]
		m.CruiseV2 = peak
		m.EndV2 = endV2
	}
}

// flushStable pops and finalizes a prefix of moves whose start velocity can
// no longer be raised by further appends: once the cumulative kinetic
// energy (sum of delta_v2) available from a move to the current tail meets
// or exceeds that move's own max_cruise_v2, back-propagation has nothing
// left to lift it with — reachable_start_v2 is already saturated against
// max_start_v2 (which is itself bounded by max_cruise_v2).
//
// The newest (last) buffered move is never flushed here even if it
// satisfies that test: its end_v2 is the start_v2 of whatever move arrives
// next, which by definition isn't known yet. Only an explicit Flush may
// finalize it, forcing the conservative full-stop assumption.
//
// This can still commit a stale end_v2 for the last move of a flushed
// prefix: a slow move followed by a fast collinear move can see that
// successor's start_v2 keep rising on later appends, after the slow move
// has already been popped. The flushed move's time is then a slight
// over-estimate, never an under-estimate. Allowed by design — see §4.2(a).
func (p *Planner) flushStable() error {
	n := len(p.pending)
	if n <= 1 {
		return nil
	}

	tailSum := 0.0
	for _, m := range p.pending {
		tailSum += m.DeltaV2
	}

	flushTo := 0
	for i := 0; i < n-1; i++ {
		m := p.pending[i]
		if tailSum < m.MaxCruiseV2 {
			break
		}
		flushTo = i + 1
		tailSum -= m.DeltaV2
	}
	if flushTo == 0 {
		return nil
	}

	for _, m := range p.pending[:flushTo] {
		if err := p.onFinal(m); err != nil {
			return err
		}
	}
	p.pending = append(p.pending[:0], p.pending[flushTo:]...)
	return nil
}
