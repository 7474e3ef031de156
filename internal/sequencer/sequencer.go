// Package sequencer accounts for finalized moves: it accumulates total
// time, per-phase time, per-kind time, per-layer time, and extruded volume,
// and groups the run into Sequences split at flush boundaries (§4.6).
package sequencer

import "printestimate/internal/kinematics"

// Sequencer is the accounting sink wired to a planner's finalize callback.
// Call Account for every move the planner emits, AddExtraTime for
// ESTIMATOR_ADD_TIME directives, and Close to end the current sequence at a
// flush boundary.
type Sequencer struct {
	filamentArea float64

	sequences []*Sequence
	current   *accumulator
	index     int
	startLine int
}

// New creates a Sequencer. filamentArea converts extruded length (mm) to
// volume (mm^3); pass 0 if volume accounting is not needed.
func New(filamentArea float64) *Sequencer {
	return &Sequencer{
		filamentArea: filamentArea,
		current:      newAccumulator(),
	}
}

// Account folds a finalized move's phase times, distance, and extruded
// volume into the current sequence, attributing time to kind and layer.
func (s *Sequencer) Account(m *kinematics.Move, kind string, layer int) {
	total := m.AccelTime + m.CruiseTime + m.DecelTime

	s.current.totalTime.Add(total)
	s.current.accelTime.Add(m.AccelTime)
	s.current.cruiseTime.Add(m.CruiseTime)
	s.current.decelTime.Add(m.DecelTime)
	s.current.kind(kind).Add(total)
	s.current.layer(layer).Add(total)
	s.current.distance.Add(m.Distance)

	if m.IsExtrudeMove {
		de := m.End.E - m.Start.E
		s.current.extrudeDistance.Add(de)
		s.current.extrudedVolume.Add(de * s.filamentArea)
	}
}

// AddExtraTime implements the ESTIMATOR_ADD_TIME directive: seconds are
// added to the running total and, if label is non-empty, attributed to a
// kind accumulator of that name.
func (s *Sequencer) AddExtraTime(seconds float64, label string) {
	s.current.totalTime.Add(seconds)
	if label != "" {
		s.current.kind(label).Add(seconds)
	}
}

// Close snapshots the current sequence (ending at endLine, inclusive) and
// opens a new one for subsequent moves.
func (s *Sequencer) Close(endLine int) {
	seq := s.current.snapshot(s.index, s.startLine, endLine)
	s.sequences = append(s.sequences, seq)
	s.index++
	s.startLine = endLine + 1
	s.current = newAccumulator()
}

// Sequences returns every closed sequence plus, if it has any accounted
// time, the still-open current one (as if closed at lastLine).
func (s *Sequencer) Sequences(lastLine int) []*Sequence {
	out := make([]*Sequence, len(s.sequences), len(s.sequences)+1)
	copy(out, s.sequences)
	if s.current.totalTime.Value() != 0 || len(s.current.perKind) != 0 {
		out = append(out, s.current.snapshot(s.index, s.startLine, lastLine))
	}
	return out
}

// Totals aggregates every sequence (closed and, via lastLine, the open one)
// into a single run-wide summary.
func Totals(sequences []*Sequence) *Sequence {
	total := &Sequence{PerKind: map[string]float64{}, PerLayer: map[int]float64{}}
	for _, s := range sequences {
		total.TotalTime += s.TotalTime
		total.AccelTime += s.AccelTime
		total.CruiseTime += s.CruiseTime
		total.DecelTime += s.DecelTime
		total.Distance += s.Distance
		total.ExtrudeDistance += s.ExtrudeDistance
		total.ExtrudedVolume += s.ExtrudedVolume
		for k, v := range s.PerKind {
			total.PerKind[k] += v
		}
		for l, v := range s.PerLayer {
			total.PerLayer[l] += v
		}
	}
	return total
}
