// Package kinematics builds Move objects from parsed G-code positions,
// composing the per-axis and per-extruder limits from internal/limits into
// the scalar caps the planner's look-ahead back-pass consumes. Everything
// after construction stores squared velocities to avoid repeated sqrt, per
// the reference controller's convention.
package kinematics

import (
	"math"

	"printestimate/internal/limits"
)

// Position is a point in machine coordinates: three cartesian axes plus the
// extruder's logical filament position.
type Position struct {
	X, Y, Z, E float64
}

// Move is a single displacement with its attached limits and planner state.
// Fields are mutable while the move sits in the planner's look-ahead buffer
// and are treated as immutable once the planner finalizes and emits it.
type Move struct {
	Start, End Position

	Distance  float64 // Euclidean length over (dx,dy,dz), or |de| for a pure extrude
	Dir       [3]float64 // unit direction of the cartesian part (zero vector if none)

	IsKinematicMove bool // any of dx, dy, dz != 0
	IsExtrudeMove   bool // de > 0
	IsExtrudeOnly   bool // extruding with no cartesian component

	RequestedVelocity float64
	Acceleration      float64
	AccelToDecel      float64

	MaxCruiseV2   float64
	MaxStartV2    float64
	MaxSmoothedV2 float64
	DeltaV2       float64
	SmoothDeltaV2 float64

	// Resolved by the planner's back-pass/forward-pass.
	StartV2   float64
	CruiseV2  float64
	EndV2     float64

	// Resolved by the integrator.
	AccelTime, CruiseTime, DecelTime          float64
	AccelDistance, CruiseDistance, DecelDistance float64

	// Accounting tags, set by the G-code front-end from PrinterState at
	// the moment the move is constructed.
	ExtruderName string
	Kind         string
	Layer        int

	// SourceLine is the 1-based input line that produced this move. The
	// planner finalizes moves lazily, well after the line that emitted
	// them has been processed, so anything that attributes elapsed time
	// to a file position (e.g. Cura's TIME_ELAPSED rewrite) must key off
	// this instead of the driver's current line at finalization time.
	SourceLine int
}

// New builds a Move from a start/end position pair, a requested feedrate
// (mm/s), the active limits, and the active extruder's name. It performs all
// the "computed eagerly" work of §4.1: distance, direction, per-axis
// acceleration and velocity clamping (z clamp first, then extruder clamp —
// see DESIGN.md for why that ordering was chosen), and the planner seed
// values (max_start_v2, max_smoothed_v2, delta_v2, smooth_delta_v2).
//
// It returns nil for a zero-length move, which includes an E-only retraction
// (de < 0 with no cartesian motion); callers must not append a nil Move to
// the planner.
// accelCap, if positive, further bounds the move's base acceleration below
// lim.MaxAccel — the effect of an M204 S/P/T override in force for this
// move. Pass 0 to use lim.MaxAccel unmodified.
func New(start, end Position, feedrate float64, lim *limits.PrinterLimits, extruderName string, accelCap float64) *Move {
	dx := end.X - start.X
	dy := end.Y - start.Y
	dz := end.Z - start.Z
	de := end.E - start.E

	isKinematic := dx != 0 || dy != 0 || dz != 0
	isExtrude := de > 0

	var r float64
	switch {
	case isKinematic:
		r = math.Sqrt(dx*dx + dy*dy + dz*dz)
	case isExtrude:
		r = math.Abs(de)
	default:
		return nil
	}
	if r == 0 {
		return nil
	}

	m := &Move{
		Start:           start,
		End:             end,
		Distance:        r,
		IsKinematicMove: isKinematic,
		IsExtrudeMove:   isExtrude,
		IsExtrudeOnly:   isExtrude && !isKinematic,
		ExtruderName:    extruderName,
	}
	if isKinematic {
		m.Dir = [3]float64{dx / r, dy / r, dz / r}
	}

	extruder, hasExtruder := lim.Extruder(extruderName)
	hasExtruder = hasExtruder && isExtrude

	acceleration := lim.MaxAccel
	if accelCap > 0 && accelCap < acceleration {
		acceleration = accelCap
	}
	if dz != 0 {
		acceleration = clampAxis(acceleration, lim.MaxZAccel, r, dz)
	}
	if hasExtruder {
		acceleration = clampAxis(acceleration, extruder.MaxAccel, r, de)
	}
	m.Acceleration = acceleration
	m.AccelToDecel = math.Min(lim.MaxAccelToDecel, acceleration)

	vReq := math.Min(feedrate, lim.MaxVelocity)
	if dz != 0 {
		vReq = clampAxis(vReq, lim.MaxZVelocity, r, dz)
	}
	if hasExtruder {
		vReq = clampAxis(vReq, extruder.MaxVelocity, r, de)
	}
	m.RequestedVelocity = vReq
	m.MaxCruiseV2 = vReq * vReq

	m.DeltaV2 = 2 * acceleration * r
	m.SmoothDeltaV2 = 2 * m.AccelToDecel * r
	m.MaxStartV2 = m.MaxCruiseV2
	m.MaxSmoothedV2 = m.MaxCruiseV2

	return m
}

// clampAxis reduces a move-level scalar (velocity or acceleration) so that
// the named axis's per-axis component stays within its own limit:
// component = value * |axisDelta| / r must not exceed axisLimit.
func clampAxis(value, axisLimit, r, axisDelta float64) float64 {
	if axisLimit <= 0 || r == 0 {
		return value
	}
	d := math.Abs(axisDelta)
	if d == 0 {
		return value
	}
	axisComponent := value * d / r
	if axisComponent > axisLimit {
		return axisLimit * r / d
	}
	return value
}
