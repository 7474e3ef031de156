package planner

import (
	"math"

	"printestimate/internal/kinematics"
	"printestimate/internal/limits"
)

// junctionMaxStartV2 implements §4.3: the squared junction velocity between
// two consecutive moves, composed with the cruise caps of both moves, the
// forward-reachable velocity of the previous move, and the extruder-jerk
// cap.
func junctionMaxStartV2(prev, cur *kinematics.Move, lim *limits.PrinterLimits) float64 {
	if prev.IsExtrudeOnly || cur.IsExtrudeOnly || !prev.IsKinematicMove || !cur.IsKinematicMove {
		return extruderJerkCap(prev, cur, lim, 0)
	}

	cosTheta := -(prev.Dir[0]*cur.Dir[0] + prev.Dir[1]*cur.Dir[1] + prev.Dir[2]*cur.Dir[2])
	if cosTheta < -1 {
		cosTheta = -1
	}
	if cosTheta > 0.999999 {
		// A full reversal: the junction is a standstill.
		return 0
	}

	var vJunction2 float64
	if cosTheta <= -0.999999 {
		vJunction2 = math.Min(prev.MaxCruiseV2, cur.MaxCruiseV2)
	} else {
		jd := lim.JunctionDeviation()
		sinHalf := math.Sqrt((1 - cosTheta) / 2)
		r := jd * sinHalf / (1 - sinHalf)
		accelJunction := math.Min(prev.Acceleration, cur.Acceleration)
		vJunction2 = r * accelJunction
	}

	maxStartV2 := math.Min(vJunction2, math.Min(prev.MaxCruiseV2, cur.MaxCruiseV2))
	maxStartV2 = math.Min(maxStartV2, prev.MaxStartV2+prev.DeltaV2)

	return extruderJerkCap(prev, cur, lim, maxStartV2)
}

// extruderJerkCap further reduces a candidate max_start_v2 so that the
// extruder-velocity difference implied by cornering at that speed does not
// exceed the active extruder's instant_corner_velocity. e-rate is the
// fraction of a move's linear speed that is extrusion rate (de/r); the
// extruder speed at a shared cornering velocity v is v*e-rate, so the two
// moves' extruder speeds differ by v*|prevRate-curRate|.
func extruderJerkCap(prev, cur *kinematics.Move, lim *limits.PrinterLimits, candidate float64) float64 {
	extruder, ok := lim.Extruder(cur.ExtruderName)
	if !ok {
		extruder, ok = lim.Extruder(prev.ExtruderName)
	}
	if !ok {
		return candidate
	}

	prevRate := eRate(prev)
	curRate := eRate(cur)
	diff := math.Abs(prevRate - curRate)
	if diff == 0 {
		return candidate
	}

	icv := extruder.InstantCornerVelocity()
	vMax := icv / diff
	jerkCap := vMax * vMax
	if candidate == 0 {
		return 0
	}
	return math.Min(candidate, jerkCap)
}

func eRate(m *kinematics.Move) float64 {
	if m.Distance == 0 {
		return 0
	}
	return (m.End.E - m.Start.E) / m.Distance
}
