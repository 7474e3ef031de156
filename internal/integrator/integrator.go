// Package integrator implements the phase solver of §4.4: given a
// finalized move's resolved start/cruise/end velocities, it produces the
// accel/cruise/decel distances and times that make up the move's
// contribution to total print time.
package integrator

import (
	"math"

	"printestimate/internal/errs"
	"printestimate/internal/kinematics"
)

// roundingTolerance bounds how far cruise_distance may go negative before
// it is treated as a real overshoot rather than floating-point noise.
const roundingTolerance = 1e-9

// Solve fills in m's AccelDistance/CruiseDistance/DecelDistance and
// AccelTime/CruiseTime/DecelTime from its already-resolved
// StartV2/CruiseV2/EndV2 and Acceleration. It returns a *errs.KinematicError
// if any produced value is non-finite.
func Solve(m *kinematics.Move) error {
	if m.CruiseV2 == 0 {
		m.AccelDistance, m.CruiseDistance, m.DecelDistance = 0, 0, 0
		m.AccelTime, m.CruiseTime, m.DecelTime = 0, 0, 0
		return nil
	}

	accel := m.Acceleration
	if accel <= 0 {
		return &errs.KinematicError{Component: "integrator", Detail: "non-positive acceleration"}
	}

	accelDistance := (m.CruiseV2 - m.StartV2) / (2 * accel)
	decelDistance := (m.CruiseV2 - m.EndV2) / (2 * accel)
	cruiseDistance := m.Distance - accelDistance - decelDistance

	if cruiseDistance < 0 {
		if cruiseDistance < -roundingTolerance*m.Distance {
			return &errs.KinematicError{
				Component: "integrator",
				Detail:    "cruise distance negative beyond rounding tolerance",
			}
		}
		// Trim accel/decel proportionally, preserving their ratio, so the
		// three distances sum exactly to m.Distance.
		total := accelDistance + decelDistance
		cruiseDistance = 0
		if total > 0 {
			scale := m.Distance / total
			accelDistance *= scale
			decelDistance *= scale
		} else {
			accelDistance = 0
			decelDistance = 0
		}
	}

	m.AccelDistance = accelDistance
	m.CruiseDistance = cruiseDistance
	m.DecelDistance = decelDistance

	m.AccelTime = phaseTime(accelDistance, m.StartV2, m.CruiseV2)
	m.DecelTime = phaseTime(decelDistance, m.CruiseV2, m.EndV2)
	if cruiseDistance == 0 {
		m.CruiseTime = 0
	} else {
		m.CruiseTime = cruiseDistance / math.Sqrt(m.CruiseV2)
	}

	for _, v := range []float64{m.AccelDistance, m.CruiseDistance, m.DecelDistance, m.AccelTime, m.CruiseTime, m.DecelTime} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &errs.KinematicError{Component: "integrator", Detail: "non-finite phase value"}
		}
	}
	return nil
}

// phaseTime computes 2*distance/(sqrt(v2a)+sqrt(v2b)), the v_avg form of a
// constant-acceleration phase's duration. Returns 0 for a zero-length phase
// between two zero velocities.
func phaseTime(distance, v2a, v2b float64) float64 {
	denom := math.Sqrt(v2a) + math.Sqrt(v2b)
	if denom == 0 {
		return 0
	}
	return 2 * distance / denom
}
