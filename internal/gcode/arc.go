package gcode

import (
	"math"

	"printestimate/internal/errs"
	"printestimate/internal/kinematics"
)

// DefaultMaxChordDeviation is the tessellation tolerance named in §4.5: the
// maximum distance between the true arc and the chord approximating it.
const DefaultMaxChordDeviation = 1.0 / 60.0

// tessellateArc expands a G2/G3 arc into a sequence of intermediate XY
// points (Z and E interpolated linearly across the sweep), approximating
// the arc within maxDeviation. clockwise selects G2 (true) vs G3 (false).
// I and J are the offsets of the arc center from start, per the G-code
// convention.
func tessellateArc(start, end kinematics.Position, i, j float64, clockwise bool, maxDeviation float64) ([]kinematics.Position, error) {
	if maxDeviation <= 0 {
		maxDeviation = DefaultMaxChordDeviation
	}

	centerX := start.X + i
	centerY := start.Y + j
	radius := math.Hypot(i, j)
	if radius == 0 {
		return nil, &errs.ParseError{Reason: "arc radius is zero"}
	}

	endRadius := math.Hypot(end.X-centerX, end.Y-centerY)
	if math.Abs(endRadius-radius) > 1e-3*radius+1e-6 {
		return nil, &errs.ParseError{Reason: "arc geometry inconsistent: end point not on circle"}
	}

	startAngle := math.Atan2(start.Y-centerY, start.X-centerX)
	endAngle := math.Atan2(end.Y-centerY, end.X-centerX)

	var sweep float64
	if clockwise {
		sweep = startAngle - endAngle
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
		sweep = -sweep
	} else {
		sweep = endAngle - startAngle
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
	}

	maxSegmentAngle := 2 * math.Acos(1-math.Min(maxDeviation/radius, 1))
	if maxSegmentAngle <= 0 || math.IsNaN(maxSegmentAngle) {
		maxSegmentAngle = math.Pi / 8
	}
	segments := int(math.Ceil(math.Abs(sweep) / maxSegmentAngle))
	if segments < 1 {
		segments = 1
	}

	points := make([]kinematics.Position, 0, segments)
	dz := end.Z - start.Z
	de := end.E - start.E
	for k := 1; k <= segments; k++ {
		frac := float64(k) / float64(segments)
		angle := startAngle + sweep*frac
		points = append(points, kinematics.Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
			Z: start.Z + dz*frac,
			E: start.E + de*frac,
		})
	}
	// Force exact endpoint to avoid drift from trigonometric rounding.
	points[len(points)-1] = end
	return points, nil
}
