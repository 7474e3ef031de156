package report

import (
	"io"
	"math"

	"github.com/gocarina/gocsv"

	"printestimate/internal/kinematics"
)

// MoveRecord is the flattened, CSV-friendly view of a finalized Move that
// dump-moves writes one row per move of.
type MoveRecord struct {
	Line          int     `csv:"line"`
	Kind          string  `csv:"kind"`
	Layer         int     `csv:"layer"`
	Distance      float64 `csv:"distance_mm"`
	StartVelocity float64 `csv:"start_velocity_mm_s"`
	CruiseVelocity float64 `csv:"cruise_velocity_mm_s"`
	EndVelocity   float64 `csv:"end_velocity_mm_s"`
	AccelTime     float64 `csv:"accel_time_s"`
	CruiseTime    float64 `csv:"cruise_time_s"`
	DecelTime     float64 `csv:"decel_time_s"`
}

// MoveDumper accumulates MoveRecords across a run for WriteCSV to dump in
// one shot at the end; dump-moves drives one of these from the same
// onFinalize hook the planner calls into.
type MoveDumper struct {
	records []MoveRecord
	lineNo  func() int
}

// NewMoveDumper returns a dumper that stamps each recorded move with the
// line number lineNo reports at the moment it is recorded.
func NewMoveDumper(lineNo func() int) *MoveDumper {
	return &MoveDumper{lineNo: lineNo}
}

// Record appends m's finalized fields as one row.
func (d *MoveDumper) Record(m *kinematics.Move) {
	line := 0
	if d.lineNo != nil {
		line = d.lineNo()
	}
	d.records = append(d.records, MoveRecord{
		Line:           line,
		Kind:           m.Kind,
		Layer:          m.Layer,
		Distance:       m.Distance,
		StartVelocity:  sqrtSafe(m.StartV2),
		CruiseVelocity: sqrtSafe(m.CruiseV2),
		EndVelocity:    sqrtSafe(m.EndV2),
		AccelTime:      m.AccelTime,
		CruiseTime:     m.CruiseTime,
		DecelTime:      m.DecelTime,
	})
}

// WriteCSV marshals all recorded rows to w.
func (d *MoveDumper) WriteCSV(w io.Writer) error {
	return gocsv.Marshal(d.records, w)
}

// Records exposes the recorded rows, mainly for feeding NewCruisePercentiles.
func (d *MoveDumper) Records() []MoveRecord { return d.records }

func sqrtSafe(v2 float64) float64 {
	if v2 <= 0 {
		return 0
	}
	return math.Sqrt(v2)
}
