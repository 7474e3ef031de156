package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CruisePercentiles returns the p-th percentile (0-100) cruise velocity
// (mm/s) across every recorded move, for a quick sense of how much of a
// print runs near its velocity ceiling versus crawling through short
// segments. Values are sorted once and reused across calls.
type CruisePercentiles struct {
	sorted []float64
}

// NewCruisePercentiles builds the percentile source from a dumper's
// recorded rows.
func NewCruisePercentiles(records []MoveRecord) *CruisePercentiles {
	v := make([]float64, len(records))
	for i, r := range records {
		v[i] = r.CruiseVelocity
	}
	sort.Float64s(v)
	return &CruisePercentiles{sorted: v}
}

// At returns the percentile p (0-100) cruise velocity, or 0 if there are no
// recorded moves.
func (c *CruisePercentiles) At(p float64) float64 {
	if len(c.sorted) == 0 {
		return 0
	}
	return stat.Quantile(p/100, stat.Empirical, c.sorted, nil)
}
