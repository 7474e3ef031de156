// Package dialect recognizes and rewrites the time-estimate comments major
// slicers embed in their G-code output, for post-process mode (§6).
package dialect

import "printestimate/internal/sequencer"

// Totals is the summary a Dialect rewrites placeholder comments against.
// ElapsedAtLine, when present, holds the cumulative elapsed time immediately
// after processing line i+1 (1-based), letting Cura's TIME_ELAPSED markers
// be recomputed at the file position they actually occur rather than just
// stamped with the grand total.
type Totals struct {
	TotalTime     float64
	PerKind       map[string]float64
	ElapsedAtLine []float64
}

// FromSequence adapts a sequencer.Sequence into the narrower view a Dialect
// needs.
func FromSequence(s *sequencer.Sequence) Totals {
	return Totals{TotalTime: s.TotalTime, PerKind: s.PerKind}
}

// Dialect is the capability interface a slicer-specific rewriter implements:
// detect whether a file matches, then rewrite its placeholder comments
// in place given computed totals.
type Dialect interface {
	Name() string
	Detect(lines []string) bool
	Rewrite(lines []string, totals Totals) []string
}

// All is the registry post-process mode probes, in priority order.
var All = []Dialect{
	PrusaSlicer{},
	IdeaMaker{},
	Cura{},
}

// Detect returns the first dialect in All that claims lines, or nil if none
// do.
func Detect(lines []string) Dialect {
	for _, d := range All {
		if d.Detect(lines) {
			return d
		}
	}
	return nil
}
