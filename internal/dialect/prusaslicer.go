package dialect

import (
	"regexp"
	"strings"
)

// PrusaSlicer recognizes and rewrites the "estimated printing time" family
// of comments PrusaSlicer and SuperSlicer append to the footer of generated
// G-code, including per-filament/per-tool variants.
type PrusaSlicer struct{}

func (PrusaSlicer) Name() string { return "PrusaSlicer/SuperSlicer" }

var prusaTimeLine = regexp.MustCompile(`(?i)^;\s*estimated printing time \(([^)]*)\)\s*=\s*.*$`)

func (PrusaSlicer) Detect(lines []string) bool {
	for _, line := range lines {
		if prusaTimeLine.MatchString(line) {
			return true
		}
	}
	return false
}

func (PrusaSlicer) Rewrite(lines []string, totals Totals) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		m := prusaTimeLine.FindStringSubmatch(line)
		if m == nil {
			out[i] = line
			continue
		}
		mode := m[1]
		out[i] = "; estimated printing time (" + strings.ToLower(mode) + ") = " + formatHMS(totals.TotalTime)
	}
	return out
}
