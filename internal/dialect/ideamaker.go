package dialect

import (
	"regexp"
)

// IdeaMaker recognizes and rewrites the ";Print Time:" family of footer
// comments ideaMaker writes, expressed in whole seconds.
type IdeaMaker struct{}

func (IdeaMaker) Name() string { return "ideaMaker" }

var ideaMakerTimeLine = regexp.MustCompile(`(?i)^;\s*Print[ _]Time\s*:\s*.*$`)

func (IdeaMaker) Detect(lines []string) bool {
	for _, line := range lines {
		if ideaMakerTimeLine.MatchString(line) {
			return true
		}
	}
	return false
}

func (IdeaMaker) Rewrite(lines []string, totals Totals) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if !ideaMakerTimeLine.MatchString(line) {
			out[i] = line
			continue
		}
		out[i] = ";Print Time: " + formatHMS(totals.TotalTime)
	}
	return out
}
