package dialect

import (
	"fmt"
	"regexp"
	"strconv"
)

// Cura recognizes and rewrites the ";TIME:" header and ";TIME_ELAPSED:"
// progress markers Cura sprinkles through the body of generated G-code. The
// header gets the grand total; each TIME_ELAPSED marker gets the cumulative
// elapsed time at its own position in the file.
type Cura struct{}

func (Cura) Name() string { return "Cura" }

var (
	curaTimeHeader  = regexp.MustCompile(`^;TIME:\s*\d+(\.\d+)?\s*$`)
	curaTimeElapsed = regexp.MustCompile(`^;TIME_ELAPSED:\s*\d+(\.\d+)?\s*$`)
)

func (Cura) Detect(lines []string) bool {
	for _, line := range lines {
		if curaTimeHeader.MatchString(line) {
			return true
		}
	}
	return false
}

func (Cura) Rewrite(lines []string, totals Totals) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case curaTimeHeader.MatchString(line):
			out[i] = fmt.Sprintf(";TIME:%s", formatSeconds(totals.TotalTime))
		case curaTimeElapsed.MatchString(line):
			out[i] = fmt.Sprintf(";TIME_ELAPSED:%s", formatSeconds(elapsedAt(totals, i)))
		default:
			out[i] = line
		}
	}
	return out
}

func elapsedAt(totals Totals, lineIndex int) float64 {
	if lineIndex < len(totals.ElapsedAtLine) {
		return totals.ElapsedAtLine[lineIndex]
	}
	return totals.TotalTime
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 2, 64)
}
