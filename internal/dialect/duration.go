package dialect

import "fmt"

// formatHMS renders seconds as PrusaSlicer/ideaMaker-style "1h 23m 45s",
// dropping leading zero components.
func formatHMS(seconds float64) string {
	total := int64(seconds + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
