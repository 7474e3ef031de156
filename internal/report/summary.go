// Package report formats estimation results for the CLI: a tabwriter-based
// human-readable summary and a gocsv-based per-move dump.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"printestimate/internal/sequencer"
)

// WriteSummary renders totals, the phase breakdown, and per-kind/per-layer
// accumulators for a finished run.
func WriteSummary(w io.Writer, sequences []*sequencer.Sequence) {
	totals := sequencer.Totals(sequences)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total time:\t%s\n", formatDuration(totals.TotalTime))
	fmt.Fprintf(tw, "  accel:\t%s\n", formatDuration(totals.AccelTime))
	fmt.Fprintf(tw, "  cruise:\t%s\n", formatDuration(totals.CruiseTime))
	fmt.Fprintf(tw, "  decel:\t%s\n", formatDuration(totals.DecelTime))
	fmt.Fprintf(tw, "Distance:\t%.2f mm\n", totals.Distance)
	fmt.Fprintf(tw, "Extruded volume:\t%.3f mm^3\n", totals.ExtrudedVolume)
	fmt.Fprintf(tw, "Sequences:\t%d\n", len(sequences))
	tw.Flush()

	if len(totals.PerKind) > 0 {
		fmt.Fprintln(w, "\nBy kind:")
		twk := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, kind := range sortedKeys(totals.PerKind) {
			fmt.Fprintf(twk, "  %s\t%s\n", kind, formatDuration(totals.PerKind[kind]))
		}
		twk.Flush()
	}

	if len(totals.PerLayer) > 0 {
		fmt.Fprintln(w, "\nBy layer:")
		twl := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, layer := range sortedIntKeys(totals.PerLayer) {
			fmt.Fprintf(twl, "  layer %d\t%s\n", layer, formatDuration(totals.PerLayer[layer]))
		}
		twl.Flush()
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func formatDuration(seconds float64) string {
	total := int64(seconds + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
