package sequencer

// KahanSum is a compensated running sum, used for any accumulator summing
// more than a handful of terms (per §9: "Accumulators for totals should use
// Kahan compensation when summing more than ~10^4 moves to keep total-time
// stable within 1ms over 12h prints"). No pack dependency offers this —
// see DESIGN.md — so it is hand-rolled here, the textbook four-line
// algorithm.
type KahanSum struct {
	sum float64
	c   float64
}

// Add folds v into the running sum.
func (k *KahanSum) Add(v float64) {
	y := v - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

// Value returns the compensated sum so far.
func (k *KahanSum) Value() float64 {
	return k.sum
}
