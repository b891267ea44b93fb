package groupstats

import "sort"

// Holm applies the Holm step-down correction to a family of p-values. The
// i-th smallest (0-based) of m p-values is multiplied by m-i, a running
// maximum keeps the adjusted values monotone in the original rank, and the
// result is capped at 1. The output is in the order of the input.
func Holm(p []float64) []float64 {
	m := len(p)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return p[order[i]] < p[order[j]] })

	adjusted := make([]float64, m)
	running := 0.0
	for rank, idx := range order {
		v := p[idx] * float64(m-rank)
		if v > running {
			running = v
		}
		if running > 1 {
			running = 1
		}
		adjusted[idx] = running
	}

	return adjusted
}
