package ranking

import (
	"math"
	"sort"
)

// TargetCount returns how many of n sentences a ratio keeps:
// max(1, round(n·ratio)), capped at n. It returns 0 for an empty corpus.
func TargetCount(n int, ratio float64) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Round(float64(n) * ratio))
	return min(max(1, k), n)
}

// Select returns the indices of the k highest scores in descending score
// order. Equal scores keep corpus order, so the lower index ranks first.
func Select(scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order[:min(max(k, 0), len(order))]
}

// Pick returns the sentences at the given indices, in index-list order.
func Pick(sentences []string, indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = sentences[idx]
	}
	return out
}
