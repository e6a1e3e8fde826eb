package analysis

import "sort"

// Ranked pairs a policy name with its metrics for comparison output.
type Ranked struct {
	Name    string  `json:"name"`
	Metrics Metrics `json:"metrics"`
}

// RankBySharpe sorts results descending by Sharpe ratio, the usual ordering
// when comparing a learned policy against baselines over the same test
// split.
func RankBySharpe(results []Ranked) []Ranked {
	out := make([]Ranked, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Metrics.SharpeRatio > out[j].Metrics.SharpeRatio
	})
	return out
}
