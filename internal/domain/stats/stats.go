// Package stats computes per-item rank aggregates from the item's current
// placements across all lists.
package stats

import (
	"math"
)

// Positional thresholds for the podium counters.
const (
	top10Threshold = 10
	top3Threshold  = 3
	firstPlace     = 1
)

// Summary holds every aggregate derived from one item's ranks.
// Rank-derived fields are nil when the item has no appearances.
type Summary struct {
	TotalAppearances int
	AverageRank      *float64
	BestRank         *int
	WorstRank        *int
	RankVariance     *float64
	Top10Count       int
	Top3Count        int
	FirstPlaceCount  int
}

// Summarize computes the full aggregate set from the given ranks.
// Variance is the population variance; average and variance are rounded
// to two decimals. An empty input yields zero counts and nil aggregates.
func Summarize(ranks []int) Summary {
	s := Summary{TotalAppearances: len(ranks)}
	if len(ranks) == 0 {
		return s
	}

	best := ranks[0]
	worst := ranks[0]
	sum := 0
	for _, r := range ranks {
		if r < best {
			best = r
		}
		if r > worst {
			worst = r
		}
		sum += r
		if r <= top10Threshold {
			s.Top10Count++
		}
		if r <= top3Threshold {
			s.Top3Count++
		}
		if r == firstPlace {
			s.FirstPlaceCount++
		}
	}

	mean := float64(sum) / float64(len(ranks))

	var sq float64
	for _, r := range ranks {
		d := float64(r) - mean
		sq += d * d
	}
	variance := sq / float64(len(ranks))

	avg := round2(mean)
	vr := round2(variance)
	s.AverageRank = &avg
	s.BestRank = &best
	s.WorstRank = &worst
	s.RankVariance = &vr
	return s
}

// round2 rounds half away from zero to two decimals.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
