package interviews

import "math"

var transitions = map[string][]string{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

// CanTransition reports whether the lifecycle allows from -> to.
// Nothing leaves completed.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllAnswered reports whether qs is non-empty and every question is answered.
func AllAnswered(qs []Question) bool {
	if len(qs) == 0 {
		return false
	}
	for _, q := range qs {
		if !q.Answered() || q.Score == nil {
			return false
		}
	}
	return true
}

// AggregateScore maps per-question scores (0-10) to a 0-100 interview score:
// round(mean * 10).
func AggregateScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	agg := int(math.Round(float64(sum) * 10 / float64(len(scores))))
	if agg < 0 {
		return 0
	}
	if agg > 100 {
		return 100
	}
	return agg
}

func answeredScores(qs []Question) []int {
	scores := make([]int, 0, len(qs))
	for _, q := range qs {
		if q.Score != nil {
			scores = append(scores, *q.Score)
		}
	}
	return scores
}
