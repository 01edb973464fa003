package evaluation

import (
	"context"

	"interview-backend/internal/scoring"
)

// HeuristicEvaluator adapts the length/richness scorer to the Evaluator interface.
type HeuristicEvaluator struct {
	Scorer *scoring.Scorer
}

// Evaluate never fails.
func (h HeuristicEvaluator) Evaluate(_ context.Context, _, answer string) (Result, error) {
	scorer := h.Scorer
	if scorer == nil {
		scorer = scoring.NewScorer(scoring.DefaultConfig())
	}
	res := scorer.Score(answer)
	return Result{
		Score:        res.Score,
		Feedback:     res.Feedback,
		Strengths:    nonNil(res.Strengths),
		Improvements: nonNil(res.Improvements),
		Source:       SourceHeuristic,
	}, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
