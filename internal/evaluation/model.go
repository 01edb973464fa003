package evaluation

import "context"

const (
	SourceLLM       = "llm"
	SourceHeuristic = "heuristic"
)

const (
	MinScore     = 0
	MaxScore     = 10
	maxListItems = 5

	MaxQuestionRunes = 2000
	MaxAnswerRunes   = 10000
)

// Result is the outcome of evaluating one answer.
type Result struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Source       string   `json:"source"`
}

// Evaluator scores an answer to a question.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string) (Result, error)
}
