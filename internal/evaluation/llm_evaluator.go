package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"interview-backend/internal/llm"
	"interview-backend/internal/shared/telemetry"
)

const systemPrompt = "You are an expert technical interviewer evaluating candidate responses. " +
	"Be strict: short, vague or low-content answers must receive low scores. " +
	"Reply only with a JSON object and no other text."

const evaluatePromptTemplate = `Evaluate this interview answer.

Question: %s

Answer: %s

Provide:
1. score: an integer from 0 to 10
2. feedback: detailed feedback in 2-3 sentences
3. strengths: an array of 2-3 short points
4. improvements: an array of 2-3 short points

Respond only with JSON using the keys score, feedback, strengths, improvements.`

// LLMEvaluator asks an external model to grade the answer.
type LLMEvaluator struct {
	Client llm.Client
}

// Evaluate returns an error for any provider failure or unusable reply.
func (e LLMEvaluator) Evaluate(ctx context.Context, question, answer string) (Result, error) {
	if !llm.Configured(e.Client) {
		return Result{}, llm.ErrNotConfigured
	}
	raw, err := e.Client.Complete(ctx, llm.Request{
		Operation:   "evaluate",
		System:      systemPrompt,
		Prompt:      BuildPrompt(question, answer),
		JSON:        true,
		Temperature: llm.Float32(0.3),
		MaxTokens:   500,
	})
	if err != nil {
		return Result{}, err
	}
	telemetry.Debug("evaluation.llm.response", map[string]any{
		"preview": telemetry.TruncateForLog(raw, 300),
	})
	return ParseResult(raw)
}

// BuildPrompt renders the user prompt for one question/answer pair.
func BuildPrompt(question, answer string) string {
	return fmt.Sprintf(evaluatePromptTemplate, strings.TrimSpace(question), strings.TrimSpace(answer))
}

// ParseResult validates an untrusted evaluator reply.
func ParseResult(raw string) (Result, error) {
	body, ok := llm.ExtractJSON(raw, '{', '}')
	if !ok {
		return Result{}, fmt.Errorf("%w: no json object", ErrMalformedOutput)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	score := llm.CoerceFloat(payload["score"])
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Result{}, fmt.Errorf("%w: missing or invalid score", ErrMalformedOutput)
	}
	feedback := llm.CoerceString(payload["feedback"])
	if feedback == "" {
		return Result{}, fmt.Errorf("%w: missing feedback", ErrMalformedOutput)
	}

	return Result{
		Score:        clampScore(int(math.Round(score))),
		Feedback:     feedback,
		Strengths:    nonNil(llm.CoerceStrings(payload["strengths"], maxListItems)),
		Improvements: nonNil(llm.CoerceStrings(payload["improvements"], maxListItems)),
		Source:       SourceLLM,
	}, nil
}

func clampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
