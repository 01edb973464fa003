package evaluation

import (
	"context"
	"errors"
	"time"

	"interview-backend/internal/llm"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
)

const defaultTimeout = 20 * time.Second

// Service picks the external evaluator when available and demotes to the
// heuristic on any failure.
type Service struct {
	External  Evaluator
	Heuristic Evaluator
	Timeout   time.Duration
}

// NewService wires the external evaluator only when client is configured.
func NewService(client llm.Client, heuristic HeuristicEvaluator, timeout time.Duration) *Service {
	svc := &Service{Heuristic: heuristic, Timeout: timeout}
	if llm.Configured(client) {
		svc.External = LLMEvaluator{Client: client}
	}
	return svc
}

// Evaluate always produces a result.
func (s *Service) Evaluate(ctx context.Context, question, answer string, useExternal bool) Result {
	if useExternal && s.External != nil {
		res, err := s.evaluateExternal(ctx, question, answer)
		if err == nil {
			metrics.IncEvaluation(SourceLLM)
			return res
		}
		metrics.IncLLMFallback("evaluate")
		telemetry.Info("evaluation.fallback", map[string]any{
			"reason": fallbackReason(err),
			"error":  err,
		})
	}

	res := s.evaluateHeuristic(ctx, question, answer)
	metrics.IncEvaluation(SourceHeuristic)
	return res
}

func (s *Service) evaluateExternal(ctx context.Context, question, answer string) (Result, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := s.External.Evaluate(callCtx, question, answer)
	metrics.ObserveLLMDurationMs(metrics.SinceMillis(start))
	if err != nil {
		return Result{}, err
	}
	res.Source = SourceLLM
	return res, nil
}

func (s *Service) evaluateHeuristic(ctx context.Context, question, answer string) Result {
	heuristic := s.Heuristic
	if heuristic == nil {
		heuristic = HeuristicEvaluator{}
	}
	res, err := heuristic.Evaluate(ctx, question, answer)
	if err != nil {
		telemetry.Error("evaluation.heuristic_failed", map[string]any{"error": err})
		res, _ = HeuristicEvaluator{}.Evaluate(ctx, question, answer)
	}
	res.Source = SourceHeuristic
	return res
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed_output"
	case errors.Is(err, llm.ErrNotConfigured):
		return "not_configured"
	default:
		return "provider_error"
	}
}
