package questions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interview-backend/internal/llm"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
)

// Count is the number of questions in every generated set.
const Count = 5

const (
	SourceLLM      = "llm"
	SourceLLMLines = "llm_lines"
	SourceTemplate = "template"
)

const (
	defaultTimeout        = 20 * time.Second
	defaultMaxResumeRunes = 12000
)

const generateSystemPrompt = "You are an experienced technical interviewer preparing a practice interview."

const generatePromptTemplate = `Generate exactly 5 interview questions for a %s position based on this CV.
Mix technical depth with one behavioural question and keep each question to one or two sentences.
Write the questions in the language of the CV.

CV:
%s

Respond only with a JSON array of 5 question strings, for example ["Question 1", "Question 2", "Question 3", "Question 4", "Question 5"].`

// Result is an ordered question set; index i has order i+1.
type Result struct {
	Questions []string `json:"questions"`
	Source    string   `json:"source"`
}

// Service generates interview questions from a résumé.
type Service struct {
	LLM            llm.Client
	Timeout        time.Duration
	MaxResumeRunes int
}

// Generate always returns exactly Count non-empty questions.
func (s *Service) Generate(ctx context.Context, resumeText, position string) Result {
	res := s.generate(ctx, resumeText, position)
	metrics.IncQuestionGeneration(res.Source)
	return res
}

func (s *Service) generate(ctx context.Context, resumeText, position string) Result {
	if !llm.Configured(s.LLM) {
		return Result{Questions: Templates(), Source: SourceTemplate}
	}

	raw, err := s.complete(ctx, resumeText, position)
	if err != nil {
		metrics.IncLLMFallback("generate_questions")
		telemetry.Info("questions.fallback", map[string]any{
			"reason": "provider_error",
			"error":  err,
		})
		return Result{Questions: Templates(), Source: SourceTemplate}
	}

	if items, ok := ParseJSON(raw); ok {
		return Result{Questions: normalize(items), Source: SourceLLM}
	}
	if lines := ParseLines(raw); len(lines) > 0 {
		telemetry.Info("questions.malformed_output", map[string]any{
			"lines":   len(lines),
			"preview": telemetry.TruncateForLog(raw, 200),
		})
		return Result{Questions: normalize(lines), Source: SourceLLMLines}
	}

	metrics.IncLLMFallback("generate_questions")
	telemetry.Info("questions.fallback", map[string]any{
		"reason": "malformed_output",
		"error":  ErrMalformedOutput,
	})
	return Result{Questions: Templates(), Source: SourceTemplate}
}

func (s *Service) complete(ctx context.Context, resumeText, position string) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.LLM.Complete(callCtx, llm.Request{
		Operation:   "generate_questions",
		System:      generateSystemPrompt,
		Prompt:      BuildPrompt(truncateRunes(resumeText, s.maxResumeRunes()), position),
		Temperature: llm.Float32(0.7),
		MaxTokens:   800,
	})
	metrics.ObserveLLMDurationMs(metrics.SinceMillis(start))
	return raw, err
}

func (s *Service) maxResumeRunes() int {
	if s.MaxResumeRunes > 0 {
		return s.MaxResumeRunes
	}
	return defaultMaxResumeRunes
}

// BuildPrompt renders the generation prompt.
func BuildPrompt(resumeText, position string) string {
	position = strings.TrimSpace(position)
	if position == "" {
		position = "software engineering"
	}
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		resumeText = "(no CV provided)"
	}
	return fmt.Sprintf(generatePromptTemplate, position, resumeText)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
