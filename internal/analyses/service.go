package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"interview-backend/internal/extract"
	"interview-backend/internal/llm"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
)

const (
	defaultTimeout        = 20 * time.Second
	defaultMaxResumeRunes = 12000
	maxPositionRunes      = 200
	maxFileBytes          = 10 << 20
)

const analyzeSystemPrompt = "You are an expert HR professional analyzing CVs. Extract key information in a structured format."

const analyzePromptTemplate = `Analyze this CV for a %s position and extract:
1. Skills (as an array of short strings)
2. Experience highlights (as an array of strings)
3. Education (as an array of strings)
4. A brief summary of fit for the position (two or three sentences)

CV:
%s

Respond only with a JSON object with keys: skills, experience, education, summary.`

// Service extracts a structured analysis from a résumé with an LLM.
type Service struct {
	LLM            llm.Client
	Timeout        time.Duration
	MaxResumeRunes int
}

// Analyze validates the input, extracts text from an uploaded file, and asks
// the provider for an analysis. Without a configured provider it returns
// ErrUnavailable.
func (s *Service) Analyze(ctx context.Context, in Input) (Analysis, error) {
	position := strings.TrimSpace(in.Position)
	if position == "" {
		return Analysis{}, fmt.Errorf("%w: position is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(position) > maxPositionRunes {
		return Analysis{}, fmt.Errorf("%w: position is too long", ErrInvalidInput)
	}

	resumeText, err := s.resumeText(ctx, in)
	if err != nil {
		return Analysis{}, err
	}

	if !llm.Configured(s.LLM) {
		metrics.IncCVAnalysis("unavailable")
		return Analysis{}, ErrUnavailable
	}

	raw, err := s.complete(ctx, resumeText, position)
	if err != nil {
		metrics.IncCVAnalysis("provider_error")
		telemetry.Error("analyses.provider_failed", map[string]any{"position": position, "error": err})
		return Analysis{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		metrics.IncCVAnalysis("malformed_output")
		telemetry.Info("analyses.malformed_output", map[string]any{
			"error":   err,
			"preview": telemetry.TruncateForLog(raw, 200),
		})
		return Analysis{}, err
	}
	analysis.Position = position

	metrics.IncCVAnalysis("llm")
	telemetry.Info("analyses.completed", map[string]any{
		"position":   position,
		"skills":     len(analysis.Skills),
		"experience": len(analysis.Experience),
		"education":  len(analysis.Education),
	})
	return analysis, nil
}

func (s *Service) resumeText(ctx context.Context, in Input) (string, error) {
	if in.File == nil {
		text := strings.TrimSpace(in.ResumeText)
		if text == "" {
			return "", fmt.Errorf("%w: resumeText or cv file is required", ErrInvalidInput)
		}
		return text, nil
	}
	if len(in.File.Data) == 0 {
		return "", fmt.Errorf("%w: cv file is empty", ErrInvalidInput)
	}
	if len(in.File.Data) > maxFileBytes {
		return "", fmt.Errorf("%w: cv file is too large", ErrInvalidInput)
	}
	text, err := extract.Text(ctx, in.File.Data, in.File.MimeType, in.File.FileName)
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, extract.ErrUnsupported):
		return "", fmt.Errorf("%w: unsupported cv file type", ErrInvalidInput)
	case errors.Is(err, extract.ErrNoText):
		return "", fmt.Errorf("%w: cv contains no extractable text", ErrInvalidInput)
	case ctx.Err() != nil:
		return "", ctx.Err()
	default:
		return "", fmt.Errorf("%w: cv could not be read", ErrInvalidInput)
	}
}

func (s *Service) complete(ctx context.Context, resumeText, position string) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limit := s.MaxResumeRunes
	if limit <= 0 {
		limit = defaultMaxResumeRunes
	}

	start := time.Now()
	raw, err := s.LLM.Complete(callCtx, llm.Request{
		Operation:   "analyze_cv",
		System:      analyzeSystemPrompt,
		Prompt:      BuildPrompt(truncateRunes(resumeText, limit), position),
		Temperature: llm.Float32(0.3),
		MaxTokens:   1000,
		JSON:        true,
	})
	metrics.ObserveLLMDurationMs(metrics.SinceMillis(start))
	return raw, err
}

// BuildPrompt renders the analysis prompt.
func BuildPrompt(resumeText, position string) string {
	return fmt.Sprintf(analyzePromptTemplate, strings.TrimSpace(position), strings.TrimSpace(resumeText))
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
