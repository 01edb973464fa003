package main

// Try question generation, answer evaluation and CV analysis against the configured provider:
//   go run ./cmd/prompttest -resume ./cv.pdf -position "Backend Engineer" -answer "..." -analyze

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"interview-backend/internal/analyses"
	"interview-backend/internal/bootstrap"
	"interview-backend/internal/evaluation"
	"interview-backend/internal/extract"
	"interview-backend/internal/questions"
	"interview-backend/internal/scoring"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/telemetry"
)

type report struct {
	Provider   string             `json:"provider"`
	Model      string             `json:"model"`
	Questions  questions.Result   `json:"questions"`
	Evaluation *evaluation.Result `json:"evaluation,omitempty"`
	Analysis   *analyses.Analysis `json:"analysis,omitempty"`
	// AnalysisError is set when -analyze was requested and failed.
	AnalysisError string `json:"analysisError,omitempty"`
}

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to CV file (pdf, docx or txt), optional")
	position := flag.String("position", "", "Target position")
	answer := flag.String("answer", "", "Answer to evaluate against the first generated question (optional)")
	outPath := flag.String("out", "", "Path to write the JSON report (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (none, openai, gemini)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	analyze := flag.Bool("analyze", false, "Also run CV analysis (requires -resume)")
	debug := flag.Bool("debug", cfg.LogDebug, "Log prompts and responses")
	flag.Parse()

	_ = telemetry.Init(telemetry.Options{JSON: false, Debug: *debug})
	defer telemetry.Sync()

	if strings.TrimSpace(*position) == "" {
		exitErr("position is required")
	}

	ctx := context.Background()
	resumeText := ""
	if strings.TrimSpace(*resumePath) != "" {
		data, err := os.ReadFile(*resumePath)
		if err != nil {
			exitErr(fmt.Sprintf("read cv: %v", err))
		}
		resumeText, err = extract.Text(ctx, data, "", filepath.Base(*resumePath))
		if err != nil {
			exitErr(fmt.Sprintf("extract cv text: %v", err))
		}
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(*provider))
	cfg.LLMModel = *model
	client := bootstrap.NewLLMClient(ctx, cfg)

	out := report{Provider: cfg.LLMProvider, Model: cfg.LLMModel}
	generator := &questions.Service{LLM: client, Timeout: cfg.LLMTimeout}
	out.Questions = generator.Generate(ctx, resumeText, *position)

	if strings.TrimSpace(*answer) != "" {
		evaluator := evaluation.NewService(client, evaluation.HeuristicEvaluator{Scorer: scoring.NewScorer(scoring.DefaultConfig(), scoring.WithoutJitter())}, cfg.LLMTimeout)
		res := evaluator.Evaluate(ctx, out.Questions.Questions[0], *answer, true)
		out.Evaluation = &res
	}

	if *analyze {
		analyzer := &analyses.Service{LLM: client, Timeout: cfg.LLMTimeout}
		res, err := analyzer.Analyze(ctx, analyses.Input{ResumeText: resumeText, Position: *position})
		if err != nil {
			out.AnalysisError = err.Error()
		} else {
			out.Analysis = &res
		}
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("marshal report: %v", err))
	}
	if strings.TrimSpace(*outPath) != "" {
		if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	fmt.Println(string(payload))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
