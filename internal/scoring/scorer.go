package scoring

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinScore = 1
	MaxScore = 10
)

// Result is a scored answer.
type Result struct {
	Score        int
	Feedback     string
	Strengths    []string
	Improvements []string
}

// JitterFunc returns an offset in {-1, 0, +1}.
type JitterFunc func() int

// Scorer maps answer text to a banded score. It has no side effects.
type Scorer struct {
	cfg    Config
	jitter JitterFunc
}

// Option customizes a Scorer.
type Option func(*Scorer)

// WithJitter replaces the random jitter source.
func WithJitter(fn JitterFunc) Option {
	return func(s *Scorer) {
		s.jitter = fn
	}
}

// WithoutJitter disables jitter.
func WithoutJitter() Option {
	return WithJitter(func() int { return 0 })
}

// NewScorer builds a scorer from a validated config. An invalid config falls
// back to the defaults.
func NewScorer(cfg Config, opts ...Option) *Scorer {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	s := &Scorer{cfg: cfg, jitter: randomJitter}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomJitter() int {
	return rand.IntN(3) - 1
}

// Score evaluates answer.
func (s *Scorer) Score(answer string) Result {
	band := s.Band(answer)
	score := clamp(band+s.offset(), MinScore, MaxScore)
	fb := feedbackFor(score)
	return Result{
		Score:        score,
		Feedback:     fb.feedback,
		Strengths:    copyList(fb.strengths),
		Improvements: copyList(fb.improvements),
	}
}

// Band returns the unjittered band (1..9) for answer.
func (s *Scorer) Band(answer string) int {
	trimmed := strings.TrimSpace(answer)
	chars := utf8.RuneCountInString(trimmed)
	words := MeaningfulWords(trimmed)

	band := 1
	for i, th := range s.cfg.Thresholds {
		if chars >= th.MinChars && words >= th.MinWords {
			band = i + 2
		}
	}
	return band
}

func (s *Scorer) offset() int {
	if s.jitter == nil {
		return 0
	}
	return clamp(s.jitter(), -1, 1)
}

// MeaningfulWords counts whitespace-delimited tokens holding at least two
// consecutive letters.
func MeaningfulWords(text string) int {
	count := 0
	for _, token := range strings.Fields(text) {
		run := 0
		for _, r := range token {
			if !unicode.IsLetter(r) {
				run = 0
				continue
			}
			run++
			if run >= 2 {
				count++
				break
			}
		}
	}
	return count
}

// copyList returns a non-nil copy of items.
func copyList(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
