package scoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const customYAML = `
thresholds:
  - {min_chars: 10, min_words: 2}
  - {min_chars: 20, min_words: 4}
  - {min_chars: 30, min_words: 6}
  - {min_chars: 40, min_words: 8}
  - {min_chars: 50, min_words: 10}
  - {min_chars: 60, min_words: 12}
  - {min_chars: 70, min_words: 14}
  - {min_chars: 80, min_words: 16}
`

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(customYAML))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Thresholds[0] != (Threshold{MinChars: 10, MinWords: 2}) {
		t.Fatalf("unexpected first threshold %+v", cfg.Thresholds[0])
	}
	scorer := NewScorer(cfg, WithoutJitter())
	if got := scorer.Band("ab cd"); got != 1 {
		t.Fatalf("expected band 1, got %d", got)
	}
	if got := scorer.Band("ab cd......"); got != 2 {
		t.Fatalf("expected band 2, got %d", got)
	}
}

func TestParseConfigRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed", yaml: "thresholds: [1, 2"},
		{name: "empty", yaml: ""},
		{name: "too few", yaml: "thresholds:\n  - {min_chars: 10, min_words: 2}\n"},
		{name: "not ascending chars", yaml: `
thresholds:
  - {min_chars: 10, min_words: 2}
  - {min_chars: 10, min_words: 4}
  - {min_chars: 30, min_words: 6}
  - {min_chars: 40, min_words: 8}
  - {min_chars: 50, min_words: 10}
  - {min_chars: 60, min_words: 12}
  - {min_chars: 70, min_words: 14}
  - {min_chars: 80, min_words: 16}
`},
		{name: "descending words", yaml: `
thresholds:
  - {min_chars: 10, min_words: 2}
  - {min_chars: 20, min_words: 4}
  - {min_chars: 30, min_words: 3}
  - {min_chars: 40, min_words: 8}
  - {min_chars: 50, min_words: 10}
  - {min_chars: 60, min_words: 12}
  - {min_chars: 70, min_words: 14}
  - {min_chars: 80, min_words: 16}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.yaml)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig empty path: %v", err)
	}
	if len(cfg.Thresholds) != BandCount {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "scoring.yaml")
	if err := os.WriteFile(path, []byte(customYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Thresholds[BandCount-1].MinChars != 80 {
		t.Fatalf("unexpected table %+v", cfg.Thresholds)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
