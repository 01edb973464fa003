package scoring

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BandCount is the number of bands above the floor band (2..9).
const BandCount = 8

// ErrInvalidConfig is returned when a threshold table fails validation.
var ErrInvalidConfig = errors.New("invalid scoring config")

// Threshold is the minimum an answer must reach to enter a band.
type Threshold struct {
	MinChars int `yaml:"min_chars"`
	MinWords int `yaml:"min_words"`
}

// Config is the banding table. Thresholds[i] gates band i+2.
type Config struct {
	Thresholds []Threshold `yaml:"thresholds"`
}

// DefaultConfig returns the built-in threshold table.
//
//	band  chars  words
//	2     20     3
//	3     40     6
//	4     60     10
//	5     100    16
//	6     150    24
//	7     200    32
//	8     275    45
//	9     350    60
func DefaultConfig() Config {
	return Config{Thresholds: []Threshold{
		{MinChars: 20, MinWords: 3},
		{MinChars: 40, MinWords: 6},
		{MinChars: 60, MinWords: 10},
		{MinChars: 100, MinWords: 16},
		{MinChars: 150, MinWords: 24},
		{MinChars: 200, MinWords: 32},
		{MinChars: 275, MinWords: 45},
		{MinChars: 350, MinWords: 60},
	}}
}

// Validate checks that there are exactly BandCount thresholds, strictly
// ascending in both columns.
func (c Config) Validate() error {
	if len(c.Thresholds) != BandCount {
		return fmt.Errorf("%w: expected %d thresholds, got %d", ErrInvalidConfig, BandCount, len(c.Thresholds))
	}
	prev := Threshold{MinChars: 0, MinWords: 0}
	for i, th := range c.Thresholds {
		if th.MinChars <= 0 || th.MinWords <= 0 {
			return fmt.Errorf("%w: band %d thresholds must be positive", ErrInvalidConfig, i+2)
		}
		if i > 0 && (th.MinChars <= prev.MinChars || th.MinWords <= prev.MinWords) {
			return fmt.Errorf("%w: band %d thresholds must be strictly ascending", ErrInvalidConfig, i+2)
		}
		prev = th
	}
	return nil
}

// LoadConfig reads a YAML threshold table. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scoring config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML threshold table.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
