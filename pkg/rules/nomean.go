package rules

import (
	"math"
	"regexp"

	"github.com/pkg/errors"
)

// NoMeanConfig tunes the meaningless-input detector.
type NoMeanConfig struct {
	MinEntropy         float64  `yaml:"min_entropy"`
	MaxRepetitionRatio float64  `yaml:"max_repetition_ratio"`
	MinConfidence      float64  `yaml:"min_confidence"`
	BlockedPatterns    []string `yaml:"blocked_patterns"`
}

// DefaultNoMeanConfig returns the stock thresholds.
func DefaultNoMeanConfig() NoMeanConfig {
	return NoMeanConfig{
		MinEntropy:         2.0,
		MaxRepetitionRatio: 0.5,
		MinConfidence:      0.1,
	}
}

// NoMeanFilter rejects statistically meaningless text: low confidence,
// blocked patterns, low character entropy, or one character dominating.
// Any single check failing rejects the text.
type NoMeanFilter struct {
	cfg      NoMeanConfig
	compiled []*regexp.Regexp
}

// NewNoMeanFilter compiles the blocked patterns. A malformed pattern is a
// configuration error and fails the load.
func NewNoMeanFilter(cfg NoMeanConfig) (*NoMeanFilter, error) {
	compiled := make([]*regexp.Regexp, 0, len(cfg.BlockedPatterns))
	for _, pattern := range cfg.BlockedPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling blocked pattern %q", pattern)
		}
		compiled = append(compiled, re)
	}
	return &NoMeanFilter{cfg: cfg, compiled: compiled}, nil
}

// Entropy computes the Shannon entropy in bits of the rune distribution.
func (f *NoMeanFilter) Entropy(text string) float64 {
	counts := make(map[rune]int)
	length := 0
	for _, r := range text {
		counts[r]++
		length++
	}
	if length == 0 {
		return 0.0
	}

	entropy := 0.0
	for _, count := range counts {
		p := float64(count) / float64(length)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// RepetitionRatio returns the share of the most frequent rune.
func (f *NoMeanFilter) RepetitionRatio(text string) float64 {
	counts := make(map[rune]int)
	length := 0
	for _, r := range text {
		counts[r]++
		length++
	}
	if length == 0 {
		return 0.0
	}

	max := 0
	for _, count := range counts {
		if count > max {
			max = count
		}
	}
	return float64(max) / float64(length)
}

func (f *NoMeanFilter) matchesBlocked(text string) bool {
	for _, re := range f.compiled {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsMeaningful reports whether text passes every check at the given
// model confidence.
func (f *NoMeanFilter) IsMeaningful(text string, confidence float64) bool {
	if confidence < f.cfg.MinConfidence {
		return false
	}
	if f.matchesBlocked(text) {
		return false
	}
	if f.Entropy(text) < f.cfg.MinEntropy {
		return false
	}
	if f.RepetitionRatio(text) > f.cfg.MaxRepetitionRatio {
		return false
	}
	return true
}
