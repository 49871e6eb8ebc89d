/*
Package rules applies per-language biasing to model output and filters
meaningless predictions.

Each language carries a RuleSet of boost/suppress token lists with additive
logit weights, plus emoji and formality hints. The no-mean filter is shared
across languages. Rule configuration lives in a YAML file matching the
schema of language_rules.yaml; see DefaultConfig for the builtin set.
*/
package rules

import (
	"github.com/charmbracelet/log"
)

// Prediction pairs a candidate text with its model confidence.
type Prediction struct {
	Text       string
	Confidence float64
}

// RuleSet holds per-language biasing rules.
type RuleSet struct {
	BoostTokens    []string `yaml:"boost_tokens"`
	SuppressTokens []string `yaml:"suppress_tokens"`
	BoostWeight    float64  `yaml:"boost_weight"`
	SuppressWeight float64  `yaml:"suppress_weight"`
	EmojiFrequency string   `yaml:"emoji_frequency"`
	Formality      string   `yaml:"formality"`
}

// Engine applies language rule sets to logits and prediction lists.
type Engine struct {
	cfg      Config
	filter   *NoMeanFilter
	boost    map[string]map[string]struct{}
	suppress map[string]map[string]struct{}
}

// NewEngine builds an engine from config, compiling the no-mean filter
// and indexing the token lists.
func NewEngine(cfg Config) (*Engine, error) {
	filter, err := NewNoMeanFilter(cfg.NoMeanFilter)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		filter:   filter,
		boost:    make(map[string]map[string]struct{}, len(cfg.Languages)),
		suppress: make(map[string]map[string]struct{}, len(cfg.Languages)),
	}
	for lang, rules := range cfg.Languages {
		e.boost[lang] = tokenSet(rules.BoostTokens)
		e.suppress[lang] = tokenSet(rules.SuppressTokens)
	}
	return e, nil
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Languages lists the configured language codes.
func (e *Engine) Languages() []string {
	langs := make([]string, 0, len(e.cfg.Languages))
	for lang := range e.cfg.Languages {
		langs = append(langs, lang)
	}
	return langs
}

// HasLanguage reports whether a rule set exists for lang.
func (e *Engine) HasLanguage(lang string) bool {
	_, ok := e.cfg.Languages[lang]
	return ok
}

// Filter exposes the shared no-mean filter.
func (e *Engine) Filter() *NoMeanFilter {
	return e.filter
}

// ApplyRules adds the language's boost/suppress weights to logits in place
// and returns the slice. Token texts drive the matching; token ids must be
// aligned with logits. The caller renormalizes afterwards.
func (e *Engine) ApplyRules(logits []float64, tokenIDs []int, tokenTexts []string, lang string) []float64 {
	rules, ok := e.cfg.Languages[lang]
	if !ok {
		return logits
	}
	if len(tokenTexts) != len(logits) || len(tokenIDs) != len(logits) {
		log.Errorf("Rule biasing skipped: %d logits, %d ids, %d texts", len(logits), len(tokenIDs), len(tokenTexts))
		return logits
	}

	boost := e.boost[lang]
	suppress := e.suppress[lang]
	for i, text := range tokenTexts {
		if _, ok := boost[text]; ok {
			logits[i] += rules.BoostWeight
		} else if _, ok := suppress[text]; ok {
			logits[i] += rules.SuppressWeight
		}
	}
	return logits
}

// FilterPredictions drops predictions the no-mean filter rejects.
func (e *Engine) FilterPredictions(predictions []Prediction, lang string) []Prediction {
	filtered := predictions[:0:0]
	for _, p := range predictions {
		if e.filter.IsMeaningful(p.Text, p.Confidence) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// EmojiFrequency returns the emoji frequency hint for lang, "medium"
// when unset.
func (e *Engine) EmojiFrequency(lang string) string {
	rules, ok := e.cfg.Languages[lang]
	if !ok || rules.EmojiFrequency == "" {
		return "medium"
	}
	return rules.EmojiFrequency
}

// ShouldBoostEmoji reports whether lang is configured for heavy emoji use.
func (e *Engine) ShouldBoostEmoji(lang string) bool {
	return e.EmojiFrequency(lang) == "high"
}

// Formality returns the formality hint for lang, "casual" when unset.
func (e *Engine) Formality(lang string) string {
	rules, ok := e.cfg.Languages[lang]
	if !ok || rules.Formality == "" {
		return "casual"
	}
	return rules.Formality
}
