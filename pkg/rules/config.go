package rules

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full rule configuration: a shared no-mean filter section
// plus one RuleSet per language code.
type Config struct {
	NoMeanFilter NoMeanConfig       `yaml:"no_mean_filter"`
	Languages    map[string]RuleSet `yaml:"languages"`
}

// DefaultConfig returns the builtin rule configuration used when no rules
// file is supplied.
func DefaultConfig() Config {
	return Config{
		NoMeanFilter: DefaultNoMeanConfig(),
		Languages: map[string]RuleSet{
			"en": {
				BoostTokens:    []string{"gonna", "wanna", "gotta", "lol", "omg"},
				SuppressTokens: []string{"whom", "thee", "thou"},
				BoostWeight:    0.5,
				SuppressWeight: -1.0,
				EmojiFrequency: "high",
				Formality:      "casual",
			},
			"ja": {
				BoostTokens:    []string{"です", "ます", "ございます"},
				SuppressTokens: []string{"だぜ", "じゃん"},
				BoostWeight:    0.5,
				SuppressWeight: -1.0,
				EmojiFrequency: "medium",
				Formality:      "polite",
			},
		},
	}
}

// LoadConfig reads a YAML rules file. Sections left out fall back to
// defaults; an unreadable or malformed file is a hard error since serving
// with half a rule set silently changes ranking.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading rules config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing rules config %s", path)
	}

	log.Debugf("Loaded rules for %d languages from %s", len(cfg.Languages), path)
	return cfg, nil
}
