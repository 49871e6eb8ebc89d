/*
Package kanji converts phonetic readings to ranked surface-form candidates.

A reading (hiragana string) maps to homonym options carrying a base
frequency and context tags. Disambiguation is entirely data driven: context
tags, preceding-context trigger rules, and compound-continuation rules are
loaded from versioned JSON resources, so new rules are data additions, not
code changes. Builtin copies of all four resources are embedded and used
when no override file exists on disk.
*/
package kanji

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// FormatVersion is the schema version shared by all kanji resource files.
const FormatVersion = "1.0"

// Resource file names, both embedded and on disk.
const (
	HomonymFile      = "kanji_dictionary.json"
	CompoundFile     = "compound_words.json"
	ContextRuleFile  = "context_rules.json"
	CompoundRuleFile = "compound_rules.json"
)

//go:embed data/*.json
var builtin embed.FS

// Option is one surface-form candidate for a reading.
type Option struct {
	Surface     string   `json:"surface"`
	Meaning     string   `json:"meaning,omitempty"`
	Frequency   int      `json:"frequency"`
	ContextTags []string `json:"context,omitempty"`
}

// ContextRule grants Bonus to TargetSurface when any trigger substring
// occurs in the preceding text.
type ContextRule struct {
	Triggers      []string `json:"triggers"`
	TargetSurface string   `json:"surface"`
	Bonus         int      `json:"bonus"`
}

// CompoundRule grants Bonus to TargetSurface when the adjacent text forms
// a known compound with it: for preceding rules the preceding text must end
// with Adjacent, for following rules the following text must start with it.
type CompoundRule struct {
	Adjacent      string `json:"adjacent"`
	TargetSurface string `json:"surface"`
	Bonus         int    `json:"bonus"`
}

type homonymFile struct {
	Version  string `json:"version"`
	Readings map[string]struct {
		Options []Option `json:"options"`
	} `json:"readings"`
}

type compoundFile struct {
	Version  string              `json:"version"`
	Readings map[string][]string `json:"readings"`
}

type contextRuleFile struct {
	Version string        `json:"version"`
	Rules   []ContextRule `json:"rules"`
}

type compoundRuleFile struct {
	Version   string         `json:"version"`
	Preceding []CompoundRule `json:"preceding"`
	Following []CompoundRule `json:"following"`
}

// Store holds the loaded homonym dictionary, compound dictionary, and
// disambiguation rule tables. Immutable after load.
type Store struct {
	homonyms       map[string][]Option
	compounds      map[string][]string
	contextRules   []ContextRule
	precedingRules []CompoundRule
	followingRules []CompoundRule
}

// DefaultStore loads the embedded builtin resources.
func DefaultStore() (*Store, error) {
	return load(func(name string) ([]byte, error) {
		return builtin.ReadFile("data/" + name)
	})
}

// LoadStore loads resources from dir, falling back to the embedded builtin
// for any file that does not exist there.
func LoadStore(dir string) (*Store, error) {
	return load(func(name string) ([]byte, error) {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if os.IsNotExist(err) {
			log.Debugf("No %s in %s, using builtin", name, dir)
			return builtin.ReadFile("data/" + name)
		}
		return nil, err
	})
}

func load(read func(name string) ([]byte, error)) (*Store, error) {
	s := &Store{}

	var hf homonymFile
	var cf compoundFile
	var crf contextRuleFile
	var cpf compoundRuleFile

	var g errgroup.Group
	g.Go(func() error { return decodeResource(read, HomonymFile, &hf) })
	g.Go(func() error { return decodeResource(read, CompoundFile, &cf) })
	g.Go(func() error { return decodeResource(read, ContextRuleFile, &crf) })
	g.Go(func() error { return decodeResource(read, CompoundRuleFile, &cpf) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.homonyms = make(map[string][]Option, len(hf.Readings))
	for reading, entry := range hf.Readings {
		s.homonyms[reading] = dedupeOptions(reading, entry.Options)
	}
	s.compounds = cf.Readings
	s.contextRules = crf.Rules
	s.precedingRules = cpf.Preceding
	s.followingRules = cpf.Following

	log.Debugf("Kanji store loaded: %d readings, %d compounds, %d context rules",
		len(s.homonyms), len(s.compounds), len(s.contextRules))
	return s, nil
}

func decodeResource(read func(name string) ([]byte, error), name string, v interface{}) error {
	data, err := read(name)
	if err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	version := gjson.GetBytes(data, "version").String()
	if version != "" && version != FormatVersion {
		return errors.Errorf("%s: unsupported version %q (want %q)", name, version, FormatVersion)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "parsing %s", name)
	}
	return nil
}

// dedupeOptions drops later options repeating a surface form, keeping the
// invariant that one reading never lists the same surface twice.
func dedupeOptions(reading string, options []Option) []Option {
	seen := make(map[string]struct{}, len(options))
	out := options[:0:0]
	for _, opt := range options {
		if _, dup := seen[opt.Surface]; dup {
			log.Warnf("Duplicate surface %q for reading %q dropped", opt.Surface, reading)
			continue
		}
		seen[opt.Surface] = struct{}{}
		out = append(out, opt)
	}
	return out
}

// Options returns the homonym options for reading, nil when unknown.
func (s *Store) Options(reading string) []Option {
	return s.homonyms[reading]
}

// Compounds returns the compound surface forms for reading, nil when absent.
func (s *Store) Compounds(reading string) []string {
	return s.compounds[reading]
}

// Readings reports the number of homonym readings loaded.
func (s *Store) Readings() int {
	return len(s.homonyms)
}
