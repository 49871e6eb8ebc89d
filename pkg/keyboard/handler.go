// Package keyboard exposes the suggestion entry point a keyboard frontend
// calls on every keystroke. It ties the prediction engine, the selection
// tracker, and the language rules together behind a single handler.
package keyboard

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/mizutok/kanakey/internal/logger"
	"github.com/mizutok/kanakey/internal/utils"
	"github.com/mizutok/kanakey/pkg/kanji"
	"github.com/mizutok/kanakey/pkg/learn"
	"github.com/mizutok/kanakey/pkg/predict"
	"github.com/mizutok/kanakey/pkg/rules"
)

// Config carries the handler knobs. Zero values fall back to defaults.
type Config struct {
	MaxSuggestions  int
	DefaultLanguage string
	WindowRunes     int
	Temperature     float64
}

// DefaultConfig returns the handler defaults used when no config file is
// present.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions:  5,
		DefaultLanguage: "en",
		WindowRunes:     kanji.DefaultWindowRunes,
		Temperature:     1.0,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = def.MaxSuggestions
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = def.DefaultLanguage
	}
	if c.WindowRunes <= 0 {
		c.WindowRunes = def.WindowRunes
	}
	if c.Temperature <= 0 {
		c.Temperature = def.Temperature
	}
	return c
}

// Handler serves ranked suggestions for the current input buffer and feeds
// accepted selections back into the tracker.
type Handler struct {
	mu      sync.RWMutex
	engine  *predict.Engine
	tracker *learn.Tracker
	rules   *rules.Engine
	cfg     Config
	lang    string
	log     *log.Logger
}

// NewHandler wires the suggestion pipeline. tracker may be nil, which
// disables self-learning reranking.
func NewHandler(engine *predict.Engine, tracker *learn.Tracker, ruleEngine *rules.Engine, cfg Config) *Handler {
	cfg = cfg.withDefaults()
	return &Handler{
		engine:  engine,
		tracker: tracker,
		rules:   ruleEngine,
		cfg:     cfg,
		lang:    cfg.DefaultLanguage,
		log:     logger.New("keyboard"),
	}
}

// Language returns the active language code.
func (h *Handler) Language() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lang
}

// SwitchLanguage activates lang for subsequent requests. Unknown languages
// are rejected and the previous language stays active.
func (h *Handler) SwitchLanguage(lang string) error {
	if !h.rules.HasLanguage(lang) {
		return errors.Errorf("no rules for language %q", lang)
	}
	h.mu.Lock()
	h.lang = lang
	h.mu.Unlock()
	h.log.Debug("language switched", "lang", lang)
	return nil
}

// GetSuggestions returns up to max ranked candidates for input, using
// context (the text preceding the cursor) for homonym disambiguation and
// selection reranking. max <= 0 falls back to the configured maximum.
// Inputs that look like keyboard mashing and draw nothing but their own
// echo return an empty list.
func (h *Handler) GetSuggestions(input, context string, max int) []predict.Candidate {
	if max <= 0 || max > h.cfg.MaxSuggestions {
		max = h.cfg.MaxSuggestions
	}
	lang := h.Language()

	window := kanji.WindowFromCursor(context, len([]rune(context)), h.cfg.WindowRunes)
	candidates := h.engine.PredictWithContext(input, lang, &window, max, h.cfg.Temperature, true)

	active := utils.LastField(input)
	if len(candidates) == 1 && candidates[0].Surface == active && likelyGarbage(active) {
		h.log.Debug("input rejected as garbage", "input", active)
		return nil
	}

	return h.rerank(context, candidates)
}

// rerank reorders candidates by the tracker's selection counts for this
// context, keeping the engine order for unseen candidates.
func (h *Handler) rerank(context string, candidates []predict.Candidate) []predict.Candidate {
	if h.tracker == nil || len(candidates) < 2 {
		return candidates
	}

	surfaces := make([]string, len(candidates))
	bySurface := make(map[string]predict.Candidate, len(candidates))
	for i, c := range candidates {
		surfaces[i] = c.Surface
		bySurface[c.Surface] = c
	}

	ranked := h.tracker.Rerank(context, surfaces)
	out := make([]predict.Candidate, len(ranked))
	for i, surface := range ranked {
		out[i] = bySurface[surface]
	}
	return out
}

// RecordSelection notes that the user accepted candidate in context. The
// tracker persists its counts on its own flush schedule.
func (h *Handler) RecordSelection(context, candidate string) {
	if h.tracker == nil {
		return
	}
	h.tracker.RecordSelection(context, candidate)
}

// Save forces the tracker's pending counts to disk.
func (h *Handler) Save() error {
	if h.tracker == nil {
		return nil
	}
	return h.tracker.Flush()
}

// Close flushes and releases the tracker.
func (h *Handler) Close() error {
	if h.tracker == nil {
		return nil
	}
	return h.tracker.Close()
}
