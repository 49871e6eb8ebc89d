package keyboard

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutok/kanakey/pkg/dictionary"
	"github.com/mizutok/kanakey/pkg/kanji"
	"github.com/mizutok/kanakey/pkg/learn"
	"github.com/mizutok/kanakey/pkg/predict"
	"github.com/mizutok/kanakey/pkg/rules"
)

// echoScorer predicts the active input back at full probability, the
// degenerate behavior a model shows on out-of-vocabulary mashing.
type echoScorer struct{}

func (echoScorer) TopK(text string, k int, temperature float64) ([]predict.TokenProb, error) {
	return []predict.TokenProb{{Text: text, Probability: 1.0}}, nil
}

func newTestHandler(t *testing.T, scorer predict.Scorer, withKanji bool) *Handler {
	t.Helper()
	ruleEngine, err := rules.NewEngine(rules.DefaultConfig())
	require.NoError(t, err)

	var kanjiScorer *kanji.Scorer
	if withKanji {
		store, err := kanji.DefaultStore()
		require.NoError(t, err)
		kanjiScorer = kanji.NewScorer(store)
	}

	engine := predict.NewEngine(dictionary.New(), scorer, ruleEngine, kanjiScorer)
	tracker := learn.NewTracker(filepath.Join(t.TempDir(), "selections.json"), learn.DefaultFlushPolicy())
	return NewHandler(engine, tracker, ruleEngine, DefaultConfig())
}

func TestGarbageInputRejected(t *testing.T) {
	h := newTestHandler(t, echoScorer{}, false)

	for _, input := range []string{
		"cccccccccccccccc",
		"cacjjsacascm",
		"1238813abcbbdqudqu",
	} {
		got := h.GetSuggestions(input, "", 5)
		assert.Empty(t, got, "input %q should be rejected", input)
	}
}

func TestEchoedWordAccepted(t *testing.T) {
	h := newTestHandler(t, echoScorer{}, false)

	got := h.GetSuggestions("world", "", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "world", got[0].Surface)
}

func TestGarbageEchoThroughKanjiFallback(t *testing.T) {
	h := newTestHandler(t, predict.DisabledScorer{}, true)
	require.NoError(t, h.SwitchLanguage("ja"))

	// Unknown reading falls back to the raw input; mashing must still be
	// dropped instead of echoed.
	got := h.GetSuggestions("cacjjsacascm", "", 5)
	assert.Empty(t, got)
}

func TestKanjiSuggestionsOrdered(t *testing.T) {
	h := newTestHandler(t, predict.DisabledScorer{}, true)
	require.NoError(t, h.SwitchLanguage("ja"))

	got := h.GetSuggestions("かみ", "", 5)
	require.Len(t, got, 5)
	assert.Equal(t, "神", got[0].Surface)
	assert.Equal(t, predict.SourceContext, got[0].Source)
}

func TestContextDisambiguation(t *testing.T) {
	h := newTestHandler(t, predict.DisabledScorer{}, true)
	require.NoError(t, h.SwitchLanguage("ja"))

	got := h.GetSuggestions("かみ", "印刷した", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "紙", got[0].Surface)
}

func TestSelectionsRerankSuggestions(t *testing.T) {
	h := newTestHandler(t, predict.DisabledScorer{}, true)
	require.NoError(t, h.SwitchLanguage("ja"))

	before := h.GetSuggestions("かみ", "", 5)
	require.Len(t, before, 5)
	require.NotEqual(t, "紙", before[0].Surface)

	for i := 0; i < 3; i++ {
		h.RecordSelection("", "紙")
	}

	after := h.GetSuggestions("かみ", "", 5)
	require.Len(t, after, 5)
	assert.Equal(t, "紙", after[0].Surface)

	// Source metadata follows the candidate through the reorder.
	assert.Equal(t, predict.SourceContext, after[0].Source)
}

func TestRerankScopedToContext(t *testing.T) {
	h := newTestHandler(t, predict.DisabledScorer{}, true)
	require.NoError(t, h.SwitchLanguage("ja"))

	for i := 0; i < 5; i++ {
		h.RecordSelection("手紙を書く", "紙")
	}

	// Selections in one context must not leak into another.
	got := h.GetSuggestions("かみ", "", 5)
	require.Len(t, got, 5)
	assert.Equal(t, "神", got[0].Surface)
}

func TestMaxSuggestionsClamped(t *testing.T) {
	h := newTestHandler(t, predict.DisabledScorer{}, true)
	require.NoError(t, h.SwitchLanguage("ja"))

	got := h.GetSuggestions("かみ", "", 100)
	assert.LessOrEqual(t, len(got), DefaultConfig().MaxSuggestions)

	got = h.GetSuggestions("かみ", "", 2)
	assert.Len(t, got, 2)

	got = h.GetSuggestions("かみ", "", 0)
	assert.Len(t, got, DefaultConfig().MaxSuggestions)
}

func TestSwitchLanguage(t *testing.T) {
	h := newTestHandler(t, echoScorer{}, false)
	assert.Equal(t, "en", h.Language())

	require.NoError(t, h.SwitchLanguage("ja"))
	assert.Equal(t, "ja", h.Language())

	err := h.SwitchLanguage("xx")
	require.Error(t, err)
	assert.Equal(t, "ja", h.Language())
}

func TestNilTrackerIsInert(t *testing.T) {
	ruleEngine, err := rules.NewEngine(rules.DefaultConfig())
	require.NoError(t, err)
	engine := predict.NewEngine(dictionary.New(), echoScorer{}, ruleEngine, nil)
	h := NewHandler(engine, nil, ruleEngine, Config{})

	h.RecordSelection("", "hello")
	require.NoError(t, h.Save())
	require.NoError(t, h.Close())

	got := h.GetSuggestions("world", "", 5)
	assert.Len(t, got, 1)
}

func TestLikelyGarbage(t *testing.T) {
	garbage := []string{
		"",
		"cccccccccccccccc",
		"cacjjsacascm",
		"1238813abcbbdqudqu",
		"123456789012",
		"!!!???!!!",
	}
	for _, s := range garbage {
		assert.True(t, likelyGarbage(s), "expected %q to be garbage", s)
	}

	clean := []string{
		"hello",
		"thank",
		"かみ",
		"こんにちは",
		"don't",
	}
	for _, s := range clean {
		assert.False(t, likelyGarbage(s), "expected %q to be clean", s)
	}
}
