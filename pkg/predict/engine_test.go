package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutok/kanakey/pkg/dictionary"
	"github.com/mizutok/kanakey/pkg/kanji"
	"github.com/mizutok/kanakey/pkg/rules"
)

// fakeScorer returns a fixed distribution regardless of input.
type fakeScorer struct {
	tokens []TokenProb
	err    error
	calls  int
	lastK  int
}

func (f *fakeScorer) TopK(text string, k int, temperature float64) ([]TokenProb, error) {
	f.calls++
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	if len(f.tokens) > k {
		return f.tokens[:k], nil
	}
	return f.tokens, nil
}

func newTestRules(t *testing.T) *rules.Engine {
	t.Helper()
	engine, err := rules.NewEngine(rules.DefaultConfig())
	require.NoError(t, err)
	return engine
}

func TestDictionaryCandidatesFirst(t *testing.T) {
	dict := dictionary.New()
	dict.Add("ty", "thank you", 1)
	scorer := &fakeScorer{tokens: []TokenProb{
		{Text: "typical", Probability: 0.6},
		{Text: "typing speed", Probability: 0.3},
	}}
	engine := NewEngine(dict, scorer, newTestRules(t), nil)

	got := engine.Predict("ty", "en", 5, 1.0, true)
	require.NotEmpty(t, got)
	assert.Equal(t, "thank you", got[0].Surface)
	assert.Equal(t, SourceDictionary, got[0].Source)
	assert.Equal(t, 1.0, got[0].Score)
	assert.Equal(t, 10, scorer.lastK) // 2*topK fetched from the model
}

func TestIncludeCustomDisabled(t *testing.T) {
	dict := dictionary.New()
	dict.Add("ty", "thank you", 1)
	scorer := &fakeScorer{tokens: []TokenProb{{Text: "typical words", Probability: 0.9}}}
	engine := NewEngine(dict, scorer, newTestRules(t), nil)

	got := engine.Predict("ty", "en", 5, 1.0, false)
	require.Len(t, got, 1)
	assert.Equal(t, SourceModel, got[0].Source)
}

func TestExactStringDedup(t *testing.T) {
	dict := dictionary.New()
	dict.Add("omw", "on my way", 1)
	scorer := &fakeScorer{tokens: []TokenProb{
		{Text: "on my way", Probability: 0.7},
		{Text: "onward march", Probability: 0.2},
	}}
	engine := NewEngine(dict, scorer, newTestRules(t), nil)

	got := engine.Predict("omw", "en", 5, 1.0, true)
	surfaces := make([]string, len(got))
	for i, c := range got {
		surfaces[i] = c.Surface
	}
	require.Equal(t, []string{"on my way", "onward march"}, surfaces)
	assert.Equal(t, SourceDictionary, got[0].Source)
}

func TestTopKCap(t *testing.T) {
	dict := dictionary.New()
	for _, e := range []struct{ k, v string }{
		{"aa", "alpha one"}, {"ab", "alpha two"}, {"ac", "alpha three"},
	} {
		dict.Add(e.k, e.v, 1)
	}
	scorer := &fakeScorer{tokens: []TokenProb{
		{Text: "apple pie", Probability: 0.4},
		{Text: "around here", Probability: 0.3},
	}}
	engine := NewEngine(dict, scorer, newTestRules(t), nil)

	got := engine.Predict("a", "en", 2, 1.0, true)
	assert.Len(t, got, 2)

	got = engine.Predict("a", "en", 0, 1.0, true)
	assert.Empty(t, got)
}

func TestScorerFailureDegrades(t *testing.T) {
	dict := dictionary.New()
	dict.Add("brb", "be right back", 1)
	scorer := &fakeScorer{err: ErrScorerUnavailable}
	engine := NewEngine(dict, scorer, newTestRules(t), nil)

	got := engine.Predict("brb", "en", 5, 1.0, true)
	require.Len(t, got, 1)
	assert.Equal(t, "be right back", got[0].Surface)
	assert.Equal(t, SourceDictionary, got[0].Source)
}

func TestDisabledScorer(t *testing.T) {
	engine := NewEngine(dictionary.New(), DisabledScorer{}, newTestRules(t), nil)
	assert.Empty(t, engine.Predict("anything", "en", 5, 1.0, true))
}

func TestDeterministicOutput(t *testing.T) {
	dict := dictionary.New()
	dict.Add("id", "I don't know", 1)
	scorer := &fakeScorer{tokens: []TokenProb{
		{Text: "ideal weather", Probability: 0.5},
		{Text: "idea for this", Probability: 0.3},
		{Text: "identical twins", Probability: 0.2},
	}}
	engine := NewEngine(dict, scorer, newTestRules(t), nil)

	first := engine.Predict("id", "en", 4, 1.0, true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, engine.Predict("id", "en", 4, 1.0, true))
	}
}

func TestSuppressedTokenRanksLower(t *testing.T) {
	scorer := &fakeScorer{tokens: []TokenProb{
		{Text: "whom shall we", Probability: 0.5},
		{Text: "going home now", Probability: 0.4},
	}}
	cfg := rules.DefaultConfig()
	cfg.Languages["en"] = rules.RuleSet{
		SuppressTokens: []string{"whom shall we"},
		SuppressWeight: -1.0,
	}
	ruleEngine, err := rules.NewEngine(cfg)
	require.NoError(t, err)
	engine := NewEngine(dictionary.New(), scorer, ruleEngine, nil)

	got := engine.Predict("x y", "en", 5, 1.0, false)
	require.Len(t, got, 2)
	assert.Equal(t, "going home now", got[0].Surface)
}

func TestContextCandidatesForJapanese(t *testing.T) {
	store, err := kanji.DefaultStore()
	require.NoError(t, err)
	engine := NewEngine(dictionary.New(), DisabledScorer{}, newTestRules(t), kanji.NewScorer(store))

	ctx := &kanji.Context{Preceding: "お祈りをして"}
	got := engine.PredictWithContext("かみ", "ja", ctx, 5, 1.0, true)
	require.NotEmpty(t, got)
	assert.Equal(t, "神", got[0].Surface)
	assert.Equal(t, SourceContext, got[0].Source)

	// kanji scorer is not consulted for other languages
	got = engine.PredictWithContext("かみ", "en", ctx, 5, 1.0, false)
	assert.Empty(t, got)
}
