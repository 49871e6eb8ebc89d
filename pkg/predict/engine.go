/*
Package predict merges candidate sources into one ranked suggestion list.

Three sources feed the merge: the user's custom dictionary (always first,
confidence 1.0), the kanji context scorer (reading conversion for Japanese
input), and the statistical model behind the Scorer interface. Model output
is rule-biased and no-mean filtered before merging. Candidates dedupe on
the exact surface string and the result never exceeds topK.
*/
package predict

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/mizutok/kanakey/internal/logger"
	"github.com/mizutok/kanakey/internal/utils"
	"github.com/mizutok/kanakey/pkg/dictionary"
	"github.com/mizutok/kanakey/pkg/kanji"
	"github.com/mizutok/kanakey/pkg/rules"
)

// Source identifies where a candidate came from.
type Source int

const (
	SourceDictionary Source = iota
	SourceContext
	SourceModel
)

// String returns the source name for logs and responses.
func (s Source) String() string {
	switch s {
	case SourceDictionary:
		return "dictionary"
	case SourceContext:
		return "context"
	case SourceModel:
		return "model"
	}
	return "unknown"
}

// Candidate is one ranked suggestion. Score is only comparable within a
// source: dictionary candidates carry 1.0, model candidates their
// renormalized probability. Context candidates carry 0; their ranking is
// positional, decided inside the kanji scorer.
type Candidate struct {
	Surface string
	Score   float64
	Source  Source
}

// Engine combines the custom dictionary, the kanji context scorer, and the
// model scorer. The kanji scorer is optional and only consulted for
// languages in kanjiLanguages.
type Engine struct {
	dict   *dictionary.Dictionary
	scorer Scorer
	rules  *rules.Engine
	kanji  *kanji.Scorer
	log    *log.Logger
}

// NewEngine wires the candidate sources. kanjiScorer may be nil.
func NewEngine(dict *dictionary.Dictionary, scorer Scorer, ruleEngine *rules.Engine, kanjiScorer *kanji.Scorer) *Engine {
	return &Engine{
		dict:   dict,
		scorer: scorer,
		rules:  ruleEngine,
		kanji:  kanjiScorer,
		log:    logger.New("predict"),
	}
}

// Predict returns up to topK candidates for text without surrounding
// context.
func (e *Engine) Predict(text, lang string, topK int, temperature float64, includeCustom bool) []Candidate {
	return e.PredictWithContext(text, lang, nil, topK, temperature, includeCustom)
}

// PredictWithContext returns up to topK candidates, using ctx for homonym
// disambiguation when a kanji scorer is attached and lang uses it.
// Deterministic for identical inputs, dictionary state, rules, and scorer
// output. Scorer failure degrades to the remaining sources.
func (e *Engine) PredictWithContext(text, lang string, ctx *kanji.Context, topK int, temperature float64, includeCustom bool) []Candidate {
	if topK <= 0 {
		return nil
	}
	activeToken := utils.LastField(text)

	var dictMatches []string
	if includeCustom && activeToken != "" {
		dictMatches = e.dict.PrefixSearch(activeToken, topK)
	}

	var contextSurfaces []string
	if e.kanji != nil && lang == "ja" {
		contextSurfaces = e.kanji.Suggest(activeToken, ctx)
	}

	modelPreds := e.modelPredictions(text, lang, 2*topK, temperature)

	results := make([]Candidate, 0, topK)
	seen := make(map[string]struct{})
	emit := func(c Candidate) bool {
		if _, dup := seen[c.Surface]; dup {
			return len(results) < topK
		}
		seen[c.Surface] = struct{}{}
		results = append(results, c)
		return len(results) < topK
	}

	for _, value := range dictMatches {
		if !emit(Candidate{Surface: value, Score: 1.0, Source: SourceDictionary}) {
			return results
		}
	}
	for _, surface := range contextSurfaces {
		if !emit(Candidate{Surface: surface, Score: 0, Source: SourceContext}) {
			return results
		}
	}
	for _, p := range modelPreds {
		if !emit(Candidate{Surface: p.Text, Score: p.Confidence, Source: SourceModel}) {
			return results
		}
	}
	return results
}

// modelPredictions fetches k scorer candidates, rebiases the distribution
// with the language rules, renormalizes, and applies the no-mean filter.
func (e *Engine) modelPredictions(text, lang string, k int, temperature float64) []rules.Prediction {
	tokens, err := e.scorer.TopK(text, k, temperature)
	if err != nil {
		// Degrade to the other sources rather than failing the request.
		e.log.Warnf("Scorer unavailable, serving without model candidates: %v", err)
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}

	logits := make([]float64, len(tokens))
	texts := make([]string, len(tokens))
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		logits[i] = math.Log(tok.Probability + 1e-10)
		texts[i] = tok.Text
		ids[i] = i
	}

	e.rules.ApplyRules(logits, ids, texts, lang)

	sum := 0.0
	probs := make([]float64, len(logits))
	for i, l := range logits {
		probs[i] = math.Exp(l)
		sum += probs[i]
	}
	preds := make([]rules.Prediction, len(tokens))
	for i := range tokens {
		confidence := 0.0
		if sum > 0 {
			confidence = probs[i] / sum
		}
		preds[i] = rules.Prediction{Text: texts[i], Confidence: confidence}
	}

	// Biasing can reorder the distribution; stable sort keeps scorer order
	// among equals so output stays deterministic.
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})

	return e.rules.FilterPredictions(preds, lang)
}
