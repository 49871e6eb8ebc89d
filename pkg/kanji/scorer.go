package kanji

import (
	"sort"
	"strings"
)

// Bonus values for context-driven scoring. The compound-continuation bonus
// outweighs topical matches: an adjacent character forming a recognized
// compound is a direct compositional signal.
const (
	tagBonus = 500

	// maxCandidates caps Suggest output.
	maxCandidates = 10
)

// Scorer ranks surface forms for a reading using frequency plus
// context-driven bonuses from the store's rule tables.
type Scorer struct {
	store *Store
	limit int
}

// NewScorer wraps a store. A non-positive limit uses the default of 10.
func NewScorer(store *Store) *Scorer {
	return &Scorer{store: store, limit: maxCandidates}
}

// Suggest returns ranked surface forms for reading. Compound-dictionary
// entries short-circuit homonym scoring and keep their verbatim order.
// The raw reading is appended as a fallback when absent, and the result is
// truncated to the scorer's limit.
func (s *Scorer) Suggest(reading string, ctx *Context) []string {
	if reading == "" {
		return nil
	}

	var surfaces []string
	if compounds := s.store.Compounds(reading); len(compounds) > 0 {
		surfaces = append(surfaces, compounds...)
	} else {
		surfaces = s.scoreHomonyms(reading, ctx)
	}

	if !contains(surfaces, reading) {
		surfaces = append(surfaces, reading)
	}
	if len(surfaces) > s.limit {
		surfaces = surfaces[:s.limit]
	}
	return surfaces
}

// scoreHomonyms ranks the reading's homonym options by frequency plus
// context bonuses. The sort is stable so ties keep dictionary order.
func (s *Scorer) scoreHomonyms(reading string, ctx *Context) []string {
	options := s.store.Options(reading)
	if len(options) == 0 {
		return nil
	}

	scores := make([]int, len(options))
	for i, opt := range options {
		scores[i] = opt.Frequency
		if ctx != nil {
			scores[i] += s.contextBonus(opt, ctx)
		}
	}

	order := make([]int, len(options))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	surfaces := make([]string, 0, len(options))
	for _, idx := range order {
		surfaces = append(surfaces, options[idx].Surface)
	}
	return surfaces
}

func (s *Scorer) contextBonus(opt Option, ctx *Context) int {
	preceding := strings.ToLower(ctx.Preceding)
	following := strings.ToLower(ctx.Following)
	bonus := 0

	for _, tag := range opt.ContextTags {
		tag = strings.ToLower(tag)
		if tag == "" {
			continue
		}
		if strings.Contains(preceding, tag) || strings.Contains(following, tag) {
			bonus += tagBonus
		}
	}

	if preceding != "" {
		for _, rule := range s.store.contextRules {
			if rule.TargetSurface != opt.Surface {
				continue
			}
			if anySubstring(preceding, rule.Triggers) {
				bonus += rule.Bonus
			}
		}
		for _, rule := range s.store.precedingRules {
			if rule.TargetSurface == opt.Surface && strings.HasSuffix(preceding, rule.Adjacent) {
				bonus += rule.Bonus
			}
		}
	}

	if following != "" {
		for _, rule := range s.store.followingRules {
			if rule.TargetSurface == opt.Surface && strings.HasPrefix(following, rule.Adjacent) {
				bonus += rule.Bonus
			}
		}
	}

	return bonus
}

func anySubstring(text string, triggers []string) bool {
	for _, trigger := range triggers {
		if trigger != "" && strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
