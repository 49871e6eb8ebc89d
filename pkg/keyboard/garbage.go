package keyboard

import (
	"github.com/mizutok/kanakey/internal/utils"
)

// Heuristic thresholds for the secondary garbage gate. The model does most
// of the validation; these only confirm rejection when the scorer could do
// nothing but echo the input back.
const (
	minUniqueRatio     = 0.3
	maxTransitionRatio = 0.8
	maxDigitRatio      = 0.5
	maxSpecialRatio    = 0.5
	mixedDigitRatio    = 0.3
	mixedSpecialRatio  = 0.1
)

// likelyGarbage flags keyboard mashing: heavy repetition, near-random
// character flips, or digit/special-heavy mixes.
func likelyGarbage(text string) bool {
	if text == "" {
		return true
	}

	runeCount := len([]rune(text))

	// excessive repetition, e.g. "cccccccccccccccc"
	if runeCount > 3 && utils.UniqueRuneRatio(text) < minUniqueRatio {
		return true
	}

	// random character spam, e.g. "cacjjsacascm"
	if runeCount > 5 && utils.TransitionRatio(text) > maxTransitionRatio {
		return true
	}

	classes := utils.CountRuneClasses(text)
	total := float64(classes.Total)
	digitRatio := float64(classes.Digits) / total
	specialRatio := float64(classes.Special) / total

	if digitRatio > maxDigitRatio {
		return true
	}
	if specialRatio > maxSpecialRatio {
		return true
	}

	// mixed garbage: digits, letters, and specials all present with no
	// clear pattern, e.g. "1238813ab!cbbdqudqu"
	if classes.Digits > 0 && classes.Letters > 0 && classes.Special > 0 {
		if digitRatio > mixedDigitRatio && specialRatio > mixedSpecialRatio {
			return true
		}
	}

	return false
}
