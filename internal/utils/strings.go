package utils

import (
	"strings"
	"unicode"
)

// RuneClassCounts holds per-class rune counts for a string.
// Digits, letters, and "special" (neither letter nor digit) are counted
// separately so callers can reason about mixed-class spam.
type RuneClassCounts struct {
	Total   int
	Digits  int
	Letters int
	Special int
}

// CountRuneClasses tallies the character classes of s.
func CountRuneClasses(s string) RuneClassCounts {
	var c RuneClassCounts
	for _, r := range s {
		c.Total++
		switch {
		case unicode.IsDigit(r):
			c.Digits++
		case unicode.IsLetter(r):
			c.Letters++
		default:
			c.Special++
		}
	}
	return c
}

// UniqueRuneRatio returns unique runes divided by total runes.
// Returns 1.0 for an empty string.
func UniqueRuneRatio(s string) float64 {
	if s == "" {
		return 1.0
	}
	seen := make(map[rune]struct{})
	total := 0
	for _, r := range s {
		seen[r] = struct{}{}
		total++
	}
	return float64(len(seen)) / float64(total)
}

// TransitionRatio returns the share of adjacent rune pairs that differ,
// relative to the total rune count. Keyboard mashing like "cacjjsacascm"
// flips characters on nearly every keystroke.
func TransitionRatio(s string) float64 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0.0
	}
	transitions := 0
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] != runes[i+1] {
			transitions++
		}
	}
	return float64(transitions) / float64(len(runes))
}

// LastField returns the final whitespace-separated field of s, or ""
// if s is blank. Used to derive the active token from the input buffer.
func LastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
