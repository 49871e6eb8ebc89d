package kanji

import "strings"

// DefaultWindowRunes bounds each side of the context window. Kept
// configurable since disambiguation cues can span more than one clause.
const DefaultWindowRunes = 20

// Context is the bounded text surrounding the cursor, derived fresh per
// request.
type Context struct {
	Preceding     string
	Following     string
	SentenceStart bool
}

// WindowFromCursor derives a Context from the full text and cursor
// position, keeping at most window runes on each side. A non-positive
// window falls back to DefaultWindowRunes.
func WindowFromCursor(text string, cursor int, window int) Context {
	if window <= 0 {
		window = DefaultWindowRunes
	}

	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	preceding := runes[:cursor]
	following := runes[cursor:]

	bounded := preceding
	if len(bounded) > window {
		bounded = bounded[len(bounded)-window:]
	}
	boundedFollowing := following
	if len(boundedFollowing) > window {
		boundedFollowing = boundedFollowing[:window]
	}

	return Context{
		Preceding:     string(bounded),
		Following:     string(boundedFollowing),
		SentenceStart: cursor == 0 || strings.HasSuffix(string(preceding), "。"),
	}
}
