package kanji

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowFromCursor(t *testing.T) {
	text := "昨日は雨だった。今日は"
	ctx := WindowFromCursor(text, 8, 0)

	assert.Equal(t, "昨日は雨だった。", ctx.Preceding)
	assert.Equal(t, "今日は", ctx.Following)
	assert.True(t, ctx.SentenceStart)

	ctx = WindowFromCursor(text, 3, 0)
	assert.Equal(t, "昨日は", ctx.Preceding)
	assert.False(t, ctx.SentenceStart)
}

func TestWindowBounds(t *testing.T) {
	long := strings.Repeat("あ", 30) + "核" + strings.Repeat("い", 30)
	ctx := WindowFromCursor(long, 31, 20)

	assert.Equal(t, 20, len([]rune(ctx.Preceding)))
	assert.Equal(t, 20, len([]rune(ctx.Following)))
	assert.True(t, strings.HasSuffix(ctx.Preceding, "核"))

	// custom width
	ctx = WindowFromCursor(long, 31, 5)
	assert.Equal(t, 5, len([]rune(ctx.Preceding)))
}

func TestWindowCursorClamping(t *testing.T) {
	ctx := WindowFromCursor("abc", -2, 0)
	assert.Equal(t, "", ctx.Preceding)
	assert.Equal(t, "abc", ctx.Following)
	assert.True(t, ctx.SentenceStart)

	ctx = WindowFromCursor("abc", 99, 0)
	assert.Equal(t, "abc", ctx.Preceding)
	assert.Equal(t, "", ctx.Following)
}
