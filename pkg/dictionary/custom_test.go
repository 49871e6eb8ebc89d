package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGetRemove(t *testing.T) {
	d := New()
	d.Add("  TY ", "thank you", 1)

	value, ok := d.Get("ty")
	require.True(t, ok)
	assert.Equal(t, "thank you", value)

	// normalization applies on lookup too
	value, ok = d.Get(" Ty ")
	require.True(t, ok)
	assert.Equal(t, "thank you", value)

	assert.True(t, d.Remove("TY"))
	assert.False(t, d.Remove("ty"))
	_, ok = d.Get("ty")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestAddOverwrites(t *testing.T) {
	d := New()
	d.Add("gg", "good game", 1)
	d.Add("gg", "gotta go", 2)

	value, ok := d.Get("gg")
	require.True(t, ok)
	assert.Equal(t, "gotta go", value)
	assert.Equal(t, 1, d.Len())
}

func TestPrefixSearchRanking(t *testing.T) {
	d := New()
	d.Add("ty", "thank you", 1)
	d.Add("tysm", "thank you so much", 1)
	d.Add("tyvm", "thank you very much", 3)
	d.Add("ttyl", "talk to you later", 1)

	// higher priority first, then shorter key
	results := d.PrefixSearch("ty", 10)
	require.Equal(t, []string{"thank you very much", "thank you", "thank you so much"}, results)

	// truncation
	results = d.PrefixSearch("ty", 2)
	require.Equal(t, []string{"thank you very much", "thank you"}, results)

	// missing prefix path
	assert.Empty(t, d.PrefixSearch("zz", 10))
}

func TestPrefixSearchTieBreakCountsRunes(t *testing.T) {
	d := New()
	// equal priority; the kana key is shorter in runes but longer in bytes
	d.Add("こんにちは", "hello", 1)
	d.Add("こんnichiha", "hello (romaji mix)", 1)

	results := d.PrefixSearch("こん", 10)
	require.Equal(t, []string{"hello", "hello (romaji mix)"}, results)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")

	d := New()
	d.Add("brb", "be right back", 1)
	d.Add("ac", "air conditioner", 2)
	require.NoError(t, d.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())

	value, ok := loaded.Get("ac")
	require.True(t, ok)
	assert.Equal(t, "air conditioner", value)
}

func TestReloadIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")

	d := New()
	d.Add("np", "no problem", 1)
	d.Add("yw", "you're welcome", 1)
	require.NoError(t, d.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)

	before := loaded.PrefixSearch("", 0)
	require.NoError(t, loaded.Reload())
	after := loaded.PrefixSearch("", 0)

	assert.Equal(t, before, after)
	assert.Equal(t, 2, loaded.Len())
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	writeTestFile(t, path, `{"version": "9.0", "entries": {}}`)

	d := New()
	err := d.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestOpenMissingFile(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultDictionary(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 10)

	value, ok := d.Get("ty")
	require.True(t, ok)
	assert.Equal(t, "thank you", value)

	stats := d.GetStats()
	assert.Equal(t, d.Len(), stats.TotalEntries)
	assert.Greater(t, stats.AvgKeyLength, 1.0)
	assert.Greater(t, stats.AvgValueLength, stats.AvgKeyLength)
}
