package learn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndCount(t *testing.T) {
	tracker := NewTracker("", DefaultFlushPolicy())

	tracker.RecordSelection("お祈りをして", "神")
	tracker.RecordSelection("お祈りをして", "神")
	tracker.RecordSelection("お祈りをして", "紙")

	assert.Equal(t, 2, tracker.Count("お祈りをして", "神"))
	assert.Equal(t, 1, tracker.Count("お祈りをして", "紙"))
	assert.Equal(t, 0, tracker.Count("other", "神"))
	assert.Equal(t, 2, tracker.Len())
}

func TestRerankPreservesSet(t *testing.T) {
	tracker := NewTracker("", DefaultFlushPolicy())
	tracker.RecordSelection("ctx", "gamma")
	tracker.RecordSelection("ctx", "gamma")
	tracker.RecordSelection("ctx", "beta")

	in := []string{"alpha", "beta", "gamma"}
	got := tracker.Rerank("ctx", in)

	assert.Equal(t, []string{"gamma", "beta", "alpha"}, got)
	assert.ElementsMatch(t, in, got)
	// input untouched
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, in)
}

func TestRerankUnseenKeepsOrder(t *testing.T) {
	tracker := NewTracker("", DefaultFlushPolicy())

	in := []string{"one", "two", "three"}
	assert.Equal(t, in, tracker.Rerank("nothing recorded", in))
}

func TestFlushEveryN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	tracker := NewTracker(path, FlushPolicy{EveryN: 3})

	tracker.RecordSelection("c", "a")
	tracker.RecordSelection("c", "a")
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no flush before batch boundary")

	tracker.RecordSelection("c", "a") // third selection hits the boundary
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRoundTripPopulated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	tracker := NewTracker(path, DefaultFlushPolicy())
	tracker.RecordSelection("ctx", "神")
	tracker.RecordSelection("ctx", "神")
	tracker.RecordSelection("", "hello")
	require.NoError(t, tracker.Close())

	loaded := NewTracker(path, DefaultFlushPolicy())
	require.NoError(t, loaded.Load())
	assert.Equal(t, 2, loaded.Count("ctx", "神"))
	assert.Equal(t, 1, loaded.Count("", "hello"))
	assert.Equal(t, 2, loaded.Len())
}

func TestRoundTripEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	tracker := NewTracker(path, DefaultFlushPolicy())
	require.NoError(t, tracker.Close())

	loaded := NewTracker(path, DefaultFlushPolicy())
	require.NoError(t, loaded.Load())
	assert.Equal(t, 0, loaded.Len())
}

func TestLoadMissingFile(t *testing.T) {
	tracker := NewTracker(filepath.Join(t.TempDir(), "absent.json"), DefaultFlushPolicy())
	require.NoError(t, tracker.Load())
	assert.Equal(t, 0, tracker.Len())
}
