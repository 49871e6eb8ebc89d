/*
Package dictionary implements the user-defined expansion dictionary.

Entries map a short trigger key to an expansion value with a ranking
priority. Lookups run against an immutable snapshot (entries map plus a
prefix trie) that is replaced wholesale on every mutation, so an in-flight
prefix search always observes either the fully-old or fully-new state.
Rebuilding the trie per mutation is deliberate: dictionaries hold hundreds
to low thousands of entries and a rebuild costs microseconds.
*/
package dictionary

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/mizutok/kanakey/internal/utils"
	"github.com/mizutok/kanakey/pkg/trie"
)

// FormatVersion is the on-disk schema version for dictionary files.
const FormatVersion = "1.0"

// Entry holds the expansion value and ranking priority for one key.
type Entry struct {
	Value    string `json:"value"`
	Priority int    `json:"priority"`
}

// File is the versioned on-disk structure.
type File struct {
	Version string           `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// snapshot is the immutable lookup state swapped on mutation.
type snapshot struct {
	entries map[string]Entry
	trie    *trie.Trie
}

// Dictionary is a hot-reloadable key to expansion store.
type Dictionary struct {
	snap atomic.Pointer[snapshot]
	mu   sync.Mutex // serializes writers
	path string     // file backing Reload, may be empty
}

// New returns an empty dictionary with no backing file.
func New() *Dictionary {
	d := &Dictionary{}
	d.snap.Store(buildSnapshot(map[string]Entry{}))
	return d
}

// Open loads a dictionary from path and keeps the path for Reload.
// A missing file yields an empty dictionary, not an error.
func Open(path string) (*Dictionary, error) {
	d := New()
	d.path = path
	if !utils.FileExists(path) {
		log.Debugf("Dictionary file %s not found, starting empty", path)
		return d, nil
	}
	if err := d.Load(path); err != nil {
		return nil, err
	}
	return d, nil
}

func buildSnapshot(entries map[string]Entry) *snapshot {
	t := trie.New()
	for key, e := range entries {
		t.Insert(key, e.Value)
	}
	return &snapshot{entries: entries, trie: t}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Add inserts or overwrites an entry. Key is lowercased and trimmed.
func (d *Dictionary) Add(key, value string, priority int) {
	key = normalizeKey(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.cloneEntries()
	entries[key] = Entry{Value: value, Priority: priority}
	d.snap.Store(buildSnapshot(entries))
}

// Remove deletes an entry and rebuilds the trie. Reports whether the key existed.
func (d *Dictionary) Remove(key string) bool {
	key = normalizeKey(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.cloneEntries()
	if _, ok := entries[key]; !ok {
		return false
	}
	delete(entries, key)
	d.snap.Store(buildSnapshot(entries))
	return true
}

// Get returns the exact-match expansion for key.
func (d *Dictionary) Get(key string) (string, bool) {
	key = normalizeKey(key)
	entry, ok := d.snap.Load().entries[key]
	if !ok {
		return "", false
	}
	return entry.Value, true
}

// PrefixSearch returns expansion values for keys starting with prefix,
// highest priority first, shorter keys first among equal priority,
// truncated to maxResults.
func (d *Dictionary) PrefixSearch(prefix string, maxResults int) []string {
	prefix = normalizeKey(prefix)
	snap := d.snap.Load()

	matches := snap.trie.PrefixSearch(prefix)
	sort.SliceStable(matches, func(i, j int) bool {
		pi := snap.entries[matches[i].Key].Priority
		pj := snap.entries[matches[j].Key].Priority
		if pi != pj {
			return pi > pj
		}
		// shorter keys first, counted in runes so kana and ASCII mix fairly
		return utf8.RuneCountInString(matches[i].Key) < utf8.RuneCountInString(matches[j].Key)
	})

	results := make([]string, 0, len(matches))
	for _, m := range matches {
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
		results = append(results, m.Value)
	}
	return results
}

// Save writes the versioned dictionary file atomically.
func (d *Dictionary) Save(path string) error {
	file := File{
		Version: FormatVersion,
		Entries: d.snap.Load().entries,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding dictionary")
	}
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return errors.Wrapf(err, "writing dictionary %s", path)
	}
	return nil
}

// Load reads a versioned dictionary file and swaps in the new state.
// Concurrent readers see either the previous or the loaded state, never a mix.
func (d *Dictionary) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading dictionary %s", path)
	}

	// Probe the version before committing to a full decode, so a file from
	// a future schema fails with something better than a type error.
	version := gjson.GetBytes(data, "version").String()
	if version != "" && version != FormatVersion {
		return errors.Errorf("dictionary %s: unsupported version %q (want %q)", path, version, FormatVersion)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "parsing dictionary %s", path)
	}

	entries := make(map[string]Entry, len(file.Entries))
	for key, e := range file.Entries {
		entries[normalizeKey(key)] = e
	}

	d.mu.Lock()
	d.snap.Store(buildSnapshot(entries))
	d.mu.Unlock()

	log.Debugf("Loaded %d dictionary entries from %s", len(entries), path)
	return nil
}

// Reload re-reads the backing file. No-op when the dictionary has no path.
func (d *Dictionary) Reload() error {
	if d.path == "" {
		return nil
	}
	if !utils.FileExists(d.path) {
		return nil
	}
	return d.Load(d.path)
}

// Path returns the backing file path, empty when in-memory only.
func (d *Dictionary) Path() string {
	return d.path
}

// Len reports the entry count.
func (d *Dictionary) Len() int {
	return len(d.snap.Load().entries)
}

// Stats summarizes the dictionary contents.
type Stats struct {
	TotalEntries   int
	AvgKeyLength   float64
	AvgValueLength float64
}

// GetStats computes dictionary statistics.
func (d *Dictionary) GetStats() Stats {
	entries := d.snap.Load().entries
	s := Stats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return s
	}
	keyLen, valLen := 0, 0
	for key, e := range entries {
		keyLen += len([]rune(key))
		valLen += len([]rune(e.Value))
	}
	s.AvgKeyLength = float64(keyLen) / float64(len(entries))
	s.AvgValueLength = float64(valLen) / float64(len(entries))
	return s
}

// cloneEntries copies the current entry map. Callers hold d.mu.
func (d *Dictionary) cloneEntries() map[string]Entry {
	current := d.snap.Load().entries
	entries := make(map[string]Entry, len(current)+1)
	for k, v := range current {
		entries[k] = v
	}
	return entries
}
