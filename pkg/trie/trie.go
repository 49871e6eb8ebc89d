// Package trie implements prefix lookup over Unicode keys on top of a
// Patricia trie. Keys are stored as UTF-8 bytes; since the encoding of a
// whole-codepoint prefix is always a byte prefix of the encoded key, prefix
// queries built from complete runes behave exactly like a codepoint trie.
package trie

import (
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is a terminal (key, value) pair collected from a subtree visit.
type Entry struct {
	Key   string
	Value string
}

// Trie maps string keys to string values with exact and prefix search.
// It makes no ordering guarantee; ranking is the caller's job.
type Trie struct {
	inner *patricia.Trie
	size  int
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{inner: patricia.NewTrie()}
}

// Insert adds a key-value pair, overwriting any existing value for key.
func (t *Trie) Insert(key, value string) {
	p := patricia.Prefix(key)
	if t.inner.Get(p) == nil {
		t.size++
	}
	t.inner.Set(p, value)
}

// Search returns the exact-match value for key, false if key is absent
// or non-terminal.
func (t *Trie) Search(key string) (string, bool) {
	item := t.inner.Get(patricia.Prefix(key))
	if item == nil {
		return "", false
	}
	value, ok := item.(string)
	if !ok {
		log.Errorf("Unknown item type: %T for key %s", item, key)
		return "", false
	}
	return value, true
}

// PrefixSearch collects every terminal entry under prefix, the prefix node
// itself included when terminal. Returns nil if the prefix path does not exist.
func (t *Trie) PrefixSearch(prefix string) []Entry {
	var entries []Entry

	err := t.inner.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		value, ok := item.(string)
		if !ok {
			log.Errorf("Unknown item type: %T for key %s", item, p)
			return nil
		}
		entries = append(entries, Entry{Key: string(p), Value: value})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}

	return entries
}

// Len reports the number of terminal keys.
func (t *Trie) Len() int {
	return t.size
}
