package trie

import (
	"sort"
	"testing"
)

func TestExactSearch(t *testing.T) {
	tr := New()
	tr.Insert("ty", "thank you")
	tr.Insert("ttyl", "talk to you later")

	testCases := []struct {
		key   string
		want  string
		found bool
	}{
		{"ty", "thank you", true},
		{"ttyl", "talk to you later", true},
		{"t", "", false},   // non-terminal
		{"tty", "", false}, // non-terminal
		{"xyz", "", false}, // absent
	}

	for _, tc := range testCases {
		got, ok := tr.Search(tc.key)
		if ok != tc.found {
			t.Errorf("Search(%q) found = %v, want %v", tc.key, ok, tc.found)
		}
		if got != tc.want {
			t.Errorf("Search(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestInsertOverwrites(t *testing.T) {
	tr := New()
	tr.Insert("brb", "be right back")
	tr.Insert("brb", "bathroom break")

	if got, _ := tr.Search("brb"); got != "bathroom break" {
		t.Errorf("Search(brb) = %q, want overwritten value", got)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestPrefixSearch(t *testing.T) {
	tr := New()
	tr.Insert("ty", "thank you")
	tr.Insert("tysm", "thank you so much")
	tr.Insert("ttyl", "talk to you later")
	tr.Insert("brb", "be right back")

	entries := tr.PrefixSearch("ty")
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)

	want := []string{"ty", "tysm"}
	if len(keys) != len(want) {
		t.Fatalf("PrefixSearch(ty) keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("PrefixSearch(ty) keys = %v, want %v", keys, want)
		}
	}

	if got := tr.PrefixSearch("zz"); got != nil {
		t.Errorf("PrefixSearch(zz) = %v, want nil", got)
	}
}

func TestPrefixSearchUnicode(t *testing.T) {
	tr := New()
	tr.Insert("かみ", "神")
	tr.Insert("かみなり", "雷")
	tr.Insert("はし", "橋")

	entries := tr.PrefixSearch("かみ")
	if len(entries) != 2 {
		t.Fatalf("PrefixSearch(かみ) returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Key != "かみ" && e.Key != "かみなり" {
			t.Errorf("unexpected key %q", e.Key)
		}
	}
}
