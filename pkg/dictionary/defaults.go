package dictionary

import (
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"
)

// The builtin abbreviation set ships as a regular versioned dictionary
// document rather than compiled-in literals, so it round-trips through the
// same schema as user files and can be replaced without touching code.

//go:embed data/default_dictionary.json
var defaultDictionary []byte

// Default returns a dictionary pre-populated with the builtin common
// abbreviations. It has no backing file until Save is called.
func Default() (*Dictionary, error) {
	var file File
	if err := json.Unmarshal(defaultDictionary, &file); err != nil {
		return nil, errors.Wrap(err, "parsing builtin dictionary")
	}
	if file.Version != FormatVersion {
		return nil, errors.Errorf("builtin dictionary version %q (want %q)", file.Version, FormatVersion)
	}

	d := New()
	entries := make(map[string]Entry, len(file.Entries))
	for key, e := range file.Entries {
		entries[normalizeKey(key)] = e
	}
	d.snap.Store(buildSnapshot(entries))
	return d, nil
}
