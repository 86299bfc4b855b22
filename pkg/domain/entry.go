package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeEntries converts raw lexicon items into entries.
// An item is either a plain word or a map with word, gloss and tags keys.
func DecodeEntries(items []any) ([]Entry, error) {
	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			if v == "" {
				return nil, fmt.Errorf("entry %d: empty word", i)
			}
			entries = append(entries, Entry{Word: v})
		case map[string]any, map[any]any:
			var e Entry
			if err := mapstructure.Decode(v, &e); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			if e.Word == "" {
				return nil, fmt.Errorf("entry %d: missing word", i)
			}
			entries = append(entries, e)
		default:
			return nil, fmt.Errorf("entry %d: invalid type %T", i, v)
		}
	}
	return entries, nil
}
