package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/katsuyo/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Lexicon implements ports.LexiconLoader using in-memory lists.
type Lexicon struct {
	lists map[string][]domain.Entry
}

// NewLexicon creates a lexicon from named lists.
func NewLexicon(lists map[string][]domain.Entry) *Lexicon {
	copied := make(map[string][]domain.Entry, len(lists))
	for name, entries := range lists {
		copied[name] = append([]domain.Entry(nil), entries...)
	}
	return &Lexicon{lists: copied}
}

// NewFromWords creates a single-list lexicon from plain words.
// This improves DX for tests.
func NewFromWords(list string, words ...string) *Lexicon {
	entries := make([]domain.Entry, len(words))
	for i, w := range words {
		entries[i] = domain.Entry{Word: w}
	}
	return &Lexicon{lists: map[string][]domain.Entry{list: entries}}
}

type lexiconFile struct {
	Lists map[string][]any `yaml:"lists"`
}

// ParseLexicon decodes a YAML lexicon document:
//
//	lists:
//	  verbs:
//	    - kaku
//	    - {word: matsu, gloss: wait}
func ParseLexicon(data []byte) (*Lexicon, error) {
	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	lists := make(map[string][]domain.Entry, len(file.Lists))
	for name, items := range file.Lists {
		entries, err := domain.DecodeEntries(items)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", name, err)
		}
		lists[name] = entries
	}
	return &Lexicon{lists: lists}, nil
}

// Entries returns the entries of list, or of every list in name order when list is empty.
func (l *Lexicon) Entries(ctx context.Context, list string) ([]domain.Entry, error) {
	if list != "" {
		entries, ok := l.lists[list]
		if !ok {
			return nil, fmt.Errorf("%w: list %s", domain.ErrEntryNotFound, list)
		}
		return append([]domain.Entry(nil), entries...), nil
	}

	names, _ := l.Lists(ctx)
	var all []domain.Entry
	for _, name := range names {
		all = append(all, l.lists[name]...)
	}
	return all, nil
}

// Lists returns all list names.
func (l *Lexicon) Lists(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.lists))
	for k := range l.lists {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
