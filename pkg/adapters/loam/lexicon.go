package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/loam"
)

// Lexicon adapts a Loam repository to the katsuyo LexiconLoader interface.
// Every document is one list; its name comes from the frontmatter or, failing that,
// from the file name without extension.
type Lexicon struct {
	Repo *loam.TypedRepository[ListMetadata]
}

// New creates a new Loam lexicon adapter.
func New(repo *loam.TypedRepository[ListMetadata]) *Lexicon {
	return &Lexicon{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Lexicon, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers consistent across Markdown and JSON documents.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ListMetadata](repo)), nil
}

// Entries returns the entries of list, or of every list in name order when list is empty.
func (l *Lexicon) Entries(ctx context.Context, list string) ([]domain.Entry, error) {
	lists, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	if list != "" {
		entries, ok := lists[list]
		if !ok {
			return nil, fmt.Errorf("%w: list %s", domain.ErrEntryNotFound, list)
		}
		return entries, nil
	}

	var all []domain.Entry
	for _, name := range sortedNames(lists) {
		all = append(all, lists[name]...)
	}
	return all, nil
}

// Lists returns the list names found in the repository.
func (l *Lexicon) Lists(ctx context.Context) ([]string, error) {
	lists, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortedNames(lists), nil
}

// Watch emits the name of a list whenever its document changes.
func (l *Lexicon) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func (l *Lexicon) load(ctx context.Context) (map[string][]domain.Entry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	lists := make(map[string][]domain.Entry, len(docs))

	for _, doc := range docs {
		name := doc.Data.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}

		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: list '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID

		entries, err := domain.DecodeEntries(doc.Data.Words)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", name, err)
		}
		lists[name] = entries
	}
	return lists, nil
}

func sortedNames(lists map[string][]domain.Entry) []string {
	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
