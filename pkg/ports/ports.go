package ports

import (
	"context"
	"time"

	"github.com/aretw0/katsuyo/pkg/domain"
)

// Cache stores computed surface forms keyed by word and cell.
type Cache interface {
	// Get returns the cached surface form.
	// Returns domain.ErrCacheMiss if nothing is stored for the key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a surface form. A zero ttl means the cache default.
	Set(ctx context.Context, key, surface string, ttl time.Duration) error
}

// LexiconLoader defines how the engine retrieves lexicon entries.
// This allows the storage layer (embedded data, Loam, Memory) to be decoupled.
type LexiconLoader interface {
	// Entries returns every entry of the named list, or of all lists when list is empty.
	Entries(ctx context.Context, list string) ([]domain.Entry, error)

	// Lists returns the available list names.
	Lists(ctx context.Context) ([]string, error)
}

// Conjugator is the driving port used by adapters (HTTP, MCP) to serve conjugations.
type Conjugator interface {
	// Conjugate returns the surface form of word in cell.
	Conjugate(ctx context.Context, word, cell string) (string, error)

	// Paradigm returns every cell of word. Per-cell failures are recorded in the forms.
	Paradigm(ctx context.Context, word string) (domain.Paradigm, error)

	// Batch computes the paradigms of several words, preserving their order.
	Batch(ctx context.Context, words []string) ([]domain.Paradigm, error)

	// Cells lists the paradigm cells in display order.
	Cells() []domain.Cell

	// Names lists every registered rule, chain and cell name.
	Names() []string

	// Graph returns the Mermaid rendering of a named transducer.
	Graph(name string) (string, error)
}
