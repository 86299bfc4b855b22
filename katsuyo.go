package katsuyo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/aretw0/katsuyo/internal/logging"
	"github.com/aretw0/katsuyo/internal/presentation/graph"
	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/aretw0/katsuyo/pkg/grammar"
	"github.com/aretw0/katsuyo/pkg/observability"
	"github.com/aretw0/katsuyo/pkg/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// Engine is the high-level entry point for the katsuyo library.
// It wraps a compiled grammar and provides conjugation of single cells, full paradigms
// and lexicon batches.
type Engine struct {
	grammar     *grammar.Grammar
	spec        *grammar.Spec
	grammarPath string
	lexicon     ports.LexiconLoader
	cache       ports.Cache
	cacheTTL    time.Duration
	metrics     *observability.Metrics
	logger      *slog.Logger
	maxStates   int
	concurrency int
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGrammar replaces the embedded Japanese grammar.
func WithGrammar(spec *grammar.Spec) Option {
	return func(e *Engine) {
		e.spec = spec
	}
}

// WithGrammarFile loads the grammar from a YAML or JSON file.
func WithGrammarFile(path string) Option {
	return func(e *Engine) {
		e.grammarPath = path
	}
}

// WithLexicon injects the lexicon used by RunLexicon, bypassing the embedded lists.
func WithLexicon(l ports.LexiconLoader) Option {
	return func(e *Engine) {
		e.lexicon = l
	}
}

// WithCache stores computed forms. A zero ttl uses the cache default.
func WithCache(c ports.Cache, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = c
		e.cacheTTL = ttl
	}
}

// WithMetrics records conjugation and compilation metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxStates bounds the states of every construction (default fst.DefaultMaxStates).
func WithMaxStates(n int) Option {
	return func(e *Engine) {
		e.maxStates = n
	}
}

// WithConcurrency bounds parallel rule compilation and batch conjugation
// (default runtime.NumCPU()).
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New compiles the grammar and initializes a new Engine.
// By default, it uses the embedded Japanese grammar and lexicon.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	eng := &Engine{
		maxStates:   fst.DefaultMaxStates,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	var err error
	switch {
	case eng.spec != nil:
	case eng.grammarPath != "":
		if eng.spec, err = grammar.Load(eng.grammarPath); err != nil {
			return nil, err
		}
	default:
		if eng.spec, err = DefaultGrammar(); err != nil {
			return nil, fmt.Errorf("failed to load embedded grammar: %w", err)
		}
	}

	if eng.lexicon == nil {
		lex, err := DefaultLexicon()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded lexicon: %w", err)
		}
		eng.lexicon = lex
	}

	start := time.Now()
	eng.grammar, err = grammar.Compile(ctx, eng.spec,
		grammar.WithLogger(eng.logger),
		grammar.WithMaxStates(eng.maxStates),
		grammar.WithConcurrency(eng.concurrency),
		grammar.WithObserver(eng.metrics.ObserveCompile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile grammar: %w", err)
	}

	eng.Name = eng.grammar.Name
	eng.logger = eng.logger.With("grammar", eng.Name)
	eng.logger.Info("grammar ready", "cells", len(eng.grammar.Cells), "duration", time.Since(start))
	return eng, nil
}

// Conjugate returns the surface form of word in cell.
//
// Returns domain.ErrCellNotFound for an unknown cell, fst.ErrInvalidSymbol when the word
// uses symbols outside the alphabet and domain.ErrNotApplicable when the rules do not
// produce exactly one form.
func (e *Engine) Conjugate(ctx context.Context, word, cell string) (string, error) {
	word = normalize(word)
	c, ok := e.grammar.Cell(cell)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrCellNotFound, cell)
	}
	root := func() (*fst.FST, error) {
		input, err := e.grammar.Input(word)
		if err != nil {
			return nil, err
		}
		return e.grammar.Apply(ctx, input, grammar.RootChain)
	}
	f, err := e.form(ctx, word, root, c)
	if err != nil {
		return "", err
	}
	return f.Surface, nil
}

// Candidates returns up to limit surface forms of word in cell, in canonical order.
// Unlike Conjugate it does not fail when the rules produce several forms.
func (e *Engine) Candidates(ctx context.Context, word, cell string, limit int) ([]string, error) {
	word = normalize(word)
	if _, ok := e.grammar.Cell(cell); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCellNotFound, cell)
	}
	input, err := e.grammar.Input(word)
	if err != nil {
		return nil, err
	}
	out, err := e.grammar.Apply(ctx, input, grammar.RootChain, cell, grammar.PhonologyChain)
	if err != nil {
		return nil, err
	}
	return fst.Strings(out, limit, fst.WithMaxStates(e.maxStates))
}

// Root returns the stem extracted by the root chain, markers included.
func (e *Engine) Root(ctx context.Context, word string) (string, error) {
	return e.grammar.Run(ctx, normalize(word), grammar.RootChain)
}

// Paradigm returns every cell of word in display order.
// Per-cell failures are recorded in the forms; the error is reserved for words that
// cannot be read at all and for cancellation.
func (e *Engine) Paradigm(ctx context.Context, word string) (domain.Paradigm, error) {
	word = normalize(word)
	p := domain.Paradigm{Word: word}

	input, err := e.grammar.Input(word)
	if err != nil {
		p.Error = err.Error()
		return p, err
	}
	root, err := e.grammar.Apply(ctx, input, grammar.RootChain)
	if err != nil {
		p.Error = err.Error()
		return p, err
	}
	if p.Root, err = fst.Stringify(root, fst.WithMaxStates(e.maxStates)); err != nil {
		e.logger.Debug("root is not a single string", "word", word, "err", err)
	}

	p.Forms = make([]domain.Form, 0, len(e.grammar.Cells))
	for _, c := range e.grammar.Cells {
		f, err := e.form(ctx, word, func() (*fst.FST, error) { return root, nil }, c)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return p, ctxErr
			}
			f.Error = err.Error()
		}
		p.Forms = append(p.Forms, f)
	}
	return p, nil
}

// Batch computes the paradigm of every word in parallel.
// Results keep the order of words; a failing word is reported in its Paradigm.Error.
func (e *Engine) Batch(ctx context.Context, words []string) ([]domain.Paradigm, error) {
	results := make([]domain.Paradigm, len(words))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, w := range words {
		g.Go(func() error {
			p, err := e.Paradigm(gctx, w)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				e.logger.Warn("paradigm failed", "word", w, "err", err)
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunLexicon conjugates every entry of a lexicon list (all lists when list is empty).
func (e *Engine) RunLexicon(ctx context.Context, list string) ([]domain.Paradigm, error) {
	entries, err := e.lexicon.Entries(ctx, list)
	if err != nil {
		return nil, err
	}
	words := make([]string, len(entries))
	for i, entry := range entries {
		words[i] = entry.Word
	}
	return e.Batch(ctx, words)
}

// Cells lists the paradigm cells in display order.
func (e *Engine) Cells() []domain.Cell {
	return append([]domain.Cell(nil), e.grammar.Cells...)
}

// Names lists every registered rule, chain and cell name.
func (e *Engine) Names() []string {
	return e.grammar.Registry.Names()
}

// Transducer composes the named rule or chain into a single optimized machine.
func (e *Engine) Transducer(name string) (*fst.FST, error) {
	steps, err := e.grammar.Registry.Chain(name)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return fst.Optimize(e.grammar.Alphabet.SigmaStar())
	}
	composed, err := fst.ComposeAll(steps[0], steps[1:]...)
	if err != nil {
		return nil, err
	}
	return fst.Optimize(composed, fst.WithMaxStates(e.maxStates))
}

// Graph returns the Mermaid rendering of a named rule or chain.
func (e *Engine) Graph(name string) (string, error) {
	t, err := e.Transducer(name)
	if err != nil {
		return "", err
	}
	return graph.GenerateMermaid(t, graph.DefaultOptions), nil
}

// Grammar returns the compiled grammar.
func (e *Engine) Grammar() *grammar.Grammar {
	return e.grammar
}

// Lexicon returns the lexicon used by RunLexicon.
func (e *Engine) Lexicon() ports.LexiconLoader {
	return e.lexicon
}

// form conjugates one cell. root is only evaluated on a cache miss.
func (e *Engine) form(ctx context.Context, word string, root func() (*fst.FST, error), c domain.Cell) (domain.Form, error) {
	f := domain.Form{Cell: c.Name, Label: c.Label}
	key := e.cacheKey(word, c.Name)

	if e.cache != nil {
		surface, err := e.cache.Get(ctx, key)
		switch {
		case err == nil:
			e.metrics.ObserveCache(true)
			f.Surface, f.Cached = surface, true
			return f, nil
		case errors.Is(err, domain.ErrCacheMiss):
			e.metrics.ObserveCache(false)
		default:
			e.logger.Warn("cache lookup failed", "word", word, "cell", c.Name, "err", err)
		}
	}

	stem, err := root()
	if err != nil {
		return f, err
	}

	start := time.Now()
	out, err := e.grammar.Apply(ctx, stem, c.Name, grammar.PhonologyChain)
	if err == nil {
		f.Surface, err = fst.Stringify(out, fst.WithMaxStates(e.maxStates))
	}
	elapsed := time.Since(start)

	if err != nil {
		outcome := observability.OutcomeError
		if errors.Is(err, fst.ErrNoOutput) || errors.Is(err, fst.ErrAmbiguousOutput) {
			outcome = observability.OutcomeNotApplicable
			err = fmt.Errorf("%w: %s in %s: %w", domain.ErrNotApplicable, word, c.Name, err)
		}
		e.metrics.ObserveConjugation(c.Name, outcome, elapsed)
		e.logger.Debug("conjugation failed", "word", word, "cell", c.Name, "err", err)
		return f, err
	}
	e.metrics.ObserveConjugation(c.Name, observability.OutcomeOK, elapsed)

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, f.Surface, e.cacheTTL); err != nil {
			e.logger.Warn("cache store failed", "word", word, "cell", c.Name, "err", err)
		}
	}
	return f, nil
}

func (e *Engine) cacheKey(word, cell string) string {
	return e.Name + ":" + word + "/" + cell
}

func normalize(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}
