package grammar

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/aretw0/katsuyo/internal/logging"
	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/aretw0/katsuyo/pkg/registry"
	"golang.org/x/sync/errgroup"
)

// Grammar is a compiled grammar: its alphabet, the registry of named transducers and
// the paradigm cells in display order.
type Grammar struct {
	Name     string
	Alphabet *fst.Alphabet
	Registry *registry.Registry
	Cells    []domain.Cell

	opts []fst.Option
}

// Cell returns the cell named name.
func (g *Grammar) Cell(name string) (domain.Cell, bool) {
	for _, c := range g.Cells {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Cell{}, false
}

// Input compiles word into an acceptor over the grammar alphabet.
func (g *Grammar) Input(word string) (*fst.FST, error) {
	return g.Alphabet.Acceptor(word)
}

// Apply runs input through the named rules and chains in order, one transducer at a time.
// An empty result is not an error here; it surfaces when the output is projected.
func (g *Grammar) Apply(ctx context.Context, input *fst.FST, names ...string) (*fst.FST, error) {
	steps, err := g.Registry.Chain(names...)
	if err != nil {
		return nil, err
	}
	out := input
	for _, t := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if out, err = fst.Apply(t, out, g.opts...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Run applies the named chains to word and returns the single surface string.
func (g *Grammar) Run(ctx context.Context, word string, names ...string) (string, error) {
	input, err := g.Input(word)
	if err != nil {
		return "", err
	}
	out, err := g.Apply(ctx, input, names...)
	if err != nil {
		return "", err
	}
	return fst.Stringify(out, g.opts...)
}

// CompileFunc is called after each rule is compiled.
type CompileFunc func(rule string, states int, elapsed time.Duration)

type config struct {
	logger      *slog.Logger
	maxStates   int
	concurrency int
	observe     CompileFunc
}

// Option configures Compile.
type Option func(*config)

// WithLogger sets the logger used to report rule compilation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxStates bounds the states of every construction.
func WithMaxStates(n int) Option {
	return func(c *config) {
		c.maxStates = n
	}
}

// WithConcurrency bounds the number of rules compiled in parallel.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithObserver registers a callback invoked for every compiled rule.
func WithObserver(fn CompileFunc) Option {
	return func(c *config) {
		c.observe = fn
	}
}

// Compile validates spec and compiles every rule, chain and cell into a registry.
func Compile(ctx context.Context, spec *Spec, opts ...Option) (*Grammar, error) {
	cfg := config{
		logger:      logging.NewNop(),
		maxStates:   fst.DefaultMaxStates,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := Validate(spec); err != nil {
		return nil, err
	}

	ab, err := fst.NewAlphabet(spec.Alphabet...)
	if err != nil {
		return nil, fmt.Errorf("%w: alphabet: %w", ErrInvalidGrammar, err)
	}
	fstOpts := []fst.Option{fst.WithMaxStates(cfg.maxStates)}

	sets, err := resolveSets(ab, spec.Sets, fstOpts)
	if err != nil {
		return nil, err
	}

	names := sortedKeys(spec.Rules)
	compiled := make([]*fst.FST, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			rule, err := compileRule(ab, sets, spec.Rules[name], fstOpts)
			if err != nil {
				return fmt.Errorf("rule %q: %w", name, err)
			}
			elapsed := time.Since(start)
			cfg.logger.Debug("compiled rule", "rule", name, "states", rule.NumStates(), "arcs", rule.NumArcs(), "duration", elapsed)
			if cfg.observe != nil {
				cfg.observe(name, rule.NumStates(), elapsed)
			}
			compiled[i] = rule
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reg := registry.NewRegistry()
	for i, name := range names {
		reg.Register(name, compiled[i])
	}
	reg.Define(RootChain, spec.Root...)
	reg.Define(PhonologyChain, spec.Phonology...)

	cells := make([]domain.Cell, 0, len(spec.Cells))
	for _, c := range spec.Cells {
		var steps []string
		if c.Base != "" {
			steps = append(steps, c.Base)
		}
		if c.Append != "" {
			suffix, err := ab.Transducer("", c.Append)
			if err != nil {
				return nil, fmt.Errorf("cell %q: %w", c.Name, err)
			}
			step := AppendStep(c.Name)
			reg.Register(step, fst.Concat(ab.SigmaStar(), suffix))
			steps = append(steps, step)
		}
		steps = append(steps, c.Rules...)
		reg.Define(c.Name, steps...)

		label := c.Label
		if label == "" {
			label = c.Name
		}
		cells = append(cells, domain.Cell{Name: c.Name, Label: label, Group: c.Group})
	}

	cfg.logger.Debug("compiled grammar", "grammar", spec.Name, "rules", len(names), "cells", len(cells), "symbols", ab.Len())
	return &Grammar{Name: spec.Name, Alphabet: ab, Registry: reg, Cells: cells, opts: fstOpts}, nil
}

// AppendStep is the registry name of the suffix insertion of a cell.
func AppendStep(cell string) string {
	return cell + "+append"
}

func resolveSets(ab *fst.Alphabet, defs map[string]any, opts []fst.Option) (map[string]*fst.FST, error) {
	sets := make(map[string]*fst.FST, len(defs))
	visiting := make(map[string]bool)

	var resolve func(name string) error
	resolve = func(name string) error {
		if _, done := sets[name]; done {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("%w: set %q refers to itself", ErrInvalidGrammar, name)
		}
		visiting[name] = true
		defer delete(visiting, name)

		expr, err := decodeSet(defs[name])
		if err != nil {
			return fmt.Errorf("set %q: %w", name, err)
		}
		for _, p := range append(append([]string(nil), expr.Of...), expr.Except...) {
			for _, ref := range refs(p) {
				if err := resolve(ref); err != nil {
					return err
				}
			}
		}

		of, err := union(ab, sets, expr.Of)
		if err != nil {
			return fmt.Errorf("set %q: %w", name, err)
		}
		if len(expr.Except) > 0 {
			except, err := union(ab, sets, expr.Except)
			if err != nil {
				return fmt.Errorf("set %q: %w", name, err)
			}
			if of, err = fst.Difference(of, except, opts...); err != nil {
				return fmt.Errorf("set %q: %w", name, err)
			}
		}
		if sets[name], err = fst.Optimize(of, opts...); err != nil {
			return fmt.Errorf("set %q: %w", name, err)
		}
		return nil
	}

	for _, name := range sortedKeys(defs) {
		if err := resolve(name); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

func union(ab *fst.Alphabet, sets map[string]*fst.FST, patterns []string) (*fst.FST, error) {
	if len(patterns) == 0 {
		return fst.Empty(ab), nil
	}
	alts := make([]*fst.FST, 0, len(patterns))
	for _, p := range patterns {
		a, err := acceptor(ab, sets, p)
		if err != nil {
			return nil, err
		}
		alts = append(alts, a)
	}
	return fst.Union(alts[0], alts[1:]...), nil
}

func compileRule(ab *fst.Alphabet, sets map[string]*fst.FST, r Rule, opts []fst.Option) (*fst.FST, error) {
	pairs, err := decodePairs(r.Rewrite)
	if err != nil {
		return nil, err
	}
	alts := make([]*fst.FST, 0, len(pairs))
	for _, p := range pairs {
		var tau *fst.FST
		if hasRef(p.From) || hasRef(p.To) {
			from, err := acceptor(ab, sets, p.From)
			if err != nil {
				return nil, err
			}
			to, err := acceptor(ab, sets, p.To)
			if err != nil {
				return nil, err
			}
			tau = fst.Cross(from, to)
		} else if tau, err = ab.Transducer(p.From, p.To); err != nil {
			return nil, err
		}
		alts = append(alts, tau)
	}
	tau := fst.Union(alts[0], alts[1:]...)

	left, err := contextFST(ab, sets, r.Left)
	if err != nil {
		return nil, fmt.Errorf("left context: %w", err)
	}
	right, err := contextFST(ab, sets, r.Right)
	if err != nil {
		return nil, fmt.Errorf("right context: %w", err)
	}
	return fst.Rewrite(tau, left, right, ab.SigmaStar(), opts...)
}

func contextFST(ab *fst.Alphabet, sets map[string]*fst.FST, v any) (*fst.FST, error) {
	alts, err := decodeContext(v)
	if err != nil {
		return nil, err
	}
	if alts == nil {
		return ab.SigmaStar(), nil
	}
	return union(ab, sets, alts)
}
