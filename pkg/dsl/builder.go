package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/katsuyo/pkg/grammar"
)

// Builder manages the grammar construction.
type Builder struct {
	spec  grammar.Spec
	rules map[string]*RuleBuilder
	cells []*CellBuilder
}

// New creates a new grammar builder.
func New(name string) *Builder {
	return &Builder{
		spec: grammar.Spec{
			Name: name,
			Sets: make(map[string]any),
		},
		rules: make(map[string]*RuleBuilder),
	}
}

// Alphabet declares symbols. Repeated calls append.
func (b *Builder) Alphabet(symbols ...string) *Builder {
	b.spec.Alphabet = append(b.spec.Alphabet, symbols...)
	return b
}

// Set defines a named set as the union of patterns.
func (b *Builder) Set(name string, patterns ...string) *Builder {
	b.spec.Sets[name] = grammar.SetExpr{Of: patterns}
	return b
}

// SetExcept defines a named set as the patterns of of without those of except.
func (b *Builder) SetExcept(name string, of []string, except ...string) *Builder {
	b.spec.Sets[name] = grammar.SetExpr{Of: of, Except: except}
	return b
}

// Rule creates a new rule in the grammar.
// If the rule already exists, it returns the existing builder.
func (b *Builder) Rule(name string) *RuleBuilder {
	if rb, ok := b.rules[name]; ok {
		return rb
	}
	rb := &RuleBuilder{}
	b.rules[name] = rb
	return rb
}

// Root appends rules to the root extraction chain.
func (b *Builder) Root(rules ...string) *Builder {
	b.spec.Root = append(b.spec.Root, rules...)
	return b
}

// Phonology appends rules to the cleanup chain applied after every cell.
func (b *Builder) Phonology(rules ...string) *Builder {
	b.spec.Phonology = append(b.spec.Phonology, rules...)
	return b
}

// Cell creates a paradigm cell. Cells keep their declaration order.
// If the cell already exists, it returns the existing builder.
func (b *Builder) Cell(name string) *CellBuilder {
	for _, cb := range b.cells {
		if cb.cell.Name == name {
			return cb
		}
	}
	cb := &CellBuilder{cell: grammar.Cell{Name: name}}
	b.cells = append(b.cells, cb)
	return cb
}

// Spec assembles and validates the grammar document.
func (b *Builder) Spec() (*grammar.Spec, error) {
	spec := b.spec
	spec.Rules = make(map[string]grammar.Rule, len(b.rules))
	for name, rb := range b.rules {
		spec.Rules[name] = rb.rule
	}
	spec.Cells = make([]grammar.Cell, len(b.cells))
	for i, cb := range b.cells {
		spec.Cells[i] = cb.cell
	}

	if err := grammar.Validate(&spec); err != nil {
		return nil, fmt.Errorf("failed to build grammar: %w", err)
	}
	return &spec, nil
}

// Compile builds the grammar and compiles it.
func (b *Builder) Compile(ctx context.Context, opts ...grammar.Option) (*grammar.Grammar, error) {
	spec, err := b.Spec()
	if err != nil {
		return nil, err
	}
	return grammar.Compile(ctx, spec, opts...)
}

// RuleBuilder provides a fluent API for configuring a rule.
type RuleBuilder struct {
	rule grammar.Rule
}

// Rewrite adds an alternative from -> to.
func (r *RuleBuilder) Rewrite(from, to string) *RuleBuilder {
	r.rule.Rewrite = append(r.rule.Rewrite, grammar.Pair{From: from, To: to})
	return r
}

// Left sets the alternatives of the left context.
func (r *RuleBuilder) Left(patterns ...string) *RuleBuilder {
	r.rule.Left = contexts(patterns)
	return r
}

// Right sets the alternatives of the right context.
func (r *RuleBuilder) Right(patterns ...string) *RuleBuilder {
	r.rule.Right = contexts(patterns)
	return r
}

func contexts(patterns []string) any {
	alts := make([]any, len(patterns))
	for i, p := range patterns {
		alts[i] = p
	}
	return alts
}

// CellBuilder provides a fluent API for configuring a paradigm cell.
type CellBuilder struct {
	cell grammar.Cell
}

// Label sets the display label.
func (c *CellBuilder) Label(label string) *CellBuilder {
	c.cell.Label = label
	return c
}

// Group places the cell among the alternative realizations of one slot.
func (c *CellBuilder) Group(group string) *CellBuilder {
	c.cell.Group = group
	return c
}

// Base runs the chain of an earlier cell first.
func (c *CellBuilder) Base(cell string) *CellBuilder {
	c.cell.Base = cell
	return c
}

// Append inserts suffix at the end of the word after the base chain.
func (c *CellBuilder) Append(suffix string) *CellBuilder {
	c.cell.Append = suffix
	return c
}

// Rules appends rules to the cell chain.
func (c *CellBuilder) Rules(rules ...string) *CellBuilder {
	c.cell.Rules = append(c.cell.Rules, rules...)
	return c
}
