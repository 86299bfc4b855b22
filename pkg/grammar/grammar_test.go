package grammar_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/aretw0/katsuyo/pkg/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileFile(t *testing.T, path string, opts ...grammar.Option) *grammar.Grammar {
	t.Helper()
	spec, err := grammar.Load(path)
	require.NoError(t, err)
	g, err := grammar.Compile(context.Background(), spec, opts...)
	require.NoError(t, err)
	return g
}

func TestCompile_Cells(t *testing.T) {
	g := compileFile(t, "testdata/mini.yaml")
	ctx := context.Background()

	assert.Equal(t, "mini", g.Name)
	require.Len(t, g.Cells, 3)
	assert.Equal(t, domain.Cell{Name: "plain_negative", Label: "Plain Negative"}, g.Cells[0])
	assert.Equal(t, "polite", g.Cells[2].Label, "label defaults to the name")

	root, err := g.Run(ctx, "kaku", grammar.RootChain)
	require.NoError(t, err)
	assert.Equal(t, "kak1", root)

	tests := []struct {
		cell string
		want string
	}{
		{"plain_negative", "kakanai"},
		{"plain_negative_past", "kakanakatta"},
		{"polite", "kakimasu"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := g.Run(ctx, "kaku", grammar.RootChain, tt.cell, grammar.PhonologyChain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := g.Cell("polite")
	assert.True(t, ok)
	_, ok = g.Cell("missing")
	assert.False(t, ok)
}

func TestCompile_RegistryNames(t *testing.T) {
	g := compileFile(t, "testdata/mini.yaml")

	for _, name := range []string{"u_drop", "negative", "past", "i_stem", grammar.RootChain, grammar.PhonologyChain, "polite", grammar.AppendStep("polite")} {
		assert.True(t, g.Registry.Has(name), name)
	}
	assert.False(t, g.Registry.Has(grammar.AppendStep("plain_negative")), "cells without append get no insertion step")
}

func TestCompile_JSON(t *testing.T) {
	g := compileFile(t, "testdata/mini.json")

	got, err := g.Run(context.Background(), "nomu", grammar.RootChain, "plain_negative", grammar.PhonologyChain)
	require.NoError(t, err)
	assert.Equal(t, "nomanai", got)
}

func TestRun_Errors(t *testing.T) {
	g := compileFile(t, "testdata/mini.yaml")
	ctx := context.Background()

	_, err := g.Run(ctx, "kaxu", grammar.RootChain)
	assert.ErrorIs(t, err, fst.ErrInvalidSymbol)

	_, err = g.Run(ctx, "kaku", "missing")
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = g.Run(cancelled, "kaku", grammar.RootChain)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompile_Observer(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	compileFile(t, "testdata/mini.yaml",
		grammar.WithConcurrency(2),
		grammar.WithObserver(func(rule string, states int, elapsed time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			seen[rule] = states
		}),
	)

	assert.Len(t, seen, 4)
	for rule, states := range seen {
		assert.Positive(t, states, rule)
	}
}

func TestCompile_StateBudget(t *testing.T) {
	spec, err := grammar.Load("testdata/mini.yaml")
	require.NoError(t, err)

	_, err = grammar.Compile(context.Background(), spec, grammar.WithMaxStates(2))
	assert.ErrorIs(t, err, fst.ErrNonConvergent)
}

func TestCompile_SetExcept(t *testing.T) {
	spec := &grammar.Spec{
		Alphabet: []string{"a", "e", "i", "o", "u", "k", "X"},
		Sets: map[string]any{
			"vowel": []any{"a", "e", "i", "o", "u"},
			"non_u": map[string]any{"of": []any{"{vowel}"}, "except": []any{"u"}},
		},
		Rules: map[string]grammar.Rule{
			"mark": {Rewrite: []any{"{non_u} -> X"}},
		},
		Cells: []grammar.Cell{{Name: "marked", Rules: []string{"mark"}}},
	}
	g, err := grammar.Compile(context.Background(), spec)
	require.NoError(t, err)

	got, err := g.Run(context.Background(), "kakuki", "marked")
	require.NoError(t, err)
	assert.Equal(t, "kXkukX", got)
}

func TestCompile_SetCycle(t *testing.T) {
	spec := &grammar.Spec{
		Alphabet: []string{"a"},
		Sets: map[string]any{
			"x": []any{"{y}"},
			"y": []any{"{x}"},
		},
		Rules: map[string]grammar.Rule{"r": {Rewrite: []any{"a -> a"}}},
		Cells: []grammar.Cell{{Name: "c", Rules: []string{"r"}}},
	}
	_, err := grammar.Compile(context.Background(), spec)
	require.ErrorIs(t, err, grammar.ErrInvalidGrammar)
	assert.Contains(t, err.Error(), "refers to itself")
}

func TestCompile_InvalidRule(t *testing.T) {
	spec := &grammar.Spec{
		Alphabet: []string{"a", "k"},
		Rules: map[string]grammar.Rule{
			"insert": {Rewrite: []any{" -> k"}},
		},
		Cells: []grammar.Cell{{Name: "c", Rules: []string{"insert"}}},
	}
	_, err := grammar.Compile(context.Background(), spec)
	require.ErrorIs(t, err, fst.ErrInvalidRule)
	assert.Contains(t, err.Error(), `rule "insert"`)
}
