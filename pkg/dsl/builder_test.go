package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/katsuyo/pkg/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mini() *Builder {
	b := New("mini")
	b.Alphabet("a", "e", "i", "o", "u").Alphabet("k", "m", "n", "s", "t", "w", "1")
	b.Set("vowel", "a", "e", "i", "o", "u")
	b.SetExcept("non_u", []string{"{vowel}"}, "u")

	b.Rule("u_drop").Rewrite("u", "1").Right("[EOS]")
	b.Rule("negative").Rewrite("1", "anai").Left("{non_u}", "k", "m", "s", "t")
	b.Rule("negative_w").Rewrite("1", "wanai").Left("{vowel}")
	b.Rule("i_stem").Rewrite("1", "i")

	b.Root("u_drop")
	b.Cell("plain_negative").Label("Plain Negative").Rules("negative_w", "negative")
	b.Cell("polite").Append("masu").Rules("i_stem")
	return b
}

func TestBuilder_Spec(t *testing.T) {
	spec, err := mini().Spec()
	require.NoError(t, err)

	assert.Equal(t, "mini", spec.Name)
	assert.Len(t, spec.Alphabet, 12)
	assert.Equal(t, []string{"u_drop"}, spec.Root)
	require.Len(t, spec.Cells, 2)
	assert.Equal(t, "plain_negative", spec.Cells[0].Name)
	assert.Equal(t, "masu", spec.Cells[1].Append)
	assert.Len(t, spec.Rules["negative"].Rewrite, 1)
}

func TestBuilder_Compile(t *testing.T) {
	g, err := mini().Compile(context.Background())
	require.NoError(t, err)

	tests := []struct {
		word string
		cell string
		want string
	}{
		{"kaku", "plain_negative", "kakanai"},
		{"kau", "plain_negative", "kawanai"},
		{"nomu", "polite", "nomimasu"},
	}
	for _, tt := range tests {
		t.Run(tt.word+"/"+tt.cell, func(t *testing.T) {
			got, err := g.Run(context.Background(), tt.word, grammar.RootChain, tt.cell, grammar.PhonologyChain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilder_ReusesBuilders(t *testing.T) {
	b := New("reuse")
	b.Alphabet("a", "b")
	b.Rule("r").Rewrite("a", "b")
	b.Rule("r").Rewrite("b", "a")
	b.Cell("c").Rules("r")
	b.Cell("c").Label("C")

	spec, err := b.Spec()
	require.NoError(t, err)
	assert.Len(t, spec.Rules["r"].Rewrite, 2)
	require.Len(t, spec.Cells, 1)
	assert.Equal(t, "C", spec.Cells[0].Label)
}

func TestBuilder_Invalid(t *testing.T) {
	b := New("broken")
	b.Alphabet("a")
	b.Cell("c").Rules("missing")

	_, err := b.Spec()
	require.ErrorIs(t, err, grammar.ErrInvalidGrammar)
	assert.Contains(t, err.Error(), `unknown rule "missing"`)

	_, err = b.Compile(context.Background())
	assert.ErrorIs(t, err, grammar.ErrInvalidGrammar)
}

func TestBuilder_Marshal(t *testing.T) {
	spec, err := mini().Spec()
	require.NoError(t, err)

	out, err := spec.Marshal()
	require.NoError(t, err)

	back, err := grammar.Parse(out, "yaml")
	require.NoError(t, err)
	g, err := grammar.Compile(context.Background(), back)
	require.NoError(t, err)

	got, err := g.Run(context.Background(), "kaku", grammar.RootChain, "plain_negative")
	require.NoError(t, err)
	assert.Equal(t, "kakanai", got)
}
