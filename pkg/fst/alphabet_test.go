package fst_test

import (
	"errors"
	"testing"

	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAlphabet(t *testing.T) *fst.Alphabet {
	t.Helper()
	ab, err := fst.NewAlphabet(
		"a", "e", "i", "o", "u",
		"k", "r", "s", "t", "n", "w", "y", "m",
		"X", "Y", "1", "2",
		"[kuru]", "[ts]",
	)
	require.NoError(t, err)
	return ab
}

func render(ab *fst.Alphabet, labels []fst.Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = ab.Symbol(l)
	}
	return out
}

func TestAlphabet_TokenizeMultiCharacter(t *testing.T) {
	ab := newTestAlphabet(t)

	tests := []struct {
		input string
		want  []string
	}{
		{"[ts]u", []string{"[ts]", "u"}},
		{"kuru", []string{"k", "u", "r", "u"}},
		{"[kuru]", []string{"[kuru]"}},
		{"[BOS]a[EOS]", []string{fst.BOS, "a", fst.EOS}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			labels, err := ab.Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(ab, labels))
		})
	}
}

func TestAlphabet_InvalidSymbol(t *testing.T) {
	ab := newTestAlphabet(t)

	_, err := ab.Tokenize("kaq")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fst.ErrInvalidSymbol))

	var symErr *fst.SymbolError
	require.True(t, errors.As(err, &symErr))
	assert.Equal(t, 2, symErr.Offset)
	assert.Equal(t, "q", symErr.Text)

	_, err = ab.Acceptor("[ts")
	assert.ErrorIs(t, err, fst.ErrInvalidSymbol)

	_, err = fst.NewAlphabet("a", "")
	assert.ErrorIs(t, err, fst.ErrInvalidSymbol)
}

func TestAlphabet_Symbols(t *testing.T) {
	ab, err := fst.NewAlphabet("a", "b", "a", "[ch]")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "[ch]"}, ab.Symbols())
	assert.Equal(t, 6, ab.Len())

	l, ok := ab.Label("[ch]")
	require.True(t, ok)
	assert.Equal(t, "[ch]", ab.Symbol(l))
	assert.True(t, ab.IsBoundary(ab.BOS()))
	assert.True(t, ab.IsBoundary(ab.EOS()))
	assert.False(t, ab.IsBoundary(l))
	assert.Equal(t, "", ab.Symbol(fst.Epsilon))
}
