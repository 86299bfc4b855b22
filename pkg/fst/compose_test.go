package fst_test

import (
	"testing"

	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_Chain(t *testing.T) {
	ab := newTestAlphabet(t)
	first := transducer(t, ab, "ka", "ki")
	second := transducer(t, ab, "ki", "ku")

	assert.Equal(t, "ku", apply(t, fst.Compose(first, second), "ka"))

	all, err := fst.ComposeAll(first, second, transducer(t, ab, "ku", "kanai"))
	require.NoError(t, err)
	assert.Equal(t, "kanai", apply(t, all, "ka"))
}

func TestCompose_EpsilonAlignment(t *testing.T) {
	ab := newTestAlphabet(t)

	shrink := transducer(t, ab, "ka", "k")
	grow := transducer(t, ab, "k", "kaa")
	assert.Equal(t, "kaa", apply(t, fst.Compose(shrink, grow), "ka"))
}

func TestCompose_SingleAlignmentPerPath(t *testing.T) {
	ab := newTestAlphabet(t)
	deleteA := transducer(t, ab, "a", "")
	insertK := transducer(t, ab, "", "k")

	c := fst.Compose(deleteA, insertK)
	// a:eps then eps:k is the only path kept; the other interleaving is filtered.
	assert.Equal(t, 3, c.NumStates())
	assert.Equal(t, 2, c.NumArcs())
	assert.Equal(t, "k", apply(t, c, "a"))
}

func TestCompose_NoMeetingTapes(t *testing.T) {
	ab := newTestAlphabet(t)

	out, err := fst.Apply(transducer(t, ab, "kkk", "rrr"), acceptor(t, ab, "aaa"))
	require.NoError(t, err)
	_, err = fst.Stringify(out)
	assert.ErrorIs(t, err, fst.ErrNoOutput)
}

func TestCompose_DifferentAlphabets(t *testing.T) {
	ab := newTestAlphabet(t)
	other, err := fst.NewAlphabet("a", "k")
	require.NoError(t, err)

	out, err := fst.Apply(transducer(t, other, "ka", "ak"), acceptor(t, ab, "ka"))
	require.NoError(t, err)
	_, err = fst.Stringify(out)
	assert.ErrorIs(t, err, fst.ErrNoOutput)
}

func TestApply_Deterministic(t *testing.T) {
	ab := newTestAlphabet(t)
	rule, err := fst.RewriteString(ab, "a", "X", "", "")
	require.NoError(t, err)
	word := acceptor(t, ab, "kaka")

	first, err := fst.Apply(rule, word)
	require.NoError(t, err)
	second, err := fst.Apply(rule, word)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}
