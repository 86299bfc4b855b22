package fst_test

import (
	"sync"
	"testing"

	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteString(t *testing.T) {
	ab := newTestAlphabet(t)

	tests := []struct {
		name        string
		from, to    string
		left, right string
		input       string
		want        string
	}{
		{"non-overlapping leftmost", "aa", "X", "", "", "aaa", "Xa"},
		{"adjacent matches", "aa", "X", "", "", "aaaa", "XX"},
		{"every occurrence", "a", "X", "", "", "kaka", "kXkX"},
		{"pattern absent", "kkk", "X", "", "", "kaka", "kaka"},
		{"left context absent", "a", "X", "kkk", "", "kaka", "kaka"},
		{"right context", "t", "X", "", "i", "tati", "taXi"},
		{"boundaries match", "kuru", "[kuru]", "[BOS]", "[EOS]", "kuru", "[kuru]"},
		{"boundaries block", "kuru", "[kuru]", "[BOS]", "[EOS]", "kuruyo", "kuruyo"},
		{"anchored left", "kt", "i", "[BOS]ya", "te", "yaktte", "yaite"},
		{"anchored left blocks", "kt", "i", "[BOS]ya", "te", "kaktte", "kaktte"},
		{"contexts read on input", "a", "X", "a", "", "aaa", "aXX"},
		{"empty word", "a", "X", "", "", "", ""},
		{"insertion after match", "u1", "wanai", "a", "[EOS]", "au1", "awanai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := fst.RewriteString(ab, tt.from, tt.to, tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, apply(t, rule, tt.input))
		})
	}
}

func TestRewrite_LongestMatch(t *testing.T) {
	ab := newTestAlphabet(t)
	tau := fst.Union(transducer(t, ab, "a", "Y"), transducer(t, ab, "aa", "X"))

	rule, err := fst.Rewrite(tau, ab.SigmaStar(), ab.SigmaStar(), ab.SigmaStar())
	require.NoError(t, err)
	assert.Equal(t, "XY", apply(t, rule, "aaa"))
	assert.Equal(t, "X", apply(t, rule, "aa"))
	assert.Equal(t, "kY", apply(t, rule, "ka"))
}

func TestRewrite_ContextSets(t *testing.T) {
	ab := newTestAlphabet(t)
	vowel := fst.Union(
		acceptor(t, ab, "a"), acceptor(t, ab, "e"), acceptor(t, ab, "i"),
		acceptor(t, ab, "o"), acceptor(t, ab, "u"),
	)
	eos := acceptor(t, ab, fst.EOS)

	afterVowel, err := fst.Rewrite(transducer(t, ab, "u1", "wanai"), vowel, eos, ab.SigmaStar())
	require.NoError(t, err)
	fallback, err := fst.RewriteString(ab, "u1", "anai", "", "[EOS]")
	require.NoError(t, err)

	chain, err := fst.ComposeAll(afterVowel, fallback)
	require.NoError(t, err)

	assert.Equal(t, "awanai", apply(t, chain, "au1"))
	assert.Equal(t, "kanai", apply(t, chain, "ku1"))
	assert.Equal(t, "ku1", apply(t, afterVowel, "ku1"))
}

func TestRewrite_Deletion(t *testing.T) {
	ab := newTestAlphabet(t)
	consonant := fst.Union(acceptor(t, ab, "k"), acceptor(t, ab, "t"), acceptor(t, ab, "s"))
	drop := fst.Cross(consonant, fst.EmptyString(ab))

	rule, err := fst.Rewrite(drop, ab.SigmaStar(), acceptor(t, ab, "tta[EOS]"), ab.SigmaStar())
	require.NoError(t, err)
	assert.Equal(t, "katta", apply(t, rule, "kaktta"))
	assert.Equal(t, "kakttai", apply(t, rule, "kakttai"))
}

func TestRewrite_InvalidRules(t *testing.T) {
	ab := newTestAlphabet(t)

	tests := []struct {
		name        string
		from, to    string
		left, right string
	}{
		{"empty pattern", "", "X", "", ""},
		{"end marker on the left", "a", "X", "[EOS]", ""},
		{"start marker on the right", "a", "X", "", "[BOS]"},
		{"boundary in pattern", "[BOS]a", "X", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fst.RewriteString(ab, tt.from, tt.to, tt.left, tt.right)
			assert.ErrorIs(t, err, fst.ErrInvalidRule)
		})
	}

	t.Run("empty context", func(t *testing.T) {
		_, err := fst.Rewrite(transducer(t, ab, "a", "X"), fst.Empty(ab), ab.SigmaStar(), ab.SigmaStar())
		assert.ErrorIs(t, err, fst.ErrInvalidRule)
	})

	t.Run("mixed alphabets", func(t *testing.T) {
		other, err := fst.NewAlphabet("a", "X")
		require.NoError(t, err)
		_, err = fst.Rewrite(transducer(t, other, "a", "X"), ab.SigmaStar(), ab.SigmaStar(), ab.SigmaStar())
		assert.ErrorIs(t, err, fst.ErrInvalidRule)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := fst.RewriteString(ab, "q", "X", "", "")
		assert.ErrorIs(t, err, fst.ErrInvalidSymbol)
	})
}

func TestRewrite_StateBudget(t *testing.T) {
	ab := newTestAlphabet(t)

	_, err := fst.RewriteString(ab, "aa", "X", "", "", fst.WithMaxStates(2))
	assert.ErrorIs(t, err, fst.ErrNonConvergent)
}

func TestRewrite_ConcurrentApply(t *testing.T) {
	ab := newTestAlphabet(t)
	rule, err := fst.RewriteString(ab, "aa", "X", "", "")
	require.NoError(t, err)
	word := acceptor(t, ab, "aaa")

	var wg sync.WaitGroup
	results := make([]string, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := fst.Apply(rule, word)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = fst.Stringify(out)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "Xa", results[i])
	}
}
