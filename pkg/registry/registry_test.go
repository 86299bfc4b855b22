package registry_test

import (
	"sync"
	"testing"

	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/aretw0/katsuyo/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRule(t *testing.T, ab *fst.Alphabet, from, to string) *fst.FST {
	t.Helper()
	rule, err := fst.RewriteString(ab, from, to, "", "")
	require.NoError(t, err)
	return rule
}

func TestRegistry_GetAndChain(t *testing.T) {
	ab, err := fst.NewAlphabet("a", "b", "c")
	require.NoError(t, err)

	r := registry.NewRegistry()
	ab2c := newRule(t, ab, "a", "b")
	b2c := newRule(t, ab, "b", "c")
	r.Register("a2b", ab2c)
	r.Register("b2c", b2c)
	r.Define("both", "a2b", "b2c")
	r.Define("twice", "both", "both")

	got, err := r.Get("a2b")
	require.NoError(t, err)
	assert.Same(t, ab2c, got)

	chain, err := r.Chain("twice")
	require.NoError(t, err)
	require.Len(t, chain, 4)
	assert.Same(t, ab2c, chain[0])
	assert.Same(t, b2c, chain[3])

	assert.Equal(t, []string{"a2b", "b2c", "both", "twice"}, r.Names())
	assert.True(t, r.Has("both"))
	assert.False(t, r.Has("missing"))
}

func TestRegistry_Errors(t *testing.T) {
	r := registry.NewRegistry()

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)

	r.Define("loop", "loop")
	_, err = r.Chain("loop")
	assert.Error(t, err)

	r.Define("broken", "missing")
	_, err = r.Chain("broken")
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	ab, err := fst.NewAlphabet("a")
	require.NoError(t, err)
	r := registry.NewRegistry()
	rule := fst.Identity(ab)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register("id", rule)
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Get("id")
			_ = r.Names()
		}()
	}
	wg.Wait()

	assert.True(t, r.Has("id"))
}
