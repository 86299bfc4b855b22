package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCacheContract runs a suite of tests to verify that a Cache implementation
// adheres to the defined interface contract.
func RunCacheContract(t *testing.T, cache Cache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, "kaita", 0)
		require.NoError(t, err, "Set should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "kaita", got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "kakanai", 0))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "kakanai", got)
	})

	t.Run("Empty Surface", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key+"-empty", "", 0))

		got, err := cache.Get(ctx, key+"-empty")
		require.NoError(t, err, "an empty form is a valid cached value")
		assert.Equal(t, "", got)
	})

	t.Run("Miss", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}

// RunLexiconContract verifies that a LexiconLoader lists its entries consistently.
func RunLexiconContract(t *testing.T, lexicon LexiconLoader) {
	ctx := context.Background()

	lists, err := lexicon.Lists(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, lists, "contract needs a lexicon with at least one list")

	all, err := lexicon.Entries(ctx, "")
	require.NoError(t, err)

	total := 0
	for _, list := range lists {
		entries, err := lexicon.Entries(ctx, list)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotEmpty(t, e.Word, "list %s has an entry without a word", list)
		}
		total += len(entries)
	}
	assert.Len(t, all, total, "all entries equals the sum of the lists")

	_, err = lexicon.Entries(ctx, "missing-list")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
