package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/katsuyo/internal/testutils"
	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/ports"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, files map[string]string) *Lexicon {
	t.Helper()
	tmpDir, repo := testutils.SetupTestRepo(t)
	for filename, content := range files {
		err := os.WriteFile(filepath.Join(tmpDir, filename), []byte(content), 0644)
		require.NoError(t, err)
	}
	return New(loam.NewTypedRepository[ListMetadata](repo))
}

func TestLexicon_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	docs := []core.Document{
		{
			ID: "godan.md",
			Content: `---
words:
  - kaku
  - matsu
  - word: hairu1
    gloss: enter
---
Group 1 verbs`,
		},
		{
			ID: "ichidan.md",
			Content: `---
words:
  - taberu
---
Group 2 verbs`,
		},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	lexicon := New(loam.NewTypedRepository[ListMetadata](repo))
	ports.RunLexiconContract(t, lexicon)
}

func TestLexicon_NamesAndFormats(t *testing.T) {
	lexicon := seed(t, map[string]string{
		"godan.md": `---
words: [kaku, matsu]
---
`,
		"irregular.json": `{"name": "irregular", "words": ["kuru", {"word": "suru", "gloss": "do"}]}`,
		"named.md": `---
name: exceptions
words: [hairu1, iru1]
---
`,
	})
	ctx := context.Background()

	lists, err := lexicon.Lists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"exceptions", "godan", "irregular"}, lists)

	entries, err := lexicon.Entries(ctx, "irregular")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "kuru", entries[0].Word)
	assert.Equal(t, domain.Entry{Word: "suru", Gloss: "do"}, entries[1])

	all, err := lexicon.Entries(ctx, "")
	require.NoError(t, err)
	words := make([]string, len(all))
	for i, e := range all {
		words[i] = e.Word
	}
	assert.Equal(t, []string{"hairu1", "iru1", "kaku", "matsu", "kuru", "suru"}, words)
}

func TestLexicon_DetectsCollisions(t *testing.T) {
	lexicon := seed(t, map[string]string{
		"verbs.md": `---
words: [kaku]
---
`,
		"verbs.json": `{"words": ["matsu"]}`,
	})

	_, err := lexicon.Lists(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLexicon_InvalidEntry(t *testing.T) {
	lexicon := seed(t, map[string]string{
		"bad.md": `---
words:
  - gloss: no word here
---
`,
	})

	_, err := lexicon.Entries(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing word")
}
