package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/katsuyo/internal/presentation/graph"
	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	ab, err := fst.NewAlphabet("a", "k", "u", "1", " ")
	require.NoError(t, err)

	acceptor, err := ab.Acceptor("ka")
	require.NoError(t, err)
	transducer, err := ab.Transducer("u", "")
	require.NoError(t, err)
	spaced, err := ab.Acceptor(" ")
	require.NoError(t, err)
	rule, err := fst.RewriteString(ab, "u", "1", "", "[EOS]")
	require.NoError(t, err)

	tests := []struct {
		name     string
		fst      *fst.FST
		opts     graph.Options
		contains []string
	}{
		{
			name: "Acceptor",
			fst:  acceptor,
			contains: []string{
				"graph LR",
				`s0(("0"))`,
				`s2((("2")))`,
				`s0 -- "k" --> s1`,
				`s1 -- "a" --> s2`,
			},
		},
		{
			name:     "Epsilon Output",
			fst:      transducer,
			contains: []string{`s0 -- "u:ε" --> s1`},
		},
		{
			name:     "Space Symbol",
			fst:      spaced,
			contains: []string{`s0 -- "␣" --> s1`},
		},
		{
			name:     "Merged Edges",
			fst:      rule,
			contains: []string{"u:1", ", "},
		},
		{
			name:     "Label Cap",
			fst:      rule,
			opts:     graph.Options{MaxLabels: 1},
			contains: []string{", +"},
		},
		{
			name:     "Truncated",
			fst:      acceptor,
			opts:     graph.Options{MaxStates: 1},
			contains: []string{"%% truncated: 1 of 3 states shown"},
		},
		{
			name:     "Empty Language",
			fst:      fst.Empty(ab),
			contains: []string{"graph LR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.fst, tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_TruncatedDropsEdges(t *testing.T) {
	ab, err := fst.NewAlphabet("a", "k")
	require.NoError(t, err)
	acceptor, err := ab.Acceptor("ka")
	require.NoError(t, err)

	got := graph.GenerateMermaid(acceptor, graph.Options{MaxStates: 2})
	assert.Contains(t, got, `s0 -- "k" --> s1`)
	assert.NotContains(t, got, "s2")
}
