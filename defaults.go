package katsuyo

import (
	_ "embed"

	"github.com/aretw0/katsuyo/pkg/adapters/memory"
	"github.com/aretw0/katsuyo/pkg/grammar"
)

//go:embed data/japanese.yaml
var japaneseGrammar []byte

//go:embed data/lexicon.yaml
var defaultLexicon []byte

// DefaultGrammar decodes the embedded Japanese verb grammar.
func DefaultGrammar() (*grammar.Spec, error) {
	return grammar.Parse(japaneseGrammar, "yaml")
}

// DefaultLexicon decodes the embedded verb lists.
func DefaultLexicon() (*memory.Lexicon, error) {
	return memory.ParseLexicon(defaultLexicon)
}
