package fst

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Label identifies a symbol within an Alphabet. The zero Label is epsilon.
type Label int

// Epsilon consumes or produces nothing.
const Epsilon Label = 0

// Reserved boundary markers. They are declared in every Alphabet.
const (
	BOS = "[BOS]"
	EOS = "[EOS]"
)

const (
	bosLabel Label = 1
	eosLabel Label = 2
)

// Alphabet is the symbol catalog shared by every machine built from it.
// It is immutable after NewAlphabet returns and safe for concurrent use.
type Alphabet struct {
	symbols []string
	index   map[string]Label
	// multi holds multi-character literals, longest first, for tokenization.
	multi []string
}

// NewAlphabet declares the given symbols. Duplicates are ignored.
// A symbol of more than one character is a multi-character literal.
func NewAlphabet(symbols ...string) (*Alphabet, error) {
	ab := &Alphabet{
		symbols: []string{"", BOS, EOS},
		index:   map[string]Label{BOS: bosLabel, EOS: eosLabel},
	}

	for _, s := range symbols {
		if s == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrInvalidSymbol)
		}
		if _, ok := ab.index[s]; ok {
			continue
		}
		ab.index[s] = Label(len(ab.symbols))
		ab.symbols = append(ab.symbols, s)
	}

	for s := range ab.index {
		if utf8.RuneCountInString(s) > 1 {
			ab.multi = append(ab.multi, s)
		}
	}
	sort.Slice(ab.multi, func(i, j int) bool {
		if len(ab.multi[i]) != len(ab.multi[j]) {
			return len(ab.multi[i]) > len(ab.multi[j])
		}
		return ab.multi[i] < ab.multi[j]
	})

	return ab, nil
}

// Len returns the number of labels, epsilon and boundary markers included.
func (ab *Alphabet) Len() int {
	return len(ab.symbols)
}

// Label returns the label of a declared symbol.
func (ab *Alphabet) Label(symbol string) (Label, bool) {
	l, ok := ab.index[symbol]
	return l, ok
}

// Symbol returns the text of a label. Epsilon is the empty string.
func (ab *Alphabet) Symbol(l Label) string {
	if l < 0 || int(l) >= len(ab.symbols) {
		return fmt.Sprintf("<%d>", int(l))
	}
	return ab.symbols[l]
}

// Symbols returns the declared symbols in declaration order, boundary markers excluded.
func (ab *Alphabet) Symbols() []string {
	out := make([]string, 0, len(ab.symbols)-3)
	out = append(out, ab.symbols[3:]...)
	return out
}

// BOS returns the label of the start-of-string marker.
func (ab *Alphabet) BOS() Label { return bosLabel }

// EOS returns the label of the end-of-string marker.
func (ab *Alphabet) EOS() Label { return eosLabel }

// IsBoundary reports whether l is one of the boundary markers.
func (ab *Alphabet) IsBoundary(l Label) bool {
	return l == bosLabel || l == eosLabel
}

// Tokenize splits s into labels, preferring the longest multi-character literal at each
// offset.
func (ab *Alphabet) Tokenize(s string) ([]Label, error) {
	labels := make([]Label, 0, len(s))
	for i := 0; i < len(s); {
		matched := false
		for _, m := range ab.multi {
			if strings.HasPrefix(s[i:], m) {
				labels = append(labels, ab.index[m])
				i += len(m)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		l, ok := ab.index[string(r)]
		if !ok {
			return nil, &SymbolError{Input: s, Offset: i, Text: string(r)}
		}
		labels = append(labels, l)
		i += size
	}
	return labels, nil
}

// String renders labels back to text, skipping epsilon.
func (ab *Alphabet) String(labels []Label) string {
	var sb strings.Builder
	for _, l := range labels {
		if l == Epsilon {
			continue
		}
		sb.WriteString(ab.Symbol(l))
	}
	return sb.String()
}

// Acceptor builds the single-path acceptor of s.
func (ab *Alphabet) Acceptor(s string) (*FST, error) {
	labels, err := ab.Tokenize(s)
	if err != nil {
		return nil, err
	}
	return chain(ab, labels, labels), nil
}

// Transducer builds the single-path transducer mapping in to out. The shorter side is
// padded with epsilon at the end.
func (ab *Alphabet) Transducer(in, out string) (*FST, error) {
	inLabels, err := ab.Tokenize(in)
	if err != nil {
		return nil, err
	}
	outLabels, err := ab.Tokenize(out)
	if err != nil {
		return nil, err
	}
	for len(inLabels) < len(outLabels) {
		inLabels = append(inLabels, Epsilon)
	}
	for len(outLabels) < len(inLabels) {
		outLabels = append(outLabels, Epsilon)
	}
	return chain(ab, inLabels, outLabels), nil
}

// Sigma returns the acceptor of any single declared symbol, boundary markers excluded.
func (ab *Alphabet) Sigma() *FST {
	labels := make([]Label, 0, len(ab.symbols)-3)
	for l := Label(3); int(l) < len(ab.symbols); l++ {
		labels = append(labels, l)
	}
	return Identity(ab, labels...)
}

// SigmaStar returns the closure of Sigma.
func (ab *Alphabet) SigmaStar() *FST {
	return Closure(ab.Sigma())
}

func chain(ab *Alphabet, in, out []Label) *FST {
	f := newFST(ab)
	s := f.addState()
	f.start = s
	for i := range in {
		next := f.addState()
		f.addArc(s, Arc{In: in[i], Out: out[i], Next: next})
		s = next
	}
	f.setFinal(s, 0)
	return f
}
