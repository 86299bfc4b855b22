package fst

import (
	"errors"
	"fmt"
)

// ErrInvalidSymbol is returned when a string contains a character that is neither a
// declared symbol nor part of a declared multi-character literal.
var ErrInvalidSymbol = errors.New("invalid symbol")

// ErrInvalidRule is returned by Rewrite when a rule cannot be compiled, for instance when
// its input pattern matches the empty string.
var ErrInvalidRule = errors.New("invalid rewrite rule")

// ErrAmbiguousOutput is returned by Stringify when a machine realizes more than one string.
var ErrAmbiguousOutput = errors.New("ambiguous output")

// ErrNoOutput is returned by Stringify when a machine accepts nothing.
var ErrNoOutput = errors.New("no output")

// ErrNonConvergent is returned when a construction exceeds its state budget.
var ErrNonConvergent = errors.New("construction exceeded state budget")

// SymbolError describes where tokenization failed.
type SymbolError struct {
	Input  string
	Offset int
	Text   string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %q at offset %d in %q", e.Text, e.Offset, e.Input)
}

// Unwrap allows errors.Is(err, ErrInvalidSymbol).
func (e *SymbolError) Unwrap() error {
	return ErrInvalidSymbol
}

func invalidRule(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRule, fmt.Sprintf(format, args...))
}
