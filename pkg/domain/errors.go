package domain

import "errors"

// ErrCellNotFound is returned when a paradigm cell name is not defined by the grammar.
var ErrCellNotFound = errors.New("cell not found")

// ErrRuleNotFound is returned when a rule or chain name is not registered.
var ErrRuleNotFound = errors.New("rule not found")

// ErrNotApplicable is returned when a word has no single surface form in a cell.
// It wraps the engine error that explains why (no output or ambiguous output).
var ErrNotApplicable = errors.New("form not applicable")

// ErrEntryNotFound is returned when a lexicon does not contain the requested word.
var ErrEntryNotFound = errors.New("entry not found")

// ErrCacheMiss is returned by caches when no form is stored for a key.
var ErrCacheMiss = errors.New("cache miss")
