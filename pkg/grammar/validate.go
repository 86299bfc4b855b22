package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidGrammar is returned when a grammar document is structurally unsound.
var ErrInvalidGrammar = errors.New("invalid grammar")

// Chain names registered by the compiler besides rules and cells.
const (
	RootChain      = "root"
	PhonologyChain = "phonology"
)

// Validate checks the references of a grammar document without compiling it: rules,
// chains and cells must refer to defined names, and cell bases must be declared earlier.
func Validate(spec *Spec) error {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(spec.Alphabet) == 0 {
		report("alphabet is empty")
	}

	for _, name := range sortedKeys(spec.Sets) {
		expr, err := decodeSet(spec.Sets[name])
		if err != nil {
			report("set %q: %v", name, err)
			continue
		}
		for _, p := range append(append([]string(nil), expr.Of...), expr.Except...) {
			for _, ref := range refs(p) {
				if _, ok := spec.Sets[ref]; !ok {
					report("set %q refers to unknown set %q", name, ref)
				}
			}
		}
	}

	for _, name := range sortedKeys(spec.Rules) {
		if name == RootChain || name == PhonologyChain {
			report("rule name %q is reserved", name)
		}
		r := spec.Rules[name]
		pairs, err := decodePairs(r.Rewrite)
		if err != nil {
			report("rule %q: %v", name, err)
			continue
		}
		if len(pairs) == 0 {
			report("rule %q has no rewrite", name)
		}
		var patterns []string
		for _, p := range pairs {
			patterns = append(patterns, p.From, p.To)
		}
		for _, ctx := range []any{r.Left, r.Right} {
			alts, err := decodeContext(ctx)
			if err != nil {
				report("rule %q: %v", name, err)
			}
			patterns = append(patterns, alts...)
		}
		for _, p := range patterns {
			for _, ref := range refs(p) {
				if _, ok := spec.Sets[ref]; !ok {
					report("rule %q refers to unknown set %q", name, ref)
				}
			}
		}
	}

	for chain, names := range map[string][]string{RootChain: spec.Root, PhonologyChain: spec.Phonology} {
		for _, name := range names {
			if _, ok := spec.Rules[name]; !ok {
				report("%s chain refers to unknown rule %q", chain, name)
			}
		}
	}

	if len(spec.Cells) == 0 {
		report("no cells defined")
	}
	cells := make(map[string]bool)
	for i, c := range spec.Cells {
		switch {
		case c.Name == "":
			report("cell %d has no name", i)
			continue
		case cells[c.Name]:
			report("cell %q is defined twice", c.Name)
		case c.Name == RootChain || c.Name == PhonologyChain:
			report("cell name %q is reserved", c.Name)
		}
		if _, clash := spec.Rules[c.Name]; clash {
			report("cell %q has the same name as a rule", c.Name)
		}
		if c.Base != "" && !cells[c.Base] {
			report("cell %q has base %q, which is not an earlier cell", c.Name, c.Base)
		}
		if c.Base == "" && c.Append == "" && len(c.Rules) == 0 {
			report("cell %q has no base, append or rules", c.Name)
		}
		for _, name := range c.Rules {
			if _, ok := spec.Rules[name]; !ok {
				report("cell %q refers to unknown rule %q", c.Name, name)
			}
		}
		cells[c.Name] = true
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: found %d errors:\n- %s", ErrInvalidGrammar, len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
