package grammar

import (
	"fmt"
	"strings"

	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/mitchellh/mapstructure"
)

type segment struct {
	text string
	ref  bool
}

// splitPattern cuts a pattern into literal runs and {set} references.
func splitPattern(p string) ([]segment, error) {
	var out []segment
	for p != "" {
		open := strings.IndexByte(p, '{')
		if open < 0 {
			out = append(out, segment{text: p})
			break
		}
		if open > 0 {
			out = append(out, segment{text: p[:open]})
		}
		end := strings.IndexByte(p[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated set reference in %q", p)
		}
		name := p[open+1 : open+end]
		if name == "" {
			return nil, fmt.Errorf("empty set reference in %q", p)
		}
		out = append(out, segment{text: name, ref: true})
		p = p[open+end+1:]
	}
	return out, nil
}

func hasRef(p string) bool {
	return strings.Contains(p, "{")
}

// refs returns the set names a pattern refers to.
func refs(p string) []string {
	segs, err := splitPattern(p)
	if err != nil {
		return nil
	}
	var names []string
	for _, s := range segs {
		if s.ref {
			names = append(names, s.text)
		}
	}
	return names
}

// decodePairs normalizes the polymorphic rewrite list.
func decodePairs(items []any) ([]Pair, error) {
	pairs := make([]Pair, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			from, to, ok := strings.Cut(v, "->")
			if !ok {
				return nil, fmt.Errorf("rewrite %q is not of the form \"from -> to\"", v)
			}
			pairs = append(pairs, Pair{From: strings.TrimSpace(from), To: strings.TrimSpace(to)})
		case Pair:
			pairs = append(pairs, v)
		case map[string]any, map[any]any:
			var p Pair
			if err := mapstructure.Decode(v, &p); err != nil {
				return nil, fmt.Errorf("failed to decode rewrite: %w", err)
			}
			pairs = append(pairs, p)
		default:
			return nil, fmt.Errorf("invalid rewrite definition type: %T", v)
		}
	}
	return pairs, nil
}

// decodeSet normalizes a set definition into its members and exclusions.
func decodeSet(v any) (SetExpr, error) {
	switch s := v.(type) {
	case SetExpr:
		return s, nil
	case string:
		return SetExpr{Of: []string{s}}, nil
	case []string:
		return SetExpr{Of: s}, nil
	case []any:
		members, err := stringList(s)
		if err != nil {
			return SetExpr{}, err
		}
		return SetExpr{Of: members}, nil
	case map[string]any, map[any]any:
		var expr SetExpr
		if err := mapstructure.Decode(s, &expr); err != nil {
			return SetExpr{}, fmt.Errorf("failed to decode set: %w", err)
		}
		return expr, nil
	default:
		return SetExpr{}, fmt.Errorf("invalid set definition type: %T", v)
	}
}

// decodeContext returns the alternatives of a context. A nil result means no constraint.
func decodeContext(v any) ([]string, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{c}, nil
	case []string:
		return c, nil
	case []any:
		return stringList(c)
	default:
		return nil, fmt.Errorf("invalid context definition type: %T", v)
	}
}

func stringList(items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// acceptor compiles a pattern against the alphabet and resolved sets.
func acceptor(ab *fst.Alphabet, sets map[string]*fst.FST, p string) (*fst.FST, error) {
	segs, err := splitPattern(p)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return fst.EmptyString(ab), nil
	}
	parts := make([]*fst.FST, 0, len(segs))
	for _, s := range segs {
		if s.ref {
			set, ok := sets[s.text]
			if !ok {
				return nil, fmt.Errorf("unknown set %q", s.text)
			}
			parts = append(parts, set)
			continue
		}
		a, err := ab.Acceptor(s.text)
		if err != nil {
			return nil, err
		}
		parts = append(parts, a)
	}
	return fst.Concat(parts[0], parts[1:]...), nil
}
