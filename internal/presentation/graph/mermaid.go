package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/katsuyo/pkg/fst"
)

// Options bound the size of the generated diagram.
type Options struct {
	// MaxStates stops rendering after this many states (0 means no limit).
	MaxStates int
	// MaxLabels caps the labels shown on one edge (0 means no limit).
	MaxLabels int
}

// DefaultOptions keeps diagrams of compiled rules readable.
var DefaultOptions = Options{MaxStates: 200, MaxLabels: 6}

// GenerateMermaid produces a Mermaid flowchart syntax string from a transducer.
// It applies semantic styling:
// - Start: ((Circle))
// - Final: (((Double circle))), annotated with the final weight when non-zero
// - Default: (Rounded)
// Parallel arcs between two states are merged into one edge whose label lists the arcs.
func GenerateMermaid(f *fst.FST, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ab := f.Alphabet()
	n := f.NumStates()
	truncated := false
	if opts.MaxStates > 0 && n > opts.MaxStates {
		n = opts.MaxStates
		truncated = true
	}

	for s := fst.StateID(0); int(s) < n; s++ {
		opener, closer := "(", ")"
		label := fmt.Sprint(int(s))
		if w, ok := f.Final(s); ok {
			opener, closer = "(((", ")))"
			if w != 0 && !math.IsInf(w, 1) {
				label = fmt.Sprintf("%d/%g", int(s), w)
			}
		}
		if s == f.Start() {
			opener, closer = "((", "))"
			if _, ok := f.Final(s); ok {
				opener, closer = "(((", ")))"
			}
		}
		sb.WriteString(fmt.Sprintf("    s%d%s\"%s\"%s\n", int(s), opener, label, closer))
	}

	for s := fst.StateID(0); int(s) < n; s++ {
		var order []fst.StateID
		edges := make(map[fst.StateID][]string)
		for _, a := range f.Arcs(s) {
			if int(a.Next) >= n {
				continue
			}
			if _, ok := edges[a.Next]; !ok {
				order = append(order, a.Next)
			}
			edges[a.Next] = append(edges[a.Next], arcLabel(ab, a))
		}
		for _, next := range order {
			sb.WriteString(fmt.Sprintf("    s%d -- \"%s\" --> s%d\n", int(s), edgeLabel(edges[next], opts.MaxLabels), int(next)))
		}
	}

	if truncated {
		sb.WriteString(fmt.Sprintf("    %%%% truncated: %d of %d states shown\n", n, f.NumStates()))
	}
	return sb.String()
}

func arcLabel(ab *fst.Alphabet, a fst.Arc) string {
	in, out := symbol(ab, a.In), symbol(ab, a.Out)
	label := in
	if a.In != a.Out {
		label = in + ":" + out
	}
	if a.Weight != 0 {
		label += fmt.Sprintf("/%g", a.Weight)
	}
	return label
}

func symbol(ab *fst.Alphabet, l fst.Label) string {
	switch text := ab.Symbol(l); {
	case l == fst.Epsilon:
		return "ε"
	case text == " ":
		return "␣"
	default:
		return strings.ReplaceAll(text, "\"", "#quot;")
	}
}

func edgeLabel(labels []string, max int) string {
	if max > 0 && len(labels) > max {
		return fmt.Sprintf("%s, +%d", strings.Join(labels[:max], ", "), len(labels)-max)
	}
	return strings.Join(labels, ", ")
}
