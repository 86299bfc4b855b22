package fst

import (
	"fmt"
	"math"
	"strings"
)

// StateID identifies a state within one FST.
type StateID int

// NoState marks a missing state.
const NoState StateID = -1

// Arc is a labeled transition. Epsilon on either side consumes or emits nothing.
type Arc struct {
	In     Label
	Out    Label
	Weight float64
	Next   StateID
}

type state struct {
	arcs  []Arc
	final float64
}

// FST is an immutable weighted finite-state transducer.
type FST struct {
	alpha  *Alphabet
	states []state
	start  StateID
}

var nonFinal = math.Inf(1)

func newFST(ab *Alphabet) *FST {
	return &FST{alpha: ab, start: NoState}
}

func (f *FST) addState() StateID {
	f.states = append(f.states, state{final: nonFinal})
	return StateID(len(f.states) - 1)
}

func (f *FST) addArc(s StateID, a Arc) {
	f.states[s].arcs = append(f.states[s].arcs, a)
}

func (f *FST) setFinal(s StateID, w float64) {
	f.states[s].final = w
}

// embed copies the states of g into f and returns the offset of g's states.
func (f *FST) embed(g *FST) StateID {
	offset := StateID(len(f.states))
	for _, st := range g.states {
		arcs := make([]Arc, len(st.arcs))
		for i, a := range st.arcs {
			a.Next += offset
			arcs[i] = a
		}
		f.states = append(f.states, state{arcs: arcs, final: st.final})
	}
	return offset
}

// Empty returns the machine that accepts nothing.
func Empty(ab *Alphabet) *FST {
	f := newFST(ab)
	f.start = f.addState()
	return f
}

// EmptyString returns the machine that accepts only the empty string.
func EmptyString(ab *Alphabet) *FST {
	f := Empty(ab)
	f.setFinal(f.start, 0)
	return f
}

// Alphabet returns the catalog the machine was built from.
func (f *FST) Alphabet() *Alphabet { return f.alpha }

// Start returns the start state.
func (f *FST) Start() StateID { return f.start }

// NumStates returns the number of states.
func (f *FST) NumStates() int { return len(f.states) }

// NumArcs returns the total number of arcs.
func (f *FST) NumArcs() int {
	n := 0
	for _, st := range f.states {
		n += len(st.arcs)
	}
	return n
}

// Arcs returns a copy of the arcs leaving s.
func (f *FST) Arcs(s StateID) []Arc {
	out := make([]Arc, len(f.states[s].arcs))
	copy(out, f.states[s].arcs)
	return out
}

// Final returns the final weight of s and whether s is accepting.
func (f *FST) Final(s StateID) (float64, bool) {
	w := f.states[s].final
	return w, !math.IsInf(w, 1)
}

func (f *FST) isFinal(s StateID) bool {
	return !math.IsInf(f.states[s].final, 1)
}

// IsAcceptor reports whether every arc has equal input and output labels.
func (f *FST) IsAcceptor() bool {
	for _, st := range f.states {
		for _, a := range st.arcs {
			if a.In != a.Out {
				return false
			}
		}
	}
	return true
}

// Equal reports structural equality: same alphabet, numbering, arcs and final weights.
func (f *FST) Equal(g *FST) bool {
	if f.alpha != g.alpha || f.start != g.start || len(f.states) != len(g.states) {
		return false
	}
	for i := range f.states {
		a, b := f.states[i], g.states[i]
		if a.final != b.final || len(a.arcs) != len(b.arcs) {
			return false
		}
		for j := range a.arcs {
			if a.arcs[j] != b.arcs[j] {
				return false
			}
		}
	}
	return true
}

// String renders the machine in AT&T text format.
func (f *FST) String() string {
	var sb strings.Builder
	sym := func(l Label) string {
		if l == Epsilon {
			return "<eps>"
		}
		return f.alpha.Symbol(l)
	}
	for i, st := range f.states {
		for _, a := range st.arcs {
			fmt.Fprintf(&sb, "%d\t%d\t%s\t%s", i, a.Next, sym(a.In), sym(a.Out))
			if a.Weight != 0 {
				fmt.Fprintf(&sb, "\t%g", a.Weight)
			}
			sb.WriteByte('\n')
		}
		if f.isFinal(StateID(i)) {
			fmt.Fprintf(&sb, "%d", i)
			if st.final != 0 {
				fmt.Fprintf(&sb, "\t%g", st.final)
			}
			sb.WriteByte('\n')
		}
	}
	return fmt.Sprintf("start %d\n%s", f.start, sb.String())
}

func sameAlphabet(fsts ...*FST) bool {
	for _, g := range fsts[1:] {
		if g.alpha != fsts[0].alpha {
			return false
		}
	}
	return true
}
