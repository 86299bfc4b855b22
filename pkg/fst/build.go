package fst

// Side selects a tape of a transducer.
type Side int

const (
	// Input is the upper tape.
	Input Side = iota
	// Output is the lower tape.
	Output
)

// Identity returns the acceptor of any one of the given labels.
func Identity(ab *Alphabet, labels ...Label) *FST {
	f := newFST(ab)
	f.start = f.addState()
	end := f.addState()
	f.setFinal(end, 0)
	for _, l := range labels {
		f.addArc(f.start, Arc{In: l, Out: l, Next: end})
	}
	return f
}

// Union returns a machine accepting the union of the operands. A new start state has
// epsilon arcs to each operand's start state.
func Union(first *FST, rest ...*FST) *FST {
	all := append([]*FST{first}, rest...)
	if !sameAlphabet(all...) {
		return Empty(first.alpha)
	}

	f := newFST(first.alpha)
	f.start = f.addState()
	for _, g := range all {
		offset := f.embed(g)
		f.addArc(f.start, Arc{Next: g.start + offset})
	}
	return f
}

// Concat returns the concatenation of the operands in order.
func Concat(first *FST, rest ...*FST) *FST {
	all := append([]*FST{first}, rest...)
	if !sameAlphabet(all...) {
		return Empty(first.alpha)
	}

	f := newFST(first.alpha)
	offset := f.embed(first)
	f.start = first.start + offset
	finals := finalStates(f, offset, StateID(len(f.states)))

	for _, g := range rest {
		offset = f.embed(g)
		next := g.start + offset
		for _, s := range finals {
			f.addArc(s, Arc{Weight: f.states[s].final, Next: next})
			f.setFinal(s, nonFinal)
		}
		finals = finalStates(f, offset, StateID(len(f.states)))
	}
	return f
}

func finalStates(f *FST, from, to StateID) []StateID {
	var out []StateID
	for s := from; s < to; s++ {
		if f.isFinal(s) {
			out = append(out, s)
		}
	}
	return out
}

// Closure returns the Kleene star of a. The empty string is always accepted.
func Closure(a *FST) *FST {
	f := newFST(a.alpha)
	f.start = f.addState()
	f.setFinal(f.start, 0)
	offset := f.embed(a)
	f.addArc(f.start, Arc{Next: a.start + offset})
	for s := offset; s < StateID(len(f.states)); s++ {
		if f.isFinal(s) {
			f.addArc(s, Arc{Weight: f.states[s].final, Next: f.start})
			f.setFinal(s, nonFinal)
		}
	}
	return f
}

// Plus returns one or more repetitions of a.
func Plus(a *FST) *FST {
	return Concat(a, Closure(a))
}

// Optional returns a or the empty string.
func Optional(a *FST) *FST {
	return Union(a, EmptyString(a.alpha))
}

// Project copies one tape onto both, turning a into an acceptor.
func Project(a *FST, side Side) *FST {
	return mapArcs(a, func(arc Arc) Arc {
		if side == Input {
			arc.Out = arc.In
		} else {
			arc.In = arc.Out
		}
		return arc
	})
}

// Invert swaps the input and output tapes.
func Invert(a *FST) *FST {
	return mapArcs(a, func(arc Arc) Arc {
		arc.In, arc.Out = arc.Out, arc.In
		return arc
	})
}

// Cross maps every string accepted by a to every string accepted by b. Both operands are
// read as acceptors over their input tape.
func Cross(a, b *FST) *FST {
	if !sameAlphabet(a, b) {
		return Empty(a.alpha)
	}
	upper := mapArcs(a, func(arc Arc) Arc {
		arc.Out = Epsilon
		return arc
	})
	lower := mapArcs(b, func(arc Arc) Arc {
		arc.Out = arc.In
		arc.In = Epsilon
		return arc
	})
	return Concat(upper, lower)
}

// Reverse returns the machine accepting the reversed pairs of a.
func Reverse(a *FST) *FST {
	f := newFST(a.alpha)
	for range a.states {
		f.addState()
	}
	f.start = f.addState()
	for s, st := range a.states {
		for _, arc := range st.arcs {
			f.addArc(arc.Next, Arc{In: arc.In, Out: arc.Out, Weight: arc.Weight, Next: StateID(s)})
		}
		if a.isFinal(StateID(s)) {
			f.addArc(f.start, Arc{Weight: st.final, Next: StateID(s)})
		}
	}
	f.setFinal(a.start, 0)
	return f
}

func mapArcs(a *FST, fn func(Arc) Arc) *FST {
	f := newFST(a.alpha)
	f.start = a.start
	f.states = make([]state, len(a.states))
	for s, st := range a.states {
		arcs := make([]Arc, len(st.arcs))
		for i, arc := range st.arcs {
			arcs[i] = fn(arc)
		}
		f.states[s] = state{arcs: arcs, final: st.final}
	}
	return f
}
