package fst

// Compose returns the composition of a and b: the output tape of a is matched against the
// input tape of b.
//
// Epsilon moves are sequenced so that each alignment yields one path: a may advance alone
// on an output epsilon only before b has advanced alone on an input epsilon. Machines
// built from different alphabets, or whose tapes never meet, compose to the empty
// language. The result is trimmed but not optimized.
func Compose(a, b *FST) *FST {
	if !sameAlphabet(a, b) {
		return Empty(a.alpha)
	}

	type triple struct {
		a, b   StateID
		filter uint8
	}

	byInput := make(map[StateID]map[Label][]Arc)
	indexed := func(s StateID) map[Label][]Arc {
		if m, ok := byInput[s]; ok {
			return m
		}
		m := make(map[Label][]Arc)
		for _, arc := range b.states[s].arcs {
			m[arc.In] = append(m[arc.In], arc)
		}
		byInput[s] = m
		return m
	}

	f := newFST(a.alpha)
	ids := make(map[triple]StateID)
	var queue []triple
	visit := func(t triple) StateID {
		if id, ok := ids[t]; ok {
			return id
		}
		id := f.addState()
		ids[t] = id
		queue = append(queue, t)
		return id
	}

	f.start = visit(triple{a.start, b.start, 0})
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		id := ids[t]

		if a.isFinal(t.a) && b.isFinal(t.b) {
			f.setFinal(id, a.states[t.a].final+b.states[t.b].final)
		}

		bArcs := indexed(t.b)
		for _, ea := range a.states[t.a].arcs {
			if ea.Out == Epsilon {
				if t.filter == 0 {
					next := visit(triple{ea.Next, t.b, 0})
					f.addArc(id, Arc{In: ea.In, Out: Epsilon, Weight: ea.Weight, Next: next})
				}
				continue
			}
			for _, eb := range bArcs[ea.Out] {
				next := visit(triple{ea.Next, eb.Next, 0})
				f.addArc(id, Arc{In: ea.In, Out: eb.Out, Weight: ea.Weight + eb.Weight, Next: next})
			}
		}
		for _, eb := range bArcs[Epsilon] {
			next := visit(triple{t.a, eb.Next, 1})
			f.addArc(id, Arc{In: Epsilon, Out: eb.Out, Weight: eb.Weight, Next: next})
		}
	}
	return Connect(f)
}

// ComposeAll folds Compose over the operands from left to right, optimizing after each
// step to keep intermediate machines small.
func ComposeAll(first *FST, rest ...*FST) (*FST, error) {
	out := first
	for _, next := range rest {
		composed, err := Optimize(Compose(out, next))
		if err != nil {
			return nil, err
		}
		out = composed
	}
	return out, nil
}

// Apply runs input through t: Optimize(Compose(input, t)).
func Apply(t, input *FST, opts ...Option) (*FST, error) {
	return Optimize(Compose(input, t), opts...)
}
