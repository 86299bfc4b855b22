package fst

// Difference returns the acceptor of the strings accepted by a but not by b. Both
// operands are read as acceptors over their input tape.
func Difference(a, b *FST, opts ...Option) (*FST, error) {
	if !sameAlphabet(a, b) {
		return Empty(a.alpha), nil
	}
	da, err := Optimize(Project(a, Input), opts...)
	if err != nil {
		return nil, err
	}
	db, err := Optimize(Project(b, Input), opts...)
	if err != nil {
		return nil, err
	}

	type pair struct{ a, b StateID }
	f := newFST(a.alpha)
	ids := make(map[pair]StateID)
	var queue []pair

	visit := func(p pair) StateID {
		if id, ok := ids[p]; ok {
			return id
		}
		id := f.addState()
		ids[p] = id
		queue = append(queue, p)
		return id
	}

	f.start = visit(pair{da.start, db.start})
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		id := ids[p]

		if da.isFinal(p.a) && (p.b == NoState || !db.isFinal(p.b)) {
			f.setFinal(id, da.states[p.a].final)
		}
		for _, arc := range da.states[p.a].arcs {
			nb := NoState
			if p.b != NoState {
				nb = step(db, p.b, arc.In)
			}
			f.addArc(id, Arc{In: arc.In, Out: arc.In, Weight: arc.Weight, Next: visit(pair{arc.Next, nb})})
		}
	}
	return Optimize(f, opts...)
}

// step follows the arc labeled l on the input tape of a deterministic acceptor.
func step(d *FST, s StateID, l Label) StateID {
	for _, arc := range d.states[s].arcs {
		if arc.In == l {
			return arc.Next
		}
	}
	return NoState
}
