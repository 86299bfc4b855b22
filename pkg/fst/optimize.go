package fst

import (
	"fmt"
	"sort"
	"strconv"
)

// Optimize returns the canonical minimal deterministic equivalent of a.
//
// Epsilon arcs (epsilon on both tapes) are removed, the machine is determinized over
// its (input, output, weight) arc labels, trimmed of unreachable and dead states,
// minimized, and renumbered breadth-first with arcs in label order. For acceptors this
// is the minimal DFA. Optimize is idempotent: Optimize(Optimize(a)) is Equal to
// Optimize(a).
//
// ErrNonConvergent is returned when determinization needs more states than the budget.
func Optimize(a *FST, opts ...Option) (*FST, error) {
	cfg := newConfig(opts)
	d, err := determinize(removeEpsilon(a), cfg.maxStates)
	if err != nil {
		return nil, err
	}
	return canonicalize(minimize(Connect(d))), nil
}

// Connect removes states that are unreachable from the start or cannot reach a final
// state. The language is unchanged.
func Connect(a *FST) *FST {
	n := len(a.states)
	if n == 0 || a.start == NoState {
		return Empty(a.alpha)
	}

	access := make([]bool, n)
	stack := []StateID{a.start}
	access[a.start] = true
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, arc := range a.states[s].arcs {
			if !access[arc.Next] {
				access[arc.Next] = true
				stack = append(stack, arc.Next)
			}
		}
	}

	reverse := make([][]StateID, n)
	for s, st := range a.states {
		for _, arc := range st.arcs {
			reverse[arc.Next] = append(reverse[arc.Next], StateID(s))
		}
	}
	coaccess := make([]bool, n)
	for s := range a.states {
		if a.isFinal(StateID(s)) {
			coaccess[s] = true
			stack = append(stack, StateID(s))
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range reverse[s] {
			if !coaccess[p] {
				coaccess[p] = true
				stack = append(stack, p)
			}
		}
	}

	if !access[a.start] || !coaccess[a.start] {
		return Empty(a.alpha)
	}

	remap := make([]StateID, n)
	f := newFST(a.alpha)
	for s := range a.states {
		remap[s] = NoState
		if access[s] && coaccess[s] {
			remap[s] = f.addState()
		}
	}
	for s, st := range a.states {
		ns := remap[s]
		if ns == NoState {
			continue
		}
		f.setFinal(ns, st.final)
		for _, arc := range st.arcs {
			if next := remap[arc.Next]; next != NoState {
				arc.Next = next
				f.addArc(ns, arc)
			}
		}
	}
	f.start = remap[a.start]
	return f
}

func removeEpsilon(a *FST) *FST {
	f := newFST(a.alpha)
	f.start = a.start
	f.states = make([]state, len(a.states))
	for s := range a.states {
		dist := epsilonClosure(a, StateID(s))
		members := make([]StateID, 0, len(dist))
		for q := range dist {
			members = append(members, q)
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

		st := state{final: nonFinal}
		for _, q := range members {
			d := dist[q]
			for _, arc := range a.states[q].arcs {
				if arc.In == Epsilon && arc.Out == Epsilon {
					continue
				}
				arc.Weight += d
				st.arcs = append(st.arcs, arc)
			}
			if a.isFinal(q) {
				if w := a.states[q].final + d; w < st.final {
					st.final = w
				}
			}
		}
		f.states[s] = st
	}
	return f
}

// epsilonClosure returns the states reachable from s over epsilon arcs with their
// shortest distance.
func epsilonClosure(a *FST, s StateID) map[StateID]float64 {
	dist := map[StateID]float64{s: 0}
	queue := []StateID{s}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, arc := range a.states[q].arcs {
			if arc.In != Epsilon || arc.Out != Epsilon {
				continue
			}
			nd := dist[q] + arc.Weight
			if old, ok := dist[arc.Next]; !ok || nd < old {
				dist[arc.Next] = nd
				queue = append(queue, arc.Next)
			}
		}
	}
	return dist
}

type arcLabel struct {
	in, out Label
	weight  float64
}

func lessLabel(a, b arcLabel) bool {
	if a.in != b.in {
		return a.in < b.in
	}
	if a.out != b.out {
		return a.out < b.out
	}
	return a.weight < b.weight
}

func subsetKey(set []StateID) string {
	buf := make([]byte, 0, len(set)*4)
	for _, s := range set {
		buf = strconv.AppendInt(buf, int64(s), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}

// determinize runs the subset construction over encoded arc labels. a must be free of
// epsilon arcs.
func determinize(a *FST, maxStates int) (*FST, error) {
	f := newFST(a.alpha)
	ids := make(map[string]StateID)
	var subsets [][]StateID

	add := func(set []StateID) (StateID, error) {
		key := subsetKey(set)
		if id, ok := ids[key]; ok {
			return id, nil
		}
		if len(subsets) >= maxStates {
			return NoState, fmt.Errorf("%w: determinization reached %d states", ErrNonConvergent, maxStates)
		}
		id := f.addState()
		ids[key] = id
		subsets = append(subsets, set)
		return id, nil
	}

	start, err := add([]StateID{a.start})
	if err != nil {
		return nil, err
	}
	f.start = start

	for cur := 0; cur < len(subsets); cur++ {
		set := subsets[cur]
		next := make(map[arcLabel]map[StateID]struct{})
		final := nonFinal
		for _, s := range set {
			st := a.states[s]
			if st.final < final {
				final = st.final
			}
			for _, arc := range st.arcs {
				lbl := arcLabel{arc.In, arc.Out, arc.Weight}
				if next[lbl] == nil {
					next[lbl] = make(map[StateID]struct{})
				}
				next[lbl][arc.Next] = struct{}{}
			}
		}
		f.setFinal(StateID(cur), final)

		labels := make([]arcLabel, 0, len(next))
		for lbl := range next {
			labels = append(labels, lbl)
		}
		sort.Slice(labels, func(i, j int) bool { return lessLabel(labels[i], labels[j]) })

		for _, lbl := range labels {
			target := make([]StateID, 0, len(next[lbl]))
			for s := range next[lbl] {
				target = append(target, s)
			}
			sort.Slice(target, func(i, j int) bool { return target[i] < target[j] })
			id, err := add(target)
			if err != nil {
				return nil, err
			}
			f.addArc(StateID(cur), Arc{In: lbl.in, Out: lbl.out, Weight: lbl.weight, Next: id})
		}
	}
	return f, nil
}

// minimize merges equivalent states of a trimmed deterministic machine by partition
// refinement.
func minimize(a *FST) *FST {
	n := len(a.states)
	class := make([]int, n)
	byFinal := make(map[float64]int)
	for s, st := range a.states {
		c, ok := byFinal[st.final]
		if !ok {
			c = len(byFinal)
			byFinal[st.final] = c
		}
		class[s] = c
	}
	classes := len(byFinal)

	for {
		sigs := make(map[string]int)
		refined := make([]int, n)
		for s, st := range a.states {
			buf := strconv.AppendInt(nil, int64(class[s]), 10)
			for _, arc := range st.arcs {
				buf = append(buf, '|')
				buf = strconv.AppendInt(buf, int64(arc.In), 10)
				buf = append(buf, ':')
				buf = strconv.AppendInt(buf, int64(arc.Out), 10)
				buf = append(buf, ':')
				buf = strconv.AppendFloat(buf, arc.Weight, 'g', -1, 64)
				buf = append(buf, '>')
				buf = strconv.AppendInt(buf, int64(class[arc.Next]), 10)
			}
			sig := string(buf)
			c, ok := sigs[sig]
			if !ok {
				c = len(sigs)
				sigs[sig] = c
			}
			refined[s] = c
		}
		class = refined
		if len(sigs) == classes {
			break
		}
		classes = len(sigs)
	}

	f := newFST(a.alpha)
	for i := 0; i < classes; i++ {
		f.addState()
	}
	done := make([]bool, classes)
	for s, st := range a.states {
		c := class[s]
		if done[c] {
			continue
		}
		done[c] = true
		f.setFinal(StateID(c), st.final)
		for _, arc := range st.arcs {
			arc.Next = StateID(class[arc.Next])
			f.addArc(StateID(c), arc)
		}
	}
	f.start = StateID(class[a.start])
	return f
}

// canonicalize renumbers states in breadth-first order with arcs sorted by label.
func canonicalize(a *FST) *FST {
	order := make([]StateID, len(a.states))
	for i := range order {
		order[i] = NoState
	}
	f := newFST(a.alpha)
	queue := []StateID{a.start}
	order[a.start] = f.addState()
	f.start = order[a.start]

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		arcs := make([]Arc, len(a.states[s].arcs))
		copy(arcs, a.states[s].arcs)
		sort.SliceStable(arcs, func(i, j int) bool {
			return lessLabel(arcLabel{arcs[i].In, arcs[i].Out, arcs[i].Weight}, arcLabel{arcs[j].In, arcs[j].Out, arcs[j].Weight})
		})
		ns := order[s]
		f.setFinal(ns, a.states[s].final)
		for _, arc := range arcs {
			if order[arc.Next] == NoState {
				order[arc.Next] = f.addState()
				queue = append(queue, arc.Next)
			}
			arc.Next = order[arc.Next]
			f.addArc(ns, arc)
		}
	}
	return f
}
