package fst

import (
	"fmt"
	"sort"
	"strconv"
)

// Rewrite compiles the obligatory context-dependent rule
//
//	tau / left _ right
//
// into a transducer over sigma*, where sigma is the set of symbols on the arcs of the
// sigma machine (normally a closure such as Alphabet.SigmaStar).
//
// An occurrence of the domain of tau is rewritten when the input before it ends with a
// string of left and the input after it starts with a string of right. Contexts are read
// on the input. "[BOS]" and "[EOS]" in a context anchor it to the string boundaries; a
// context equal to sigma* places no constraint. Matching is leftmost first, longest
// second, and non-overlapping: after a match is committed scanning resumes at its end.
// Every other symbol is copied unchanged.
//
// ErrInvalidRule is returned when the domain of tau contains the empty string, when an
// operand accepts nothing, when left uses "[EOS]" or right uses "[BOS]", or when the
// operands come from different alphabets.
func Rewrite(tau, left, right, sigma *FST, opts ...Option) (*FST, error) {
	if !sameAlphabet(tau, left, right, sigma) {
		return nil, invalidRule("operands use different alphabets")
	}
	cfg := newConfig(opts)

	rw, err := newRewriter(tau, left, right, sigma, cfg)
	if err != nil {
		return nil, err
	}
	raw, err := rw.build()
	if err != nil {
		return nil, err
	}
	return Optimize(raw, opts...)
}

// RewriteString compiles from -> to / left _ right over ab.SigmaStar(). An empty context
// places no constraint.
func RewriteString(ab *Alphabet, from, to, left, right string, opts ...Option) (*FST, error) {
	tau, err := ab.Transducer(from, to)
	if err != nil {
		return nil, err
	}
	l, err := contextAcceptor(ab, left)
	if err != nil {
		return nil, err
	}
	r, err := contextAcceptor(ab, right)
	if err != nil {
		return nil, err
	}
	return Rewrite(tau, l, r, ab.SigmaStar(), opts...)
}

func contextAcceptor(ab *Alphabet, ctx string) (*FST, error) {
	if ctx == "" {
		return ab.SigmaStar(), nil
	}
	return ab.Acceptor(ctx)
}

// rewriter holds the deterministic pieces of a rule. The product construction tracks,
// per position:
//   - the left-context automaton over the input read so far,
//   - the tau state while inside a match,
//   - forbidden candidates: runs of dom(tau)·right that must never complete,
//   - pending right-context checks of committed matches that must complete.
type rewriter struct {
	ab        *Alphabet
	cfg       config
	sigma     []Label
	inSigma   map[Label]bool
	tau       *FST
	dom       *FST
	leftDFA   *FST
	rightDFA  *FST
	leftStart StateID
}

func newRewriter(tau, left, right, sigma *FST, cfg config) (*rewriter, error) {
	ab := sigma.alpha
	rw := &rewriter{ab: ab, cfg: cfg, inSigma: make(map[Label]bool)}

	for _, st := range sigma.states {
		for _, arc := range st.arcs {
			for _, l := range []Label{arc.In, arc.Out} {
				if l != Epsilon && !ab.IsBoundary(l) && !rw.inSigma[l] {
					rw.inSigma[l] = true
					rw.sigma = append(rw.sigma, l)
				}
			}
		}
	}
	if len(rw.sigma) == 0 {
		return nil, invalidRule("sigma has no symbols")
	}
	sort.Slice(rw.sigma, func(i, j int) bool { return rw.sigma[i] < rw.sigma[j] })

	var err error
	if rw.tau, err = Optimize(tau, WithMaxStates(cfg.maxStates)); err != nil {
		return nil, err
	}
	if rw.dom, err = Optimize(Project(rw.tau, Input), WithMaxStates(cfg.maxStates)); err != nil {
		return nil, err
	}
	if isEmpty(rw.dom) {
		return nil, invalidRule("rule matches nothing")
	}
	if rw.dom.isFinal(rw.dom.start) {
		return nil, invalidRule("rule matches the empty string")
	}
	if hasLabel(rw.dom, ab.BOS()) || hasLabel(rw.dom, ab.EOS()) {
		return nil, invalidRule("boundary marker in rule input")
	}

	if hasLabel(left, ab.EOS()) {
		return nil, invalidRule("%s in left context", EOS)
	}
	if hasLabel(right, ab.BOS()) {
		return nil, invalidRule("%s in right context", BOS)
	}

	sigmaStar := Closure(Identity(ab, rw.sigma...))
	prefix := Concat(Optional(Identity(ab, ab.BOS())), sigmaStar, Project(left, Input))
	if rw.leftDFA, err = Optimize(prefix, WithMaxStates(cfg.maxStates)); err != nil {
		return nil, err
	}
	if isEmpty(rw.leftDFA) {
		return nil, invalidRule("left context matches nothing")
	}
	rw.leftStart = step(rw.leftDFA, rw.leftDFA.start, ab.BOS())

	if rw.rightDFA, err = Optimize(Project(right, Input), WithMaxStates(cfg.maxStates)); err != nil {
		return nil, err
	}
	if isEmpty(rw.rightDFA) {
		return nil, invalidRule("right context matches nothing")
	}
	return rw, nil
}

type rewriteState struct {
	left    StateID
	match   StateID
	dom     StateID
	forbid  []int
	pending []int
}

func (s rewriteState) key() string {
	buf := make([]byte, 0, 32)
	buf = strconv.AppendInt(buf, int64(s.left), 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(s.match), 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(s.dom), 10)
	buf = append(buf, '/')
	for _, n := range s.forbid {
		buf = strconv.AppendInt(buf, int64(n), 10)
		buf = append(buf, ',')
	}
	buf = append(buf, '/')
	for _, n := range s.pending {
		buf = strconv.AppendInt(buf, int64(n), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}

func (rw *rewriter) build() (*FST, error) {
	f := newFST(rw.ab)
	ids := make(map[string]StateID)
	var states []rewriteState

	visit := func(s rewriteState) (StateID, error) {
		key := s.key()
		if id, ok := ids[key]; ok {
			return id, nil
		}
		if len(states) >= rw.cfg.maxStates {
			return NoState, fmt.Errorf("%w: rewrite construction reached %d states", ErrNonConvergent, rw.cfg.maxStates)
		}
		id := f.addState()
		ids[key] = id
		states = append(states, s)
		return id, nil
	}
	link := func(from StateID, in, out Label, w float64, to rewriteState) error {
		id, err := visit(to)
		if err != nil {
			return err
		}
		f.addArc(from, Arc{In: in, Out: out, Weight: w, Next: id})
		return nil
	}

	start, err := visit(rewriteState{left: rw.leftStart, match: NoState, dom: NoState})
	if err != nil {
		return nil, err
	}
	f.start = start

	for cur := 0; cur < len(states); cur++ {
		s := states[cur]
		id := StateID(cur)

		if s.match == NoState {
			if rw.accepts(s) {
				f.setFinal(id, 0)
			}
			holds := s.left != NoState && rw.leftDFA.isFinal(s.left)
			forbid := s.forbid
			if holds {
				enter := rewriteState{left: s.left, match: rw.tau.start, dom: rw.dom.start, forbid: s.forbid, pending: s.pending}
				if err := link(id, Epsilon, Epsilon, 0, enter); err != nil {
					return nil, err
				}
				forbid = insertSorted(forbid, int(rw.dom.start))
			}
			for _, x := range rw.sigma {
				nf, ok := rw.stepForbid(forbid, x)
				if !ok {
					continue
				}
				np, ok := rw.stepPending(s.pending, x)
				if !ok {
					continue
				}
				next := rewriteState{left: rw.stepLeft(s.left, x), match: NoState, dom: NoState, forbid: nf, pending: np}
				if err := link(id, x, x, 0, next); err != nil {
					return nil, err
				}
			}
			continue
		}

		for _, arc := range rw.tau.states[s.match].arcs {
			if arc.In == Epsilon {
				next := s
				next.match = arc.Next
				if err := link(id, Epsilon, arc.Out, arc.Weight, next); err != nil {
					return nil, err
				}
				continue
			}
			if !rw.inSigma[arc.In] {
				continue
			}
			nd := step(rw.dom, s.dom, arc.In)
			if nd == NoState {
				continue
			}
			nf, ok := rw.stepForbid(s.forbid, arc.In)
			if !ok {
				continue
			}
			np, ok := rw.stepPending(s.pending, arc.In)
			if !ok {
				continue
			}
			next := rewriteState{left: rw.stepLeft(s.left, arc.In), match: arc.Next, dom: nd, forbid: nf, pending: np}
			if err := link(id, arc.In, arc.Out, arc.Weight, next); err != nil {
				return nil, err
			}
		}

		if w, ok := rw.tau.Final(s.match); ok {
			// The dom state joins the forbidden set unclosed: only a strictly longer
			// match may complete from here.
			leave := rewriteState{
				left:    s.left,
				match:   NoState,
				dom:     NoState,
				forbid:  insertSorted(s.forbid, int(s.dom)),
				pending: rw.addPending(s.pending),
			}
			if err := link(id, Epsilon, Epsilon, w, leave); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func (rw *rewriter) accepts(s rewriteState) bool {
	if _, ok := rw.stepForbid(s.forbid, rw.ab.EOS()); !ok {
		return false
	}
	rest, ok := rw.stepPending(s.pending, rw.ab.EOS())
	return ok && len(rest) == 0
}

func (rw *rewriter) stepLeft(l StateID, x Label) StateID {
	if l == NoState {
		return NoState
	}
	return step(rw.leftDFA, l, x)
}

// stepForbid advances every forbidden run by x. Indices below the size of dom are dom
// states; the rest are right-context states offset by that size. It fails when a run
// completes dom(tau) followed by right.
func (rw *rewriter) stepForbid(set []int, x Label) ([]int, bool) {
	nd := len(rw.dom.states)
	out := make([]int, 0, len(set)+1)
	for _, n := range set {
		if n < nd {
			t := step(rw.dom, StateID(n), x)
			if t == NoState {
				continue
			}
			out = append(out, int(t))
			if rw.dom.isFinal(t) {
				out = append(out, nd+int(rw.rightDFA.start))
			}
			continue
		}
		if t := step(rw.rightDFA, StateID(n-nd), x); t != NoState {
			out = append(out, nd+int(t))
		}
	}
	out = sortUnique(out)
	for _, n := range out {
		if n >= nd && rw.rightDFA.isFinal(StateID(n-nd)) {
			return nil, false
		}
	}
	return out, true
}

// stepPending advances every pending right-context check by x, dropping checks that
// complete. It fails when a check can no longer complete.
func (rw *rewriter) stepPending(set []int, x Label) ([]int, bool) {
	out := make([]int, 0, len(set))
	for _, p := range set {
		t := step(rw.rightDFA, StateID(p), x)
		if t == NoState {
			return nil, false
		}
		if !rw.rightDFA.isFinal(t) {
			out = append(out, int(t))
		}
	}
	return sortUnique(out), true
}

func (rw *rewriter) addPending(set []int) []int {
	if rw.rightDFA.isFinal(rw.rightDFA.start) {
		return set
	}
	return insertSorted(set, int(rw.rightDFA.start))
}

func insertSorted(set []int, n int) []int {
	i := sort.SearchInts(set, n)
	if i < len(set) && set[i] == n {
		return set
	}
	out := make([]int, 0, len(set)+1)
	out = append(out, set[:i]...)
	out = append(out, n)
	return append(out, set[i:]...)
}

func sortUnique(set []int) []int {
	if len(set) < 2 {
		return set
	}
	sort.Ints(set)
	out := set[:1]
	for _, n := range set[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}

func isEmpty(f *FST) bool {
	return len(f.states) == 1 && len(f.states[0].arcs) == 0 && !f.isFinal(0)
}

func hasLabel(f *FST, l Label) bool {
	for _, st := range f.states {
		for _, arc := range st.arcs {
			if arc.In == l || arc.Out == l {
				return true
			}
		}
	}
	return false
}
