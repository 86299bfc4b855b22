package fst

// Stringify returns the single output string realized by a.
//
// The output tape is projected and optimized; the result must be one linear path.
// ErrNoOutput is returned when a accepts nothing and ErrAmbiguousOutput when it realizes
// more than one string. The empty string is a valid result.
func Stringify(a *FST, opts ...Option) (string, error) {
	out, err := Optimize(Project(a, Output), opts...)
	if err != nil {
		return "", err
	}
	if isEmpty(out) {
		return "", ErrNoOutput
	}

	var labels []Label
	seen := make([]bool, len(out.states))
	for s := out.start; ; {
		if seen[s] {
			return "", ErrAmbiguousOutput
		}
		seen[s] = true
		arcs := out.states[s].arcs
		if out.isFinal(s) {
			if len(arcs) > 0 {
				return "", ErrAmbiguousOutput
			}
			break
		}
		if len(arcs) != 1 {
			return "", ErrAmbiguousOutput
		}
		labels = append(labels, arcs[0].Out)
		s = arcs[0].Next
	}
	return out.alpha.String(labels), nil
}

// Strings enumerates up to limit output strings of a, shortest first.
func Strings(a *FST, limit int, opts ...Option) ([]string, error) {
	out, err := Optimize(Project(a, Output), opts...)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || isEmpty(out) {
		return nil, nil
	}

	type item struct {
		s      StateID
		prefix []Label
	}
	var result []string
	queue := []item{{s: out.start}}
	for len(queue) > 0 && len(result) < limit {
		it := queue[0]
		queue = queue[1:]
		if out.isFinal(it.s) {
			result = append(result, out.alpha.String(it.prefix))
		}
		for _, arc := range out.states[it.s].arcs {
			prefix := make([]Label, len(it.prefix), len(it.prefix)+1)
			copy(prefix, it.prefix)
			queue = append(queue, item{s: arc.Next, prefix: append(prefix, arc.Out)})
		}
	}
	return result, nil
}
