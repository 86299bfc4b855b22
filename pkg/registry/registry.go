package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/fst"
)

// Registry manages named transducers: compiled rules, rule chains and paradigm cells.
type Registry struct {
	mu     sync.RWMutex
	fsts   map[string]*fst.FST
	chains map[string][]string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fsts:   make(map[string]*fst.FST),
		chains: make(map[string][]string),
	}
}

// Register adds a transducer to the registry.
// If a transducer with the same name exists, it is overwritten.
func (r *Registry) Register(name string, t *fst.FST) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fsts[name] = t
}

// Define records an ordered chain of registered names under name.
// Chains may reference other chains; they are expanded by Chain.
func (r *Registry) Define(name string, steps ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chains[name] = append([]string(nil), steps...)
}

// Get looks up a transducer by name.
// Returns domain.ErrRuleNotFound if the name is not registered.
func (r *Registry) Get(name string) (*fst.FST, error) {
	r.mu.RLock()
	t, ok := r.fsts[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, name)
	}
	return t, nil
}

// Chain resolves names into the ordered transducers to apply. A name bound by Define is
// expanded in place.
func (r *Registry) Chain(names ...string) ([]*fst.FST, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*fst.FST
	if err := r.expand(names, map[string]bool{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) expand(names []string, visiting map[string]bool, out *[]*fst.FST) error {
	for _, name := range names {
		if steps, ok := r.chains[name]; ok {
			if visiting[name] {
				return fmt.Errorf("chain %q refers to itself", name)
			}
			visiting[name] = true
			if err := r.expand(steps, visiting, out); err != nil {
				return err
			}
			visiting[name] = false
			continue
		}
		t, ok := r.fsts[name]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrRuleNotFound, name)
		}
		*out = append(*out, t)
	}
	return nil
}

// Has reports whether name is a registered transducer or chain.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fsts[name]
	if !ok {
		_, ok = r.chains[name]
	}
	return ok
}

// Names returns every registered transducer and chain name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fsts)+len(r.chains))
	for name := range r.fsts {
		names = append(names, name)
	}
	for name := range r.chains {
		if _, dup := r.fsts[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
