package fst

// DefaultMaxStates bounds the states a single construction may create.
const DefaultMaxStates = 1 << 16

type config struct {
	maxStates int
}

// Option tunes a construction.
type Option func(*config)

// WithMaxStates overrides DefaultMaxStates. Values below one are ignored.
func WithMaxStates(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxStates = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{maxStates: DefaultMaxStates}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
