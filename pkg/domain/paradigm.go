package domain

// Entry is a lexicon item: a verb in its dictionary form.
type Entry struct {
	Word  string   `json:"word" yaml:"word" mapstructure:"word"`
	Gloss string   `json:"gloss,omitempty" yaml:"gloss,omitempty" mapstructure:"gloss"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty" mapstructure:"tags"`
}

// Cell describes one slot of the paradigm table.
type Cell struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	// Group collects alternative realizations of one slot (e.g. the two conditional forms).
	Group string `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
}

// Form is the result of conjugating one word in one cell.
type Form struct {
	Cell    string `json:"cell"`
	Label   string `json:"label"`
	Surface string `json:"surface,omitempty"`
	Error   string `json:"error,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
}

// OK reports whether the form was produced.
func (f Form) OK() bool { return f.Error == "" }

// Paradigm is the full inflection table of one word.
type Paradigm struct {
	Word  string `json:"word"`
	Root  string `json:"root"`
	Forms []Form `json:"forms"`
	Error string `json:"error,omitempty"`
}

// Lookup returns the form for cell.
func (p Paradigm) Lookup(cell string) (Form, bool) {
	for _, f := range p.Forms {
		if f.Cell == cell {
			return f, true
		}
	}
	return Form{}, false
}
