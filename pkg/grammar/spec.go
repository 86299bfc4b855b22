package grammar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is the document form of a grammar.
type Spec struct {
	Name     string          `yaml:"name" json:"name"`
	Alphabet []string        `yaml:"alphabet" json:"alphabet"`
	Sets     map[string]any  `yaml:"sets" json:"sets"`
	Rules    map[string]Rule `yaml:"rules" json:"rules"`

	// Root extracts the stem every cell starts from.
	Root []string `yaml:"root" json:"root"`
	// Phonology is applied after every cell.
	Phonology []string `yaml:"phonology" json:"phonology"`

	Cells []Cell `yaml:"cells" json:"cells"`
}

// Rule is an obligatory context-dependent rewrite: rewrite / left _ right.
type Rule struct {
	// Rewrite lists the alternatives of the rule, either as "from -> to" strings or
	// as {from, to} maps.
	Rewrite []any `yaml:"rewrite" json:"rewrite"`
	// Left and Right are a pattern or a list of alternative patterns.
	Left  any `yaml:"left,omitempty" json:"left,omitempty"`
	Right any `yaml:"right,omitempty" json:"right,omitempty"`
}

// Pair is one alternative of a rule.
type Pair struct {
	From string `yaml:"from" json:"from" mapstructure:"from"`
	To   string `yaml:"to" json:"to" mapstructure:"to"`
}

// SetExpr is the map form of a set: the members of Of without those of Except.
type SetExpr struct {
	Of     []string `yaml:"of" json:"of" mapstructure:"of"`
	Except []string `yaml:"except" json:"except" mapstructure:"except"`
}

// Cell is one slot of the paradigm table.
type Cell struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
	Group string `yaml:"group,omitempty" json:"group,omitempty"`
	// Base names a cell whose chain runs first.
	Base string `yaml:"base,omitempty" json:"base,omitempty"`
	// Append is inserted at the end of the word after the base chain.
	Append string   `yaml:"append,omitempty" json:"append,omitempty"`
	Rules  []string `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Load reads a grammar file. The format is chosen by extension: ".json" is JSON,
// anything else is YAML.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}
	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes a grammar document in the given format ("yaml" or "json").
func Parse(data []byte, format string) (*Spec, error) {
	var spec Spec
	switch format {
	case "json":
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse grammar json: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse grammar yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported grammar format %q", format)
	}
	return &spec, nil
}

// Marshal encodes the grammar as YAML.
func (s *Spec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
