package loam

// ListMetadata is the frontmatter of a lexicon list document.
// Words holds plain strings or {word, gloss, tags} maps.
type ListMetadata struct {
	Name  string `json:"name" mapstructure:"name"`
	Gloss string `json:"gloss" mapstructure:"gloss"`
	Words []any  `json:"words" mapstructure:"words"`
}
