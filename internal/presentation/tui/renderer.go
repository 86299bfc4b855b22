package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects light or dark backgrounds automatically.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// ParadigmMarkdown formats a paradigm as a markdown section with one table row per cell.
// Cells that could not be formed show a dash.
func ParadigmMarkdown(p domain.Paradigm) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", p.Word)
	if p.Error != "" {
		fmt.Fprintf(&b, "> %s\n", p.Error)
		return b.String()
	}
	if p.Root != "" {
		fmt.Fprintf(&b, "Root: `%s`\n\n", p.Root)
	}

	b.WriteString("| Cell | Form |\n|---|---|\n")
	for _, f := range p.Forms {
		surface := f.Surface
		if !f.OK() {
			surface = "-"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", escape(f.Label), escape(surface))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
