package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/katsuyo/internal/presentation/tui"
	"github.com/aretw0/katsuyo/pkg/domain"
	"golang.org/x/term"
)

// Format selects how results are printed.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (supported: text, markdown, json)", s)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer writes paradigms and forms in one format.
type Printer struct {
	Out    io.Writer
	Format Format
	// Render styles markdown output. Nil prints raw markdown.
	Render func(string) (string, error)
}

// NewPrinter creates a printer for out. Markdown is styled only on terminals.
func NewPrinter(out io.Writer, format Format) *Printer {
	p := &Printer{Out: out, Format: format}
	if format == FormatMarkdown && IsTerminal(out) {
		if render, err := tui.NewRenderer(""); err == nil {
			p.Render = render
		}
	}
	return p
}

// Paradigms prints one table per paradigm.
func (p *Printer) Paradigms(ps []domain.Paradigm) error {
	switch p.Format {
	case FormatJSON:
		return p.json(ps)
	case FormatMarkdown:
		var b strings.Builder
		for i, par := range ps {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(tui.ParadigmMarkdown(par))
		}
		return p.markdown(b.String())
	}

	tw := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
	for i, par := range ps {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		if par.Error != "" {
			fmt.Fprintf(tw, "%s\terror: %s\n", par.Word, par.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t(root %s)\n", par.Word, par.Root)
		for _, f := range par.Forms {
			if f.OK() {
				fmt.Fprintf(tw, "  %s\t%s\n", f.Label, f.Surface)
			} else {
				fmt.Fprintf(tw, "  %s\t- (%s)\n", f.Label, f.Error)
			}
		}
	}
	return tw.Flush()
}

// Forms prints the surface forms of one word and cell.
func (p *Printer) Forms(word, cell string, surfaces []string) error {
	switch p.Format {
	case FormatJSON:
		return p.json(map[string]any{"word": word, "cell": cell, "surfaces": surfaces})
	case FormatMarkdown:
		var b strings.Builder
		for _, s := range surfaces {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		return p.markdown(b.String())
	}
	for _, s := range surfaces {
		if _, err := fmt.Fprintln(p.Out, s); err != nil {
			return err
		}
	}
	return nil
}

// Cells prints the paradigm cells.
func (p *Printer) Cells(cells []domain.Cell) error {
	switch p.Format {
	case FormatJSON:
		return p.json(cells)
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString("| Name | Label | Group |\n|---|---|---|\n")
		for _, c := range cells {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", c.Name, c.Label, c.Group)
		}
		return p.markdown(b.String())
	}
	tw := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
	for _, c := range cells {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Label, c.Group)
	}
	return tw.Flush()
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) markdown(md string) error {
	if p.Render != nil {
		rendered, err := p.Render(md)
		if err != nil {
			return err
		}
		md = rendered
	}
	_, err := io.WriteString(p.Out, md)
	return err
}
