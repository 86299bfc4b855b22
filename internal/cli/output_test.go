package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paradigms = []domain.Paradigm{
	{
		Word: "kaku",
		Root: "kak1",
		Forms: []domain.Form{
			{Cell: "plain_affirmative_past", Label: "Plain Affirmative Past", Surface: "kaita"},
			{Cell: "plain_negative", Label: "Plain Negative", Error: "form not applicable"},
		},
	},
	{Word: "kaqu", Error: "invalid symbol"},
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": FormatText, "JSON": FormatJSON, "md": FormatMarkdown, "markdown": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestPrinter_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatText).Paradigms(paradigms))

	out := buf.String()
	assert.Contains(t, out, "(root kak1)")
	assert.Regexp(t, `Plain Affirmative Past\s+kaita`, out)
	assert.Contains(t, out, "- (form not applicable)")
	assert.Contains(t, out, "error: invalid symbol")
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).Paradigms(paradigms))

	var got []domain.Paradigm
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, paradigms, got)
}

func TestPrinter_Markdown(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatMarkdown)
	assert.Nil(t, p.Render, "buffers are not terminals")

	require.NoError(t, p.Paradigms(paradigms))
	assert.Contains(t, buf.String(), "| Plain Affirmative Past | kaita |")
	assert.Contains(t, buf.String(), "## kaqu")

	p.Render = func(md string) (string, error) { return strings.ToUpper(md), nil }
	buf.Reset()
	require.NoError(t, p.Forms("kaku", "plain_affirmative_past", []string{"kaita"}))
	assert.Equal(t, "- KAITA\n", buf.String())
}

func TestPrinter_Cells(t *testing.T) {
	cells := []domain.Cell{
		{Name: "conditional_ba", Label: "Conditional (-ba)", Group: "conditional"},
		{Name: "conditional_tara", Label: "Conditional (-tara)", Group: "conditional"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatText).Cells(cells))
	assert.Equal(t, 2, strings.Count(buf.String(), "conditional\n"))

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatMarkdown).Cells(cells))
	assert.Contains(t, buf.String(), "| conditional_ba | Conditional (-ba) | conditional |")
}

func TestPrinter_FormsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatText).Forms("iku", "te_affirmative", []string{"itte", "iite"}))
	assert.Equal(t, "itte\niite\n", buf.String())
}
