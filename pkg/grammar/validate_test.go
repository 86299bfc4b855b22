package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Japanese(t *testing.T) {
	spec, err := Load("../../data/japanese.yaml")
	require.NoError(t, err)
	assert.NoError(t, Validate(spec))
	assert.NotEmpty(t, spec.Cells)
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{
			name: "empty",
			spec: Spec{},
			want: []string{"alphabet is empty", "no cells defined"},
		},
		{
			name: "unknown references",
			spec: Spec{
				Alphabet: []string{"a"},
				Rules: map[string]Rule{
					"r": {Rewrite: []any{"{missing} -> a"}, Left: []any{"{other}"}},
				},
				Root:  []string{"nope"},
				Cells: []Cell{{Name: "c", Rules: []string{"r", "ghost"}}},
			},
			want: []string{
				`rule "r" refers to unknown set "missing"`,
				`rule "r" refers to unknown set "other"`,
				`root chain refers to unknown rule "nope"`,
				`cell "c" refers to unknown rule "ghost"`,
			},
		},
		{
			name: "cells",
			spec: Spec{
				Alphabet: []string{"a"},
				Rules:    map[string]Rule{"r": {Rewrite: []any{"a -> a"}}},
				Cells: []Cell{
					{Name: "later", Base: "first", Rules: []string{"r"}},
					{Name: "first", Rules: []string{"r"}},
					{Name: "first", Rules: []string{"r"}},
					{Name: "r", Rules: []string{"r"}},
					{Name: "empty"},
					{Name: "root", Rules: []string{"r"}},
					{Rules: []string{"r"}},
				},
			},
			want: []string{
				`cell "later" has base "first", which is not an earlier cell`,
				`cell "first" is defined twice`,
				`cell "r" has the same name as a rule`,
				`cell "empty" has no base, append or rules`,
				`cell name "root" is reserved`,
				"cell 6 has no name",
			},
		},
		{
			name: "rules",
			spec: Spec{
				Alphabet: []string{"a"},
				Rules: map[string]Rule{
					"phonology": {Rewrite: []any{"a -> a"}},
					"none":      {},
					"bad":       {Rewrite: []any{"a => b"}},
					"ctx":       {Rewrite: []any{"a -> a"}, Right: 3},
				},
				Cells: []Cell{{Name: "c", Append: "a"}},
			},
			want: []string{
				`rule name "phonology" is reserved`,
				`rule "none" has no rewrite`,
				`rule "bad": rewrite "a => b" is not of the form "from -> to"`,
				`rule "ctx": invalid context definition type: int`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.spec)
			require.ErrorIs(t, err, ErrInvalidGrammar)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestDecodePairs(t *testing.T) {
	pairs, err := decodePairs([]any{
		"u -> 1",
		"ru->",
		map[string]any{"from": "[ts]", "to": "ts"},
		Pair{From: "a", To: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"u", "1"}, {"ru", ""}, {"[ts]", "ts"}, {"a", "b"}}, pairs)

	_, err = decodePairs([]any{42})
	assert.Error(t, err)
}

func TestDecodeSet(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want SetExpr
	}{
		{"string", "a", SetExpr{Of: []string{"a"}}},
		{"strings", []string{"a", "e"}, SetExpr{Of: []string{"a", "e"}}},
		{"list", []any{"a", "e"}, SetExpr{Of: []string{"a", "e"}}},
		{"map", map[string]any{"of": []any{"{vowel}"}, "except": []any{"u"}}, SetExpr{Of: []string{"{vowel}"}, Except: []string{"u"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSet(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := decodeSet([]any{"a", 1})
	assert.Error(t, err)
}

func TestSplitPattern(t *testing.T) {
	segs, err := splitPattern("ta{end}x")
	require.NoError(t, err)
	assert.Equal(t, []segment{{text: "ta"}, {text: "end", ref: true}, {text: "x"}}, segs)
	assert.Equal(t, []string{"vowel", "end"}, refs("{vowel}t{end}"))

	_, err = splitPattern("ta{end")
	assert.Error(t, err)
	_, err = splitPattern("ta{}")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	spec, err := Parse([]byte(`{"name":"j","alphabet":["a"]}`), "json")
	require.NoError(t, err)
	assert.Equal(t, "j", spec.Name)

	_, err = Parse([]byte("a: ["), "yaml")
	assert.Error(t, err)

	_, err = Parse(nil, "toml")
	assert.Error(t, err)

	out, err := spec.Marshal()
	require.NoError(t, err)
	back, err := Parse(out, "yaml")
	require.NoError(t, err)
	assert.Equal(t, spec.Alphabet, back.Alphabet)
}
