/*
Package dsl provides a Go DSL for programmatically constructing katsuyo grammars.

It builds the same grammar.Spec a YAML or JSON file decodes into, through a fluent builder.
This is useful for generated grammars, for unit tests, and for small grammars kept next to
the code that uses them.

Example usage:

	b := dsl.New("mini")
	b.Alphabet("a", "e", "i", "o", "u", "k", "n", "1")

	b.Rule("u_drop").Rewrite("u", "1").Right("[EOS]")
	b.Rule("negative").Rewrite("1", "anai")

	b.Root("u_drop")
	b.Cell("plain_negative").Label("Plain Negative").Rules("negative")

	g, err := b.Compile(ctx)
	// g.Run(ctx, "kaku", grammar.RootChain, "plain_negative", grammar.PhonologyChain) == "kakanai"
*/
package dsl
