/*
Package katsuyo conjugates verbs with finite-state transducers.

A grammar declares an alphabet, named symbol sets and context-dependent rewrite rules,
and groups the rules into chains: a root chain that extracts the stem, one chain per
paradigm cell, and a phonology chain applied after every cell. The rules compile into
transducers with the engine in pkg/fst, and a word is conjugated by running it through
the chains one transducer at a time and reading the single output string.

# Key Features

  - Deterministic Output: every conjugation is a single string or a typed error.
  - Grammar as Data: rules and cells live in YAML or JSON (see pkg/grammar) or are built in Go (see pkg/dsl).
  - Pluggable Adapters: form caches (memory, Redis) and lexicons (memory, Loam) sit behind pkg/ports.

# Usage

The embedded Japanese grammar is used unless another one is provided.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/katsuyo"
	)

	func main() {
		ctx := context.Background()
		eng, err := katsuyo.New(ctx)
		if err != nil {
			log.Fatal(err)
		}

		form, err := eng.Conjugate(ctx, "kaku", "plain_affirmative_past")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(form) // kaita

		p, err := eng.Paradigm(ctx, "matsu")
		if err != nil {
			log.Fatal(err)
		}
		for _, f := range p.Forms {
			fmt.Printf("%s: %s\n", f.Label, f.Surface)
		}
	}
*/
package katsuyo
