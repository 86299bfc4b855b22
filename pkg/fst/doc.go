/*
Package fst is a small weighted finite-state transducer engine.

It provides the operations needed to build morphophonological rule cascades:
acceptors and transducers compiled from strings over a declared Alphabet,
Union, Concat, Closure, Compose, Optimize (epsilon removal, determinization and
minimization), the context-dependent rewrite compiler Rewrite, and Stringify to read
the single output string realized by a machine.

# Values

An *FST is immutable once returned. Every operation builds a new machine and never
touches its operands, so a compiled rule can be shared by many goroutines and reused
across any number of compositions.

# Alphabets

Symbols are declared up front with NewAlphabet. A symbol is either a single character
or a multi-character literal such as "[ts]". Input strings are tokenized leftmost-longest,
so "[ts]u" is two symbols. Two boundary markers, "[BOS]" and "[EOS]", are reserved in
every alphabet; they only carry meaning inside rewrite contexts.

	ab, _ := fst.NewAlphabet("a", "e", "i", "o", "u", "k", "r", "[kuru]")
	rule, _ := fst.RewriteString(ab, "kuru", "[kuru]", "[BOS]", "[EOS]")
	word, _ := ab.Acceptor("kuru")
	out, _ := fst.Apply(rule, word)
	s, _ := fst.Stringify(out) // "[kuru]"

# Weights

Arcs carry a tropical weight. The engine builds every arc with weight zero; weights only
take part in determinization as part of the arc label and are never used to rank paths.
*/
package fst
