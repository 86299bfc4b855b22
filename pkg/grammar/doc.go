/*
Package grammar loads conjugation grammars and compiles them into named transducers.

A grammar is configuration data, written in YAML or JSON:

	name: demo
	alphabet: [a, k, u, "1", "[kuru]"]
	sets:
	  vowel: [a, u]
	rules:
	  u_drop:
	    rewrite: ["u -> 1"]
	    right: "[EOS]"
	root: [u_drop]
	phonology: []
	cells:
	  - name: plain_negative_present
	    label: Plain Negative Present
	    rules: [neg]

# Patterns

Rule sides, contexts and set members are patterns: literal symbols of the alphabet
mixed with {name} references to sets. A context may also be a list of patterns, read as
alternatives. An absent context places no constraint.

# Cells

A cell is a chain: the chain of its base cell (if any), then an insertion of its append
suffix at the end of the word (if any), then its own rules. The compiler registers every
rule under its name, the root and phonology chains, and one chain per cell.
*/
package grammar
