/*
Package domain contains the core domain models of the katsuyo conjugation engine.

It defines the fundamental entities of a paradigm table, such as lexicon entries,
paradigm cells and conjugated forms. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Entry: A dictionary form from a lexicon, optionally tagged with a group marker.
  - Cell: One slot of the paradigm table (e.g. Plain Negative Past).
  - Form: The surface string produced for one entry in one cell, or the reason it failed.
  - Paradigm: The root and all forms of one entry.
*/
package domain
