package katsuyo

import _ "embed"

// Version is the release of the library and the katsuyo CLI.
//
//go:embed VERSION
var Version string
