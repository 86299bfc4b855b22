package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`  _         _                        `,
	` | | ____ _| |_ ___ _   _ _   _  ___  `,
	" | |/ / _` | __/ __| | | | | | |/ _ \\ ",
	` |   < (_| | |_\__ \ |_| | |_| | (_) |`,
	` |_|\_\__,_|\__|___/\__,_|\__, |\___/ `,
	`                          |___/       `,
}

// Vermilion to amber, one colour per line.
var bannerColors = []string{"#ef4444", "#f05a3a", "#f27030", "#f48626", "#f59c1c", "#f5b014"}

// PrintBanner writes the katsuyo banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
