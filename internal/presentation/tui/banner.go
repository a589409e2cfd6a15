// Package tui formats walk-mode terminal output: the banner, markdown
// rendering, and the per-scene card.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner with the release version under it.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Teal-to-blue gradient
	s1 := termenv.String("   _                              _____   __     ___  ").Foreground(p.Color("#34d399"))
	s2 := termenv.String("  | |__    ___   _ __ ___    ___ |___ /  / /_   / _ \\ ").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String("  | '_ \\  / _ \\ | '_ ` _ \\  / _ \\  |_ \\ | '_ \\ | | | |").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String("  | | | || (_) || | | | | ||  __/ ___) || (_) || |_| |").Foreground(p.Color("#38bdf8"))
	s5 := termenv.String("  |_| |_| \\___/ |_| |_| |_| \\___||____/  \\___/  \\___/ ").Foreground(p.Color("#60a5fa"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, s1)
	fmt.Fprintln(w, s2)
	fmt.Fprintln(w, s3)
	fmt.Fprintln(w, s4)
	fmt.Fprintln(w, s5)
	fmt.Fprintln(w, termenv.String("  home360 "+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
