package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// defaultAccent tints titles and exit numbers when a scene declares no
// accent color of its own.
const defaultAccent = "#38bdf8"

// Card formats one scene for the terminal walkthrough: title with position
// counter, the description (markdown-rendered when a renderer is given) and
// the numbered exits a visitor can take.
func Card(scene domain.Scene, index, total int, render func(string) (string, error)) string {
	p := termenv.ColorProfile()
	accent := scene.AccentColor
	if accent == "" {
		accent = defaultAccent
	}
	title := scene.Title
	if title == "" {
		title = scene.ID
	}

	var sb strings.Builder
	sb.WriteString("\n")

	head := termenv.String(title).Bold().Foreground(p.Color(accent)).String()
	counter := termenv.String(fmt.Sprintf("room %d of %d", index, total)).Faint().String()
	fmt.Fprintf(&sb, "  %s  %s\n", head, counter)

	rule := strings.Repeat("─", utf8.RuneCountInString(title))
	fmt.Fprintf(&sb, "  %s\n", termenv.String(rule).Faint().String())

	if scene.Description != "" {
		body := scene.Description
		if render != nil {
			if out, err := render(body); err == nil {
				body = out
			}
		}
		sb.WriteString(strings.TrimRight(body, "\n"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if len(scene.Hotspots) == 0 {
		fmt.Fprintf(&sb, "  %s\n", termenv.String("(no exits from this room)").Faint().String())
		return sb.String()
	}

	sb.WriteString("  Exits:\n")
	for i, h := range scene.Hotspots {
		label := h.Label
		if label == "" {
			label = h.Target
		}
		num := termenv.String(fmt.Sprintf("[%d]", i+1)).Foreground(p.Color(accent)).String()
		fmt.Fprintf(&sb, "    %s %s", num, label)
		if label != h.Target {
			fmt.Fprintf(&sb, "  %s", termenv.String("("+h.Target+")").Faint().String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
