package graph

import (
	"fmt"
	"strings"
)

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// RenderMermaid produces a Mermaid flowchart from the adjacency list.
// The entry scene renders as a circle, everything else as a rectangle, and
// labeled hotspots annotate their edges. An overlay highlights visited
// scenes and the visitor's position.
func RenderMermaid(nodes []Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range nodes {
		// Sanitize ID for Mermaid
		safeID := sanitizeMermaidID(n.ID)

		opener, closer := "[", "]"
		if n.Entry {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, n.ID, closer)

		for _, e := range n.Edges {
			safeTo := sanitizeMermaidID(e.Target)
			arrow := "-->"
			if e.Label != "" {
				// Escape double quotes in the label for Mermaid
				safeLabel := strings.ReplaceAll(e.Label, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", safeLabel)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, safeTo)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of the viewer theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !visitedSet[safeID] {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
