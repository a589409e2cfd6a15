// Package graph flattens a tour into its navigation graph for the graph
// command: adjacency text, JSON, or a Mermaid flowchart.
package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// Node is one scene's adjacency entry.
type Node struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Entry bool   `json:"entry,omitempty"`
	Edges []Edge `json:"edges"`
}

// Edge is one hotspot exit.
type Edge struct {
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Build flattens scenes into adjacency entries, keeping declaration order.
func Build(scenes []domain.Scene, entryID string) []Node {
	nodes := make([]Node, 0, len(scenes))
	for _, s := range scenes {
		n := Node{
			ID:    s.ID,
			Title: s.Title,
			Entry: s.ID == entryID,
			Edges: make([]Edge, 0, len(s.Hotspots)),
		}
		for _, h := range s.Hotspots {
			n.Edges = append(n.Edges, Edge{Target: h.Target, Label: h.Label})
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// RenderText formats the adjacency list for terminals. Scenes without exits
// are marked dead ends; the entry scene is tagged.
func RenderText(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.ID)
		if n.Title != "" {
			fmt.Fprintf(&sb, " (%s)", n.Title)
		}
		if n.Entry {
			sb.WriteString(" [entry]")
		}
		sb.WriteString("\n")

		if len(n.Edges) == 0 {
			sb.WriteString("  (no exits)\n")
			continue
		}
		for _, e := range n.Edges {
			sb.WriteString("  -> " + e.Target)
			if e.Label != "" {
				fmt.Fprintf(&sb, "  %q", e.Label)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderJSON marshals the adjacency list, indented for piping into files.
func RenderJSON(nodes []Node) ([]byte, error) {
	return json.MarshalIndent(nodes, "", "  ")
}
