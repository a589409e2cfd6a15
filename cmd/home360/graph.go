package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devsanthoshmk/home360"
	"github.com/devsanthoshmk/home360/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the tour's navigation graph",
	Long: `Flattens the tour into its scene graph and prints it as an adjacency
list (text), JSON, or a Mermaid diagram (graph TD) for embedding in docs.`,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		tour, err := home360.Open(tourPath(cmd, args))
		if err != nil {
			fmt.Printf("Error loading tour: %v\n", err)
			os.Exit(1)
		}
		defer tour.Close()

		nodes := graph.Build(tour.Registry().List(), tour.Registry().EntryID())

		switch format {
		case "text":
			fmt.Print(graph.RenderText(nodes))
		case "json":
			out, err := graph.RenderJSON(nodes)
			if err != nil {
				fmt.Printf("Error rendering graph: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
		case "mermaid":
			fmt.Print(graph.RenderMermaid(nodes, nil))
		default:
			fmt.Printf("Unknown format: %s. Supported: text, json, mermaid\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("format", "text", "Output format: 'text', 'json' or 'mermaid'")
}
