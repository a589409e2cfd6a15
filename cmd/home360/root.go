package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "home360",
	Short: "home360 serves and inspects virtual home tours",
	Long: `home360 turns a tour.yaml of 360-degree panoramas into a navigable
virtual visit: a web viewer, a terminal walkthrough, or an MCP server for
AI agents.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("tour", "t", "tour.yaml", "Path to the tour definition file")
}

// tourPath resolves the tour file: the --tour flag, or a positional argument
// when the flag was left at its default.
func tourPath(cmd *cobra.Command, args []string) string {
	path, _ := cmd.Flags().GetString("tour")
	if !cmd.Flags().Changed("tour") && len(args) > 0 {
		path = args[0]
	}
	return path
}
