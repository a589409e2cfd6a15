package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devsanthoshmk/home360/internal/cli"
)

// walkCmd represents the walk command
var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Walk the tour in the terminal",
	Long: `Starts an interactive walkthrough on the terminal: each room prints as a
card with its numbered exits, and short commands move the visitor around
the tour (numbers take an exit, 'n'/'p' step through rooms, 'g <scene>'
jumps, 'q' quits).`,
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.Walk(cli.WalkOptions{
			TourPath: tourPath(cmd, args),
			Debug:    debug,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)

	walkCmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
}
