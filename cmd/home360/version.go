package main

import (
	"fmt"
	"strings"

	"github.com/devsanthoshmk/home360"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of home360",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("home360 version %s\n", strings.TrimSpace(home360.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
