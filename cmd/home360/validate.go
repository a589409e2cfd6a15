package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devsanthoshmk/home360/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the tour for consistency",
	Long: `Loads the tour file and reports every problem it finds: hotspots
targeting unknown scenes, rooms unreachable from the entry, missing
panoramas. With --check-assets, local panorama files are also probed for
readability and the 2:1 equirectangular aspect.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkAssets, _ := cmd.Flags().GetBool("check-assets")

		report, err := validator.ValidateFile(tourPath(cmd, args), validator.Options{
			CheckAssets: checkAssets,
		})
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		for _, issue := range report.Issues {
			fmt.Println(issue.String())
		}
		if !report.OK() {
			fmt.Printf("Tour has %d errors.\n", len(report.Errors()))
			os.Exit(1)
		}
		if warnings := report.Warnings(); len(warnings) > 0 {
			fmt.Printf("Tour is valid with %d warnings ⚠️\n", len(warnings))
			return
		}
		fmt.Println("Tour is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("check-assets", false, "Probe local panorama files for readability and aspect ratio")
}
