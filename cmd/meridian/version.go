package main

import (
	"fmt"

	"github.com/meridian-db/meridiandb/pkg/engine"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show MeridianDB version",
	Long:  "Display the current version of the MeridianDB CLI and engine library",
	Run: func(cmd *cobra.Command, args []string) {
		eng := engine.NewEngine()
		version := eng.Version()

		fmt.Printf("MeridianDB v%s\n", version)

		if verbose {
			fmt.Println("\nComponents:")
			fmt.Printf("  CLI:    v%s\n", version)
			fmt.Printf("  Engine: v%s\n", version)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
