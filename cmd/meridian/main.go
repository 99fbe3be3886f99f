package main

import (
	"fmt"
	"os"

	"github.com/meridian-db/meridiandb/pkg/engine"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "MeridianDB - bulk insertion engine for distributed SQL backends",
	Long: `MeridianDB plans and executes large batched INSERTs against
backends with restrictive statement limits, assigning primary keys
client-side where the backend cannot generate them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, engine.FormatError(err))
		os.Exit(1)
	}
}
