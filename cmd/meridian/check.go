package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meridian-db/meridiandb/pkg/engine"
	"github.com/spf13/cobra"
)

var outputJSON bool

type checkResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Tables int      `json:"tables"`
	Errors []string `json:"errors,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check a schema file for errors",
	Long: `Validate a JSON schema file and report problems.

Examples:
  meridian check schema.json
  meridian check schema.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := "schema.json"
		if len(args) > 0 {
			file = args[0]
		}

		eng := engine.NewEngine()
		schema, err := eng.LoadSchemaFromFile(file)

		if outputJSON {
			result := checkResult{File: file, Valid: err == nil}
			if err != nil {
				result.Errors = []string{err.Error()}
			} else {
				result.Tables = len(schema.Tables)
			}
			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(out))
			if err != nil {
				os.Exit(1)
			}
			return nil
		}

		if err != nil {
			return err
		}

		printSuccess("Schema is valid (%d table(s))", len(schema.Tables))
		if verbose {
			for _, table := range schema.Tables {
				fmt.Printf("  %s → %s (%d concrete field(s))\n",
					table.Name, table.ConcreteTable().TableName, len(table.ConcreteFields()))
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&outputJSON, "json", false, "output structured JSON")
	rootCmd.AddCommand(checkCmd)
}
