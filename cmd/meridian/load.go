package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/meridian-db/meridiandb/pkg/engine"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	schemaFile      string
	batchSize       int
	ignoreConflicts bool
	updateConflicts bool
	updateFields    []string
	uniqueFields    []string
)

var loadCmd = &cobra.Command{
	Use:   "load <entity> <data-file>",
	Short: "Bulk load records from a YAML file",
	Long: `Read records from a YAML file and insert them in batches.

The data file holds a list of field/value maps:

  - name: "Marc Richards"
    rank: 1
  - name: "Catalina Smith"
    rank: 2

Every batch commits inside one transaction: either all records are
written or none are.

Examples:
  meridian load Singer singers.yml
  meridian load Singer singers.yml --batch-size 100
  meridian load Singer singers.yml --ignore-conflicts
  meridian load Singer singers.yml --update-conflicts --update-fields rank --unique-fields name`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, dataFile := args[0], args[1]

		eng := engine.NewEngine().WithCapabilities(LoadCapabilities())
		if _, err := eng.LoadSchemaFromFile(schemaFile); err != nil {
			return err
		}

		rows, err := readDataFile(dataFile)
		if err != nil {
			return err
		}
		printInfo("Loaded %d record(s) from %s", len(rows), dataFile)

		cfg, err := LoadConnectorConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := eng.Connect(ctx, cfg); err != nil {
			return err
		}
		defer eng.Close()

		mutation := eng.BulkInsert(entity)
		for _, row := range rows {
			mutation.Add(row)
		}
		if batchSize > 0 {
			mutation.BatchSize(batchSize)
		}
		if ignoreConflicts {
			mutation.OnConflictIgnore()
		}
		if updateConflicts {
			mutation.OnConflictUpdate(updateFields, uniqueFields)
		}
		if verbose {
			mutation.Debug()
		}

		start := time.Now()
		result, err := mutation.Execute(ctx)
		if err != nil {
			return err
		}

		printSuccess("Inserted %d record(s) in %d batch(es) (%v)",
			result.Inserted, result.Batches, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func readDataFile(path string) ([]map[string]interface{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var rows []map[string]interface{}
	if err := yaml.Unmarshal(content, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

func init() {
	loadCmd.Flags().StringVar(&schemaFile, "schema", "schema.json", "schema file to load")
	loadCmd.Flags().IntVar(&batchSize, "batch-size", 0, "records per statement (0 = backend ceiling)")
	loadCmd.Flags().BoolVar(&ignoreConflicts, "ignore-conflicts", false, "skip rows that hit unique constraints")
	loadCmd.Flags().BoolVar(&updateConflicts, "update-conflicts", false, "update rows that hit unique constraints")
	loadCmd.Flags().StringSliceVar(&updateFields, "update-fields", nil, "fields to update on conflict")
	loadCmd.Flags().StringSliceVar(&uniqueFields, "unique-fields", nil, "conflict target fields")
	rootCmd.AddCommand(loadCmd)
}
