package main

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-db/meridiandb/pkg/engine"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the database connection",
	Long:  "Connect to the configured database and verify it responds.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConnectorConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		connector := engine.NewConnector(cfg)
		if err := connector.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		defer connector.Close()

		start := time.Now()
		if err := connector.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}

		printSuccess("Connected to %s (%v)", connector.Alias(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
