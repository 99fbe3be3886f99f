package main

import (
	"fmt"
	"os"

	"github.com/meridian-db/meridiandb/internal/config"
	"github.com/meridian-db/meridiandb/pkg/engine"
)

// LoadConnectorConfig resolves connection settings from:
// 1. DATABASE_URL environment variable (priority)
// 2. .meridian.yml file in current directory
// 3. built-in defaults
func LoadConnectorConfig() (engine.ConnectorConfig, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		cfg, err := engine.ParseConnectionString(databaseURL)
		if err != nil {
			return engine.ConnectorConfig{}, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		if verbose {
			printInfo("Using DATABASE_URL from environment")
		}
		return cfg, nil
	}

	loader := config.NewLoader(".")
	if loader.Exists() {
		fileConfig, err := loader.Load()
		if err != nil {
			return engine.ConnectorConfig{}, err
		}

		cfg := engine.DefaultConfig()
		if fileConfig.Database.ConnectionString != "" {
			cfg, err = engine.ParseConnectionString(fileConfig.Database.ConnectionString)
			if err != nil {
				return engine.ConnectorConfig{}, fmt.Errorf("invalid connection_string in .meridian.yml: %w", err)
			}
		}
		if fileConfig.Database.MaxConnections != 0 {
			cfg.MaxConns = int32(fileConfig.Database.MaxConnections)
		}
		if fileConfig.Database.MinConnections != 0 {
			cfg.MinConns = int32(fileConfig.Database.MinConnections)
		}

		if verbose {
			printInfo("Using .meridian.yml configuration file")
		}
		return cfg, nil
	}

	if verbose {
		printInfo("Using default configuration (localhost:5432)")
	}
	return engine.DefaultConfig(), nil
}

// LoadCapabilities resolves the backend capability profile from
// .meridian.yml. Unknown or missing profiles get the conservative
// Spanner-class defaults.
func LoadCapabilities() engine.Capabilities {
	loader := config.NewLoader(".")
	if !loader.Exists() {
		return engine.SpannerCapabilities()
	}

	fileConfig, err := loader.Load()
	if err != nil {
		return engine.SpannerCapabilities()
	}

	switch fileConfig.Database.Profile {
	case "postgres", "postgresql":
		return engine.PostgresCapabilities()
	default:
		return engine.SpannerCapabilities()
	}
}
