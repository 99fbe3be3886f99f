package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config mirrors the .meridian.yml project file.
type Config struct {
	Version string `yaml:"version"`

	Database struct {
		Driver            string `yaml:"driver"`
		ConnectionString  string `yaml:"connection_string"`
		Profile           string `yaml:"profile"` // "spanner" or "postgres"
		MaxConnections    int    `yaml:"max_connections"`
		MinConnections    int    `yaml:"min_connections"`
		ConnectionTimeout int    `yaml:"connection_timeout"`
	} `yaml:"database"`

	Schema struct {
		Path string `yaml:"path"`
	} `yaml:"schema"`

	Bulk struct {
		DefaultBatchSize int  `yaml:"default_batch_size"`
		IgnoreConflicts  bool `yaml:"ignore_conflicts"`
	} `yaml:"bulk"`
}

// Loader reads project configuration from a working directory.
type Loader struct {
	workDir  string
	filePath string
}

// NewLoader creates a loader rooted at workDir.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir:  workDir,
		filePath: filepath.Join(workDir, ".meridian.yml"),
	}
}

// Load reads and parses the .meridian.yml file. Environment variable
// references of the form ${VAR} are expanded before parsing.
func (l *Loader) Load() (*Config, error) {
	content, err := os.ReadFile(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", l.filePath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(content))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.filePath, err)
	}

	return &cfg, nil
}

// Exists reports whether the config file is present.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.filePath)
	return err == nil
}
