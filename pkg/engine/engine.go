package engine

import (
	"context"
	"fmt"
	"os"
)

// EngineVersion is the released version of the library
const EngineVersion = "0.2.0"

// Engine is the main entry point for MeridianDB
type Engine struct {
	schema    *Schema
	connector *Connector
	caps      Capabilities
}

// ============================================================
// ENGINE INITIALIZATION
// ============================================================

// NewEngine creates an engine with the Spanner-class capability
// profile and no schema loaded
func NewEngine() *Engine {
	return &Engine{
		caps: SpannerCapabilities(),
	}
}

// NewEngineWithSchema creates an engine and loads a schema file
func NewEngineWithSchema(schemaPath string) (*Engine, error) {
	eng := NewEngine()

	if _, err := os.Stat(schemaPath); err != nil {
		return nil, fmt.Errorf("schema file not found: %s", schemaPath)
	}

	if _, err := eng.LoadSchemaFromFile(schemaPath); err != nil {
		return nil, err
	}
	return eng, nil
}

// WithCapabilities overrides the backend capability profile
func (e *Engine) WithCapabilities(caps Capabilities) *Engine {
	e.caps = caps
	return e
}

// Capabilities returns the active backend capability profile
func (e *Engine) Capabilities() Capabilities {
	return e.caps
}

// ─────────────────────────────────────────────────────────────
// Schema handling
// ─────────────────────────────────────────────────────────────

// LoadSchemaFromString parses a JSON schema from a string
func (e *Engine) LoadSchemaFromString(input string) (*Schema, error) {
	schema, err := ParseSchemaJSON(input)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize schema: %w", err)
	}

	e.schema = schema
	return schema, nil
}

// LoadSchemaFromFile loads a JSON schema file
func (e *Engine) LoadSchemaFromFile(filepath string) (*Schema, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return e.LoadSchemaFromString(string(content))
}

// GetSchema returns the currently loaded schema
func (e *Engine) GetSchema() *Schema {
	return e.schema
}

// Version returns the engine version
func (e *Engine) Version() string {
	return EngineVersion
}

// ─────────────────────────────────────────────────────────────
// Connection handling
// ─────────────────────────────────────────────────────────────

// Connect establishes a database connection
func (e *Engine) Connect(ctx context.Context, config ConnectorConfig) error {
	e.connector = NewConnector(config)
	if err := e.connector.Connect(ctx); err != nil {
		return err
	}

	// Bulk factory is auto-registered via init() in the bulk package.

	return nil
}

// Close closes the database connection
func (e *Engine) Close() {
	if e.connector != nil {
		e.connector.Close()
	}
}

// IsConnected returns true if connected to a database
func (e *Engine) IsConnected() bool {
	return e.connector != nil && e.connector.IsConnected()
}

// Ping verifies the database connection is alive
func (e *Engine) Ping(ctx context.Context) error {
	if e.connector == nil {
		return fmt.Errorf("not connected")
	}
	return e.connector.Ping(ctx)
}

// Connector returns the underlying connector for raw SQL access
func (e *Engine) Connector() *Connector {
	return e.connector
}

// ─────────────────────────────────────────────────────────────
// Bulk mutation API (uses registry pattern)
// ─────────────────────────────────────────────────────────────

// BulkInsert starts a new bulk INSERT mutation for an entity
func (e *Engine) BulkInsert(entity string) BulkMutation {
	if e.schema == nil {
		return newInvalidBulkMutation(fmt.Errorf("schema not loaded - call LoadSchemaFromFile first"))
	}
	if e.connector == nil {
		return newInvalidBulkMutation(fmt.Errorf("not connected - call Connect() first"))
	}

	factory := getBulkFactory()
	if factory == nil {
		return newInvalidBulkMutation(fmt.Errorf("no bulk factory registered - import the bulk package"))
	}
	return factory.NewBulkInsert(entity, e.schema, e.connector, e.caps)
}
