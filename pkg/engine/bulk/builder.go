package bulk

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-db/meridiandb/pkg/engine"
)

// ============================================================
// BULK INSERT BUILDER
// ============================================================

type Builder struct {
	schema    *engine.Schema
	connector *engine.Connector
	caps      engine.Capabilities
	entity    string

	records []*engine.Record
	opts    CreateOptions

	batchSizeSet bool

	// Debug settings
	debugLevel *engine.DebugLevel
}

func NewBuilder(schema *engine.Schema, connector *engine.Connector, caps engine.Capabilities, entity string) *Builder {
	return &Builder{
		schema:    schema,
		connector: connector,
		caps:      caps,
		entity:    entity,
	}
}

// Records implements engine.BulkMutation
func (b *Builder) Records(recs ...*engine.Record) engine.BulkMutation {
	b.records = append(b.records, recs...)
	return b
}

// Add implements engine.BulkMutation
func (b *Builder) Add(values map[string]interface{}) engine.BulkMutation {
	b.records = append(b.records, engine.NewRecord(values))
	return b
}

// BatchSize implements engine.BulkMutation
func (b *Builder) BatchSize(n int) engine.BulkMutation {
	b.opts.BatchSize = n
	b.batchSizeSet = true
	return b
}

// OnConflictIgnore implements engine.BulkMutation
func (b *Builder) OnConflictIgnore() engine.BulkMutation {
	b.opts.IgnoreConflicts = true
	return b
}

// OnConflictUpdate implements engine.BulkMutation
func (b *Builder) OnConflictUpdate(updateFields []string, uniqueFields []string) engine.BulkMutation {
	b.opts.UpdateConflicts = true
	b.opts.UpdateFields = updateFields
	b.opts.UniqueFields = uniqueFields
	return b
}

// Debug implements engine.BulkMutation
func (b *Builder) Debug() engine.BulkMutation {
	level := engine.DebugSQL
	b.debugLevel = &level
	return b
}

// Execute implements engine.BulkMutation
func (b *Builder) Execute(ctx context.Context) (*engine.BulkResult, error) {
	start := time.Now()

	table := b.schema.Table(b.entity)
	if table == nil {
		return nil, &engine.UnknownEntityError{Entity: b.entity}
	}

	if b.batchSizeSet && b.opts.BatchSize <= 0 {
		return nil, &engine.InvalidArgumentError{
			Reason: "batch size must be a positive integer",
		}
	}

	coordinator := &Coordinator{
		Caps:   b.caps,
		Runner: engine.NewAtomicRunner(b.connector),
		Keys:   defaultKeyGenerator(table),
		DB:     b.connector.Alias(),
	}

	if b.shouldDebug() {
		fmt.Printf("[ENTITY] BULK INSERT INTO %s (%d records)\n", b.entity, len(b.records))
	}

	records, err := coordinator.BulkCreate(ctx, table, b.records, b.opts)
	if err != nil {
		return nil, mapDatabaseError(err, b.entity)
	}

	result := &engine.BulkResult{
		Records:  records,
		Inserted: len(records),
		Batches:  batchCount(len(records), effectiveBatchSize(b.caps, len(table.ConcreteFields()), b.opts.BatchSize)),
	}

	if b.shouldTrace() {
		fmt.Printf("[TRACE] BULK INSERT on %s: %v, %d rows\n", b.entity, time.Since(start), result.Inserted)
	}

	return result, nil
}

func (b *Builder) shouldDebug() bool {
	if b.debugLevel != nil {
		return *b.debugLevel >= engine.DebugSQL
	}
	return false
}

func (b *Builder) shouldTrace() bool {
	if b.debugLevel != nil {
		return *b.debugLevel >= engine.DebugTrace
	}
	return false
}

// defaultKeyGenerator picks the key strategy for a table: random
// 63-bit keys when the key column is client-generated, nothing when
// the backend hands keys back itself.
func defaultKeyGenerator(table *engine.Table) KeyGenerator {
	pk := table.PrimaryKey()
	if pk != nil && pk.Auto && !pk.Returning {
		return RandomInt64{}
	}
	return nil
}

func batchCount(records, batchSize int) int {
	if records == 0 || batchSize < 1 {
		return 0
	}
	return (records + batchSize - 1) / batchSize
}
