package engine

import "context"

// ============================================================
// CONFLICT POLICY
// ============================================================

type ConflictMode int

const (
	ConflictNone ConflictMode = iota
	ConflictIgnore
	ConflictUpdate
)

// ConflictPolicy carries the resolved conflict-handling intent for a
// bulk insert. NONE and IGNORE carry no fields; UPDATE carries the
// resolved update targets and, when the backend requires an explicit
// conflict target, the resolved unique fields.
type ConflictPolicy struct {
	Mode         ConflictMode
	UpdateFields []*Field
	UniqueFields []*Field
}

// ============================================================
// BULK RESULT TYPES
// ============================================================

type BulkResult struct {
	Records  []*Record // input records, mutated, original order
	Inserted int
	Batches  int
}

// ReturnedRow is one row of RETURNING values, aligned positionally
// with the returning-field subset of the insert statement.
type ReturnedRow []interface{}

// ============================================================
// BULK MUTATION BUILDER INTERFACE
// ============================================================

// BulkMutation builds and executes a multi-row INSERT for one table
type BulkMutation interface {
	// Records appends pre-built records to the insert
	Records(recs ...*Record) BulkMutation

	// Add appends a record built from raw field values
	Add(values map[string]interface{}) BulkMutation

	// BatchSize hints the per-statement row count. The backend's
	// parameter ceiling always wins over a larger hint.
	BatchSize(n int) BulkMutation

	// OnConflictIgnore makes conflicting rows be skipped
	OnConflictIgnore() BulkMutation

	// OnConflictUpdate makes conflicting rows update the given fields,
	// optionally keyed on uniqueFields as the conflict target
	OnConflictUpdate(updateFields []string, uniqueFields []string) BulkMutation

	// Debug enables debug output for this mutation
	Debug() BulkMutation

	// Execute validates, plans and runs the bulk insert atomically
	Execute(ctx context.Context) (*BulkResult, error)
}

// ============================================================
// FACTORY
// ============================================================

// BulkFactory creates bulk mutation builders.
//
// Factory is STATELESS: schema, connector and capabilities are passed
// in each call so the registry pattern works without an import cycle
// between engine and bulk.
//
// Factory is registered once via init() in the bulk package. Engine
// uses it via getBulkFactory() from the registry.
type BulkFactory interface {
	NewBulkInsert(entity string, schema *Schema, connector *Connector, caps Capabilities) BulkMutation
}

// ============================================================
// EXECUTION CONTRACTS
// ============================================================

// RowExecutor issues one multi-row INSERT against the active scope.
// rows are ordered value slices aligned with fields; the returned
// rows (if any) align positionally with returning.
type RowExecutor interface {
	Insert(ctx context.Context, table *Table, fields []*Field, rows [][]interface{}, policy ConflictPolicy, returning []*Field) ([]ReturnedRow, error)
}

// AtomicRunner runs fn inside a single top-level transaction scope
// (no savepoint). Any error from fn rolls back every statement the
// scope issued.
type AtomicRunner interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, exec RowExecutor) error) error
}
