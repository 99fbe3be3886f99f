package bulk

import (
	"context"

	"github.com/meridian-db/meridiandb/pkg/engine"
)

// CreateOptions carries the caller's bulk insert options.
type CreateOptions struct {
	// BatchSize hints the per-statement row count. Zero means "let
	// the backend ceiling decide"; the ceiling always wins over a
	// larger hint.
	BatchSize int

	IgnoreConflicts bool
	UpdateConflicts bool
	UpdateFields    []string
	UniqueFields    []string
}

// Coordinator orchestrates the whole bulk insert: key assignment,
// batch planning and per-batch execution under one atomic scope.
type Coordinator struct {
	Caps   engine.Capabilities
	Runner engine.AtomicRunner
	Keys   KeyGenerator // nil when the backend returns generated keys
	DB     string       // connection alias for persisted records
}

// BulkCreate inserts every record into table, assigning primary keys
// where the backend cannot, and returns the same records mutated in
// place, in original order. All batches commit together or not at
// all. Batches run strictly sequentially: later batches may depend on
// keys assigned earlier in the same call.
func (c *Coordinator) BulkCreate(ctx context.Context, table *engine.Table, records []*engine.Record, opts CreateOptions) ([]*engine.Record, error) {
	if opts.BatchSize < 0 {
		return nil, &engine.InvalidArgumentError{
			Reason: "batch size must be a positive integer",
		}
	}

	// A parent with a different concrete table means the hierarchy
	// spans multiple tables, which this path cannot insert into.
	concrete := table.ConcreteTable()
	for _, parent := range table.Parents {
		if parent.ConcreteTable() != concrete {
			return nil, &engine.InvalidArgumentError{
				Reason: "cannot bulk create a multi-table inherited model",
			}
		}
	}

	if len(records) == 0 {
		return records, nil
	}

	policy, err := ResolvePolicy(table, c.Caps, opts.IgnoreConflicts, opts.UpdateConflicts, opts.UpdateFields, opts.UniqueFields)
	if err != nil {
		return nil, err
	}

	fields := table.ConcreteFields()
	batchSize := effectiveBatchSize(c.Caps, len(fields), opts.BatchSize)

	inserter := &Inserter{Table: table, Caps: c.Caps, DB: c.DB}

	err = c.Runner.Atomic(ctx, func(ctx context.Context, exec engine.RowExecutor) error {
		if err := AssignKeys(records, c.Keys); err != nil {
			return err
		}

		withKey, withoutKey := Plan(records, batchSize)

		for _, batch := range withKey {
			if err := inserter.InsertBatch(ctx, exec, batch, fields, policy, true); err != nil {
				return err
			}
		}

		// Without a key generator the auto key column has no client
		// value and the backend populates it, so it stays out of the
		// statement.
		unkeyedFields := fields
		if c.Keys == nil {
			unkeyedFields = withoutAutoFields(fields)
		}
		for _, batch := range withoutKey {
			if err := inserter.InsertBatch(ctx, exec, batch, unkeyedFields, policy, false); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// effectiveBatchSize derives the row count per statement from the
// backend's parameter ceiling and the field count. A caller hint only
// applies when it is stricter than the ceiling.
func effectiveBatchSize(caps engine.Capabilities, fieldCount, hint int) int {
	ceiling := caps.MaxQueryParams
	if fieldCount > 0 {
		ceiling = caps.MaxQueryParams / fieldCount
	}
	if ceiling < 1 {
		ceiling = 1
	}
	if hint > 0 && hint < ceiling {
		return hint
	}
	return ceiling
}

func withoutAutoFields(fields []*engine.Field) []*engine.Field {
	out := make([]*engine.Field, 0, len(fields))
	for _, f := range fields {
		if f.Auto {
			continue
		}
		out = append(out, f)
	}
	return out
}
