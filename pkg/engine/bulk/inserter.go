package bulk

import (
	"context"

	"github.com/meridian-db/meridiandb/pkg/engine"
)

// Inserter writes one batch at a time through a RowExecutor and maps
// returned column values back onto the source records.
type Inserter struct {
	Table *engine.Table
	Caps  engine.Capabilities

	// DB is the connection alias records get bound to once written.
	DB string
}

// InsertBatch issues the insert for one batch inside the enclosing
// transaction scope and writes returned values back in place.
//
// explicitKeys tells the write-back which returning fields apply: for
// records with a caller-supplied key the key column is skipped, for
// generated-key records every returning field is written back.
func (in *Inserter) InsertBatch(ctx context.Context, exec engine.RowExecutor, batch []*engine.Record, fields []*engine.Field, policy engine.ConflictPolicy, explicitKeys bool) error {
	if len(batch) == 0 {
		return nil
	}

	var returning []*engine.Field
	if in.Caps.CanReturnRowsFromBulkInsert {
		returning = in.Table.ReturningFields()
	}

	rows := make([][]interface{}, len(batch))
	for i, r := range batch {
		row := make([]interface{}, len(fields))
		for j, f := range fields {
			row[j] = r.Value(f)
		}
		rows[i] = row
	}

	returned, err := exec.Insert(ctx, in.Table, fields, rows, policy, returning)
	if err != nil {
		return err
	}

	// The backend contract: with returning support and no conflict
	// policy, every input row comes back exactly once.
	if len(returning) > 0 && policy.Mode == engine.ConflictNone {
		if len(returned) != len(batch) {
			return &engine.ConsistencyError{
				Table:    in.Table.Name,
				Expected: len(batch),
				Got:      len(returned),
			}
		}
	}

	pk := in.Table.PrimaryKey()
	for i, r := range batch {
		if i < len(returned) {
			writeBack(r, returned[i], returning, pk, explicitKeys)
		}
		r.MarkPersisted(in.DB)
	}

	return nil
}

// writeBack zips one returned row against the returning fields and
// sets record attributes positionally. The key column is skipped for
// records whose key the caller already supplied.
func writeBack(r *engine.Record, row engine.ReturnedRow, returning []*engine.Field, pk *engine.Field, explicitKey bool) {
	for j, f := range returning {
		if j >= len(row) || row[j] == nil {
			continue
		}
		if pk != nil && f.Name == pk.Name {
			if explicitKey {
				continue
			}
			r.SetPK(row[j])
			continue
		}
		r.Set(f.Name, row[j])
	}
}
