package bulk

import (
	"github.com/meridian-db/meridiandb/pkg/engine"
)

// Plan partitions records by explicit-key status and slices each
// group into contiguous batches of at most batchSize rows.
//
// The partition is stable: relative order within each group matches
// the input, because returned-row mapping downstream is positional.
// Records whose key came from the generator stay in the withoutKey
// group — their returned-column mapping still includes the key.
func Plan(records []*engine.Record, batchSize int) (withKey, withoutKey [][]*engine.Record) {
	var keyed, unkeyed []*engine.Record
	for _, r := range records {
		if r.HasExplicitPK() {
			keyed = append(keyed, r)
		} else {
			unkeyed = append(unkeyed, r)
		}
	}
	return chunk(keyed, batchSize), chunk(unkeyed, batchSize)
}

// chunk slices records into contiguous batches of size n; the last
// batch may be smaller. Empty input yields zero batches.
func chunk(records []*engine.Record, n int) [][]*engine.Record {
	if len(records) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}

	batches := make([][]*engine.Record, 0, (len(records)+n-1)/n)
	for start := 0; start < len(records); start += n {
		end := start + n
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}
