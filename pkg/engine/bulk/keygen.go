package bulk

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/meridian-db/meridiandb/pkg/engine"
)

// KeyGenerator produces client-side primary keys for backends that
// have no server-side auto-increment.
type KeyGenerator interface {
	GenerateKey() interface{}
}

// RandomInt64 generates a non-negative 63-bit key from a random
// 128-bit identifier. The sign bit is masked off so the value fits
// the backend's signed INT64 key columns without ambiguity.
type RandomInt64 struct{}

func (RandomInt64) GenerateKey() interface{} {
	u := uuid.New()
	return int64(binary.BigEndian.Uint64(u[:8]) & 0x7FFFFFFFFFFFFFFF)
}

// AssignKeys populates primary keys on every record that lacks one
// and resolves pending related references on all of them. Records
// that already carry a key are untouched. With a nil generator, keys
// are left for the backend to return.
func AssignKeys(records []*engine.Record, gen KeyGenerator) error {
	for _, r := range records {
		if r.PK() == nil && gen != nil {
			r.AssignPK(gen.GenerateKey())
		}
		if err := r.ResolveReferences(); err != nil {
			return err
		}
	}
	return nil
}
