package bulk

import (
	"github.com/meridian-db/meridiandb/pkg/engine"
)

// pkToken is the literal callers may use inside uniqueFields to mean
// "the primary key field". It bypasses the normal field lookup and
// the concreteness checks.
const pkToken = "pk"

// ResolvePolicy validates and normalizes the caller's conflict
// handling intent against the backend capability flags. It runs
// before any database work; no side effects beyond validation.
func ResolvePolicy(table *engine.Table, caps engine.Capabilities, ignoreConflicts, updateConflicts bool, updateFields, uniqueFields []string) (engine.ConflictPolicy, error) {
	none := engine.ConflictPolicy{Mode: engine.ConflictNone}

	if ignoreConflicts && updateConflicts {
		return none, &engine.InvalidArgumentError{
			Reason: "ignoreConflicts and updateConflicts are mutually exclusive",
		}
	}

	if ignoreConflicts {
		if !caps.SupportsIgnoreConflicts {
			return none, &engine.UnsupportedError{Capability: "ignoring conflicts"}
		}
		return engine.ConflictPolicy{Mode: engine.ConflictIgnore}, nil
	}

	if !updateConflicts {
		return none, nil
	}

	if !caps.SupportsUpdateConflicts {
		return none, &engine.UnsupportedError{Capability: "updating conflicts"}
	}
	if len(updateFields) == 0 {
		return none, &engine.InvalidArgumentError{
			Reason: "fields that will be updated when a row insertion fails on conflicts must be provided",
		}
	}
	if len(uniqueFields) > 0 && !caps.SupportsUpdateConflictsWithTarget {
		return none, &engine.UnsupportedError{
			Capability: "updating conflicts with specifying unique fields that can trigger the upsert",
		}
	}
	if len(uniqueFields) == 0 && caps.SupportsUpdateConflictsWithTarget {
		return none, &engine.InvalidArgumentError{
			Reason: "unique fields that can trigger the upsert must be provided",
		}
	}

	// Updating primary keys and non-concrete fields is forbidden.
	resolvedUpdate, err := resolveFields(table, updateFields, false)
	if err != nil {
		return none, err
	}
	for _, f := range resolvedUpdate {
		if f.PrimaryKey {
			return none, &engine.InvalidArgumentError{
				Reason: "bulk insert cannot be used with primary keys in updateFields",
			}
		}
	}

	resolvedUnique, err := resolveFields(table, uniqueFields, true)
	if err != nil {
		return none, err
	}

	return engine.ConflictPolicy{
		Mode:         engine.ConflictUpdate,
		UpdateFields: resolvedUpdate,
		UniqueFields: resolvedUnique,
	}, nil
}

// resolveFields maps field names to table fields and rejects
// non-concrete and pure-relation fields. With allowPKToken, the "pk"
// literal resolves to the primary key field and skips those checks.
func resolveFields(table *engine.Table, names []string, allowPKToken bool) ([]*engine.Field, error) {
	fields := make([]*engine.Field, 0, len(names))
	for _, name := range names {
		if allowPKToken && name == pkToken {
			pk := table.PrimaryKey()
			if pk == nil {
				return nil, &engine.InvalidArgumentError{
					Reason: "entity '" + table.Name + "' has no primary key",
				}
			}
			fields = append(fields, pk)
			continue
		}

		f := table.FieldByName(name)
		if f == nil {
			return nil, &engine.UnknownFieldError{Entity: table.Name, Field: name}
		}
		if !f.Concrete() {
			return nil, &engine.InvalidArgumentError{
				Reason: "bulk insert can only be used with concrete fields, '" + name + "' is not",
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}
