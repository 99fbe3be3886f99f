package engine

// Capabilities describes what the target backend supports on the bulk
// write path. The flags are read-only configuration: the planner and
// conflict resolver take them explicitly instead of probing the
// connection, so the core stays testable against synthetic sets.
type Capabilities struct {
	SupportsIgnoreConflicts           bool
	SupportsUpdateConflicts           bool
	SupportsUpdateConflictsWithTarget bool
	CanReturnRowsFromBulkInsert       bool

	// MaxQueryParams is the backend's hard ceiling on bind parameters
	// per statement.
	MaxQueryParams int
}

// SpannerCapabilities returns the profile for Spanner-class
// distributed SQL backends: no conflict clauses, no rows returned
// from bulk inserts, and a tight parameter ceiling.
func SpannerCapabilities() Capabilities {
	return Capabilities{
		SupportsIgnoreConflicts:           false,
		SupportsUpdateConflicts:           false,
		SupportsUpdateConflictsWithTarget: false,
		CanReturnRowsFromBulkInsert:       false,
		MaxQueryParams:                    950,
	}
}

// PostgresCapabilities returns the profile for PostgreSQL backends
func PostgresCapabilities() Capabilities {
	return Capabilities{
		SupportsIgnoreConflicts:           true,
		SupportsUpdateConflicts:           true,
		SupportsUpdateConflictsWithTarget: true,
		CanReturnRowsFromBulkInsert:       true,
		MaxQueryParams:                    65535,
	}
}
