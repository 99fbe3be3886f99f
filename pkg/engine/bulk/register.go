package bulk

import "github.com/meridian-db/meridiandb/pkg/engine"

// Auto-register the bulk factory on package import
// This happens automatically when the bulk package is imported anywhere
func init() {
	engine.RegisterBulkFactory(NewFactory())
}
