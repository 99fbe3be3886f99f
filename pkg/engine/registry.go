// engine/registry.go
package engine

var bulkFactory BulkFactory

func RegisterBulkFactory(factory BulkFactory) {
	if factory == nil {
		return
	}
	if bulkFactory == nil {
		bulkFactory = factory
	}
}

func getBulkFactory() BulkFactory {
	return bulkFactory
}
