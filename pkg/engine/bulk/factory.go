package bulk

import "github.com/meridian-db/meridiandb/pkg/engine"

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// NewBulkInsert creates a bulk insert builder
func (f *Factory) NewBulkInsert(entity string, schema *engine.Schema, connector *engine.Connector, caps engine.Capabilities) engine.BulkMutation {
	return NewBuilder(schema, connector, caps, entity)
}
