package engine

import (
	"context"
)

type invalidBulkMutation struct {
	err error
}

func newInvalidBulkMutation(err error) BulkMutation {
	return &invalidBulkMutation{err: err}
}

func (m *invalidBulkMutation) Records(recs ...*Record) BulkMutation {
	return m
}

func (m *invalidBulkMutation) Add(values map[string]interface{}) BulkMutation {
	return m
}

func (m *invalidBulkMutation) BatchSize(n int) BulkMutation {
	return m
}

func (m *invalidBulkMutation) OnConflictIgnore() BulkMutation {
	return m
}

func (m *invalidBulkMutation) OnConflictUpdate(updateFields []string, uniqueFields []string) BulkMutation {
	return m
}

func (m *invalidBulkMutation) Debug() BulkMutation {
	return m
}

func (m *invalidBulkMutation) Execute(ctx context.Context) (*BulkResult, error) {
	return nil, m.err
}
