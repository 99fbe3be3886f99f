package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// atomicRunner implements AtomicRunner over the connector pool. One
// call to Atomic maps to exactly one top-level transaction; there is
// no savepoint nesting on the bulk write path.
type atomicRunner struct {
	connector *Connector
}

// NewAtomicRunner creates an AtomicRunner from a connector
func NewAtomicRunner(connector *Connector) AtomicRunner {
	return &atomicRunner{connector: connector}
}

// Atomic begins a transaction, hands fn an executor bound to it, and
// commits on success. Any error from fn rolls the whole scope back —
// no partial insert is ever observable.
func (a *atomicRunner) Atomic(ctx context.Context, fn func(ctx context.Context, exec RowExecutor) error) error {
	if !a.connector.IsConnected() {
		return fmt.Errorf("not connected to database")
	}

	tx, err := a.connector.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, &txExecutor{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
