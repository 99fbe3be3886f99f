package bulk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/meridian-db/meridiandb/pkg/engine"
)

// ============================================================
// TEST DOUBLES
// ============================================================

type insertCall struct {
	table     *engine.Table
	fields    []*engine.Field
	rows      [][]interface{}
	policy    engine.ConflictPolicy
	returning []*engine.Field
}

type fakeExecutor struct {
	calls   []insertCall
	failAt  int // 1-based call index to fail at, 0 = never
	respond func(call insertCall) []engine.ReturnedRow
}

func (f *fakeExecutor) Insert(ctx context.Context, table *engine.Table, fields []*engine.Field, rows [][]interface{}, policy engine.ConflictPolicy, returning []*engine.Field) ([]engine.ReturnedRow, error) {
	call := insertCall{table: table, fields: fields, rows: rows, policy: policy, returning: returning}
	f.calls = append(f.calls, call)

	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, fmt.Errorf("injected failure on call %d", f.failAt)
	}
	if f.respond != nil {
		return f.respond(call), nil
	}
	if len(returning) > 0 {
		rows := make([]engine.ReturnedRow, len(call.rows))
		for i := range rows {
			rows[i] = make(engine.ReturnedRow, len(returning))
		}
		return rows, nil
	}
	return nil, nil
}

type fakeRunner struct {
	exec       engine.RowExecutor
	scopes     int
	rolledBack bool
}

func (r *fakeRunner) Atomic(ctx context.Context, fn func(ctx context.Context, exec engine.RowExecutor) error) error {
	r.scopes++
	if err := fn(ctx, r.exec); err != nil {
		r.rolledBack = true
		return err
	}
	return nil
}

// ============================================================
// TEST TABLES
// ============================================================

// spannerSingers models a backend without server-generated keys or
// returning rows: the client must produce keys itself.
func spannerSingers() *engine.Table {
	return &engine.Table{
		Name:      "Singer",
		TableName: "singers",
		Fields: []*engine.Field{
			{Name: "id", Column: "id", Type: engine.FieldTypeInt64, PrimaryKey: true, Auto: true},
			{Name: "name", Column: "name", Type: engine.FieldTypeString},
			{Name: "rank", Column: "rank", Type: engine.FieldTypeInt64},
		},
	}
}

// pgSingers models a backend that hands generated keys and default
// columns back through RETURNING.
func pgSingers() *engine.Table {
	return &engine.Table{
		Name:      "Singer",
		TableName: "singers",
		Fields: []*engine.Field{
			{Name: "id", Column: "id", Type: engine.FieldTypeInt64, PrimaryKey: true, Auto: true, Returning: true},
			{Name: "name", Column: "name", Type: engine.FieldTypeString},
			{Name: "rank", Column: "rank", Type: engine.FieldTypeInt64},
			{Name: "created_at", Column: "created_at", Type: engine.FieldTypeTimestamp, Returning: true},
		},
	}
}

func newCoordinator(caps engine.Capabilities, exec *fakeExecutor, keys KeyGenerator) (*Coordinator, *fakeRunner) {
	runner := &fakeRunner{exec: exec}
	return &Coordinator{
		Caps:   caps,
		Runner: runner,
		Keys:   keys,
		DB:     "test-db",
	}, runner
}

// ============================================================
// COORDINATOR TESTS
// ============================================================

func TestBulkCreate_AssignsKeysAndMarksPersisted(t *testing.T) {
	exec := &fakeExecutor{}
	coord, _ := newCoordinator(engine.SpannerCapabilities(), exec, RandomInt64{})

	recs := keylessRecords(3)
	out, err := coord.BulkCreate(context.Background(), spannerSingers(), recs, CreateOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("Expected 3 records back, got %d", len(out))
	}
	for i, r := range out {
		if r != recs[i] {
			t.Errorf("Position %d: expected the input record back in original order", i)
		}
		if r.PK() == nil {
			t.Errorf("Record %d: expected assigned primary key", i)
		}
		if r.IsNew() {
			t.Errorf("Record %d: expected IsNew to be cleared", i)
		}
		if r.DB() != "test-db" {
			t.Errorf("Record %d: expected binding to test-db, got %q", i, r.DB())
		}
	}
}

func TestBulkCreate_EmptyInput(t *testing.T) {
	exec := &fakeExecutor{}
	coord, runner := newCoordinator(engine.SpannerCapabilities(), exec, RandomInt64{})

	out, err := coord.BulkCreate(context.Background(), spannerSingers(), nil, CreateOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Expected empty result, got %d records", len(out))
	}
	if runner.scopes != 0 {
		t.Errorf("Expected no transaction for empty input, got %d scopes", runner.scopes)
	}
}

func TestBulkCreate_NegativeBatchSize(t *testing.T) {
	exec := &fakeExecutor{}
	coord, _ := newCoordinator(engine.SpannerCapabilities(), exec, RandomInt64{})

	_, err := coord.BulkCreate(context.Background(), spannerSingers(), keylessRecords(1), CreateOptions{BatchSize: -1})

	var invalidErr *engine.InvalidArgumentError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Expected InvalidArgumentError, got %v", err)
	}
}

func TestBulkCreate_MultiTableInheritance(t *testing.T) {
	exec := &fakeExecutor{}
	coord, _ := newCoordinator(engine.SpannerCapabilities(), exec, RandomInt64{})

	base := &engine.Table{Name: "Artist", TableName: "artists"}
	table := spannerSingers()
	table.Parents = []*engine.Table{base}

	_, err := coord.BulkCreate(context.Background(), table, keylessRecords(1), CreateOptions{})

	var invalidErr *engine.InvalidArgumentError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Expected InvalidArgumentError, got %v", err)
	}
}

func TestBulkCreate_ProxyParentAllowed(t *testing.T) {
	exec := &fakeExecutor{}
	coord, _ := newCoordinator(engine.SpannerCapabilities(), exec, RandomInt64{})

	table := spannerSingers()
	proxyParent := &engine.Table{Name: "SingerProxy", TableName: "singers", Proxy: table}
	table.Parents = []*engine.Table{proxyParent}

	_, err := coord.BulkCreate(context.Background(), table, keylessRecords(1), CreateOptions{})
	if err != nil {
		t.Fatalf("Expected proxy inheritance to be allowed, got: %v", err)
	}
}

func TestBulkCreate_BatchSizeFromParameterCeiling(t *testing.T) {
	exec := &fakeExecutor{}
	caps := engine.SpannerCapabilities()
	caps.MaxQueryParams = 6 // 3 fields per row → 2 rows per batch
	coord, _ := newCoordinator(caps, exec, RandomInt64{})

	_, err := coord.BulkCreate(context.Background(), spannerSingers(), keylessRecords(5), CreateOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(exec.calls) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(exec.calls))
	}
	total := 0
	for i, call := range exec.calls {
		if len(call.rows) > 2 {
			t.Errorf("Batch %d exceeds floor(maxParams/fields)=2 rows: %d", i, len(call.rows))
		}
		total += len(call.rows)
	}
	if total != 5 {
		t.Errorf("Expected batches to partition all 5 rows, got %d", total)
	}
}

func TestBulkCreate_HintOnlyWinsWhenStricter(t *testing.T) {
	caps := engine.SpannerCapabilities()
	caps.MaxQueryParams = 6

	exec := &fakeExecutor{}
	coord, _ := newCoordinator(caps, exec, RandomInt64{})
	_, err := coord.BulkCreate(context.Background(), spannerSingers(), keylessRecords(4), CreateOptions{BatchSize: 1})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(exec.calls) != 4 {
		t.Errorf("Expected hint of 1 row per batch to apply, got %d batches", len(exec.calls))
	}

	exec = &fakeExecutor{}
	coord, _ = newCoordinator(caps, exec, RandomInt64{})
	_, err = coord.BulkCreate(context.Background(), spannerSingers(), keylessRecords(4), CreateOptions{BatchSize: 100})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(exec.calls) != 2 {
		t.Errorf("Expected backend ceiling of 2 rows to win over hint of 100, got %d batches", len(exec.calls))
	}
}

func TestBulkCreate_ExplicitKeyBatchesRunFirst(t *testing.T) {
	exec := &fakeExecutor{}
	coord, _ := newCoordinator(engine.SpannerCapabilities(), exec, RandomInt64{})

	keyed := engine.NewRecord(map[string]interface{}{"name": "keyed", "rank": 1})
	keyed.SetPK(int64(99))
	keyless := engine.NewRecord(map[string]interface{}{"name": "keyless", "rank": 2})

	// Keyless first in the input; keyed batch must still run first.
	_, err := coord.BulkCreate(context.Background(), spannerSingers(), []*engine.Record{keyless, keyed}, CreateOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(exec.calls))
	}
	if exec.calls[0].rows[0][1] != "keyed" {
		t.Errorf("Expected explicit-key batch first, got row %v", exec.calls[0].rows[0])
	}
	if exec.calls[1].rows[0][1] != "keyless" {
		t.Errorf("Expected keyless batch second, got row %v", exec.calls[1].rows[0])
	}
}

func TestBulkCreate_WriteBackReturnedValues(t *testing.T) {
	table := pgSingers()
	exec := &fakeExecutor{
		respond: func(call insertCall) []engine.ReturnedRow {
			rows := make([]engine.ReturnedRow, len(call.rows))
			for i := range rows {
				rows[i] = engine.ReturnedRow{int64(100 + i), "2026-01-01T00:00:00Z"}
			}
			return rows
		},
	}
	// No key generator: the backend produces keys via RETURNING.
	coord, _ := newCoordinator(engine.PostgresCapabilities(), exec, nil)

	recs := keylessRecords(2)
	_, err := coord.BulkCreate(context.Background(), table, recs, CreateOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// The auto key column must stay out of the statement when no
	// client value was supplied.
	for _, f := range exec.calls[0].fields {
		if f.Name == "id" {
			t.Error("Expected auto key column excluded from keyless insert")
		}
	}

	for i, r := range recs {
		if r.PK() != int64(100+i) {
			t.Errorf("Record %d: expected pk %d from RETURNING, got %v", i, 100+i, r.PK())
		}
		created, _ := r.Get("created_at")
		if created != "2026-01-01T00:00:00Z" {
			t.Errorf("Record %d: expected created_at write-back, got %v", i, created)
		}
		if r.IsNew() {
			t.Errorf("Record %d: expected IsNew cleared", i)
		}
	}
}

func TestBulkCreate_WriteBackSkipsPKForExplicitKeys(t *testing.T) {
	table := pgSingers()
	exec := &fakeExecutor{
		respond: func(call insertCall) []engine.ReturnedRow {
			rows := make([]engine.ReturnedRow, len(call.rows))
			for i := range rows {
				rows[i] = engine.ReturnedRow{int64(555), "2026-01-01T00:00:00Z"}
			}
			return rows
		},
	}
	coord, _ := newCoordinator(engine.PostgresCapabilities(), exec, nil)

	rec := engine.NewRecord(map[string]interface{}{"name": "keyed", "rank": 1})
	rec.SetPK(int64(42))

	_, err := coord.BulkCreate(context.Background(), table, []*engine.Record{rec}, CreateOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if rec.PK() != int64(42) {
		t.Errorf("Expected explicit key to survive write-back, got %v", rec.PK())
	}
	created, _ := rec.Get("created_at")
	if created != "2026-01-01T00:00:00Z" {
		t.Errorf("Expected non-key returning column written back, got %v", created)
	}
}

func TestBulkCreate_ReturnedRowCountMismatch(t *testing.T) {
	table := pgSingers()
	exec := &fakeExecutor{
		respond: func(call insertCall) []engine.ReturnedRow {
			// One row short of the batch: a backend contract breach.
			rows := make([]engine.ReturnedRow, 0, len(call.rows))
			for i := 0; i < len(call.rows)-1; i++ {
				rows = append(rows, engine.ReturnedRow{int64(i), nil})
			}
			return rows
		},
	}
	coord, runner := newCoordinator(engine.PostgresCapabilities(), exec, nil)

	_, err := coord.BulkCreate(context.Background(), table, keylessRecords(3), CreateOptions{})

	var consistencyErr *engine.ConsistencyError
	if !errors.As(err, &consistencyErr) {
		t.Fatalf("Expected ConsistencyError, got %v", err)
	}
	if consistencyErr.Expected != 3 || consistencyErr.Got != 2 {
		t.Errorf("Expected 3/2 mismatch, got %d/%d", consistencyErr.Expected, consistencyErr.Got)
	}
	if !runner.rolledBack {
		t.Error("Expected the atomic scope to roll back")
	}
}

func TestBulkCreate_NoReturningBackendStillSucceeds(t *testing.T) {
	caps := engine.SpannerCapabilities()
	caps.SupportsIgnoreConflicts = true

	exec := &fakeExecutor{}
	coord, _ := newCoordinator(caps, exec, RandomInt64{})

	recs := keylessRecords(2)
	_, err := coord.BulkCreate(context.Background(), spannerSingers(), recs, CreateOptions{IgnoreConflicts: true})
	if err != nil {
		t.Fatalf("Expected no error without returning support, got: %v", err)
	}

	if len(exec.calls[0].returning) != 0 {
		t.Error("Expected no RETURNING clause when the backend cannot return rows")
	}
	for i, r := range recs {
		if _, ok := r.Get("created_at"); ok {
			t.Errorf("Record %d: expected no attribute write-back", i)
		}
		if r.IsNew() {
			t.Errorf("Record %d: expected IsNew cleared anyway", i)
		}
	}
}

func TestBulkCreate_MidBatchFailureRollsBack(t *testing.T) {
	caps := engine.SpannerCapabilities()
	caps.MaxQueryParams = 6 // batch size 2

	exec := &fakeExecutor{failAt: 2}
	coord, runner := newCoordinator(caps, exec, RandomInt64{})

	_, err := coord.BulkCreate(context.Background(), spannerSingers(), keylessRecords(4), CreateOptions{})
	if err == nil {
		t.Fatal("Expected the injected failure to propagate")
	}
	if !runner.rolledBack {
		t.Error("Expected the atomic scope to roll back")
	}
	if len(exec.calls) != 2 {
		t.Errorf("Expected execution to stop at the failing batch, got %d calls", len(exec.calls))
	}
}

func TestBulkCreate_ConflictPolicyReachesExecutor(t *testing.T) {
	table := pgSingers()
	table.Fields[1].Unique = true // name

	exec := &fakeExecutor{}
	coord, _ := newCoordinator(engine.PostgresCapabilities(), exec, nil)

	opts := CreateOptions{
		UpdateConflicts: true,
		UpdateFields:    []string{"rank"},
		UniqueFields:    []string{"name"},
	}
	_, err := coord.BulkCreate(context.Background(), table, keylessRecords(1), opts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	policy := exec.calls[0].policy
	if policy.Mode != engine.ConflictUpdate {
		t.Fatalf("Expected ConflictUpdate at the executor, got %v", policy.Mode)
	}
	if len(policy.UpdateFields) != 1 || policy.UpdateFields[0].Name != "rank" {
		t.Errorf("Expected resolved update field 'rank', got %v", policy.UpdateFields)
	}
}

func TestBulkCreate_ResolverRunsBeforeTransaction(t *testing.T) {
	exec := &fakeExecutor{}
	coord, runner := newCoordinator(engine.SpannerCapabilities(), exec, RandomInt64{})

	_, err := coord.BulkCreate(context.Background(), spannerSingers(), keylessRecords(1), CreateOptions{IgnoreConflicts: true})

	var unsupportedErr *engine.UnsupportedError
	if !errors.As(err, &unsupportedErr) {
		t.Fatalf("Expected UnsupportedError, got %v", err)
	}
	if runner.scopes != 0 {
		t.Error("Expected validation to fail before any transaction begins")
	}
}
