package integration

import (
	"context"
	"os"
	"testing"

	"github.com/meridian-db/meridiandb/pkg/engine"
	_ "github.com/meridian-db/meridiandb/pkg/engine/bulk"
	"github.com/stretchr/testify/require"
)

// testSchemaJSON declares three entities:
//   - Singer: client-generated keys (no server auto-increment)
//   - Album:  client-generated keys, references Singer
//   - Track:  server-generated keys handed back through RETURNING
const testSchemaJSON = `{
  "tables": [
    {
      "name": "Singer",
      "table_name": "singers",
      "fields": [
        {"name": "id", "column": "id", "field_type": "Int64", "primary_key": true, "auto": true},
        {"name": "name", "column": "name", "field_type": "String", "unique": true},
        {"name": "rank", "column": "rank", "field_type": "Int64", "nullable": true}
      ]
    },
    {
      "name": "Album",
      "table_name": "albums",
      "fields": [
        {"name": "id", "column": "id", "field_type": "Int64", "primary_key": true, "auto": true},
        {"name": "title", "column": "title", "field_type": "String"},
        {"name": "singer_id", "column": "singer_id", "field_type": "Int64"}
      ]
    },
    {
      "name": "Track",
      "table_name": "tracks",
      "fields": [
        {"name": "id", "column": "id", "field_type": "Int64", "primary_key": true, "auto": true, "returning": true},
        {"name": "title", "column": "title", "field_type": "String"}
      ]
    }
  ]
}`

// skipIfNoDatabase skips the test unless a test database is reachable
// through MERIDIAN_TEST_DATABASE_URL.
func skipIfNoDatabase(t *testing.T) string {
	t.Helper()

	url := os.Getenv("MERIDIAN_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("MERIDIAN_TEST_DATABASE_URL not set; skipping integration test")
	}
	return url
}

// setupTestDB connects an engine with the given capability profile and
// recreates the test tables.
func setupTestDB(t *testing.T, caps engine.Capabilities) (*engine.Engine, context.Context, func()) {
	t.Helper()

	url := skipIfNoDatabase(t)
	ctx := context.Background()

	cfg, err := engine.ParseConnectionString(url)
	require.NoError(t, err)

	eng := engine.NewEngine().WithCapabilities(caps)
	_, err = eng.LoadSchemaFromString(testSchemaJSON)
	require.NoError(t, err)

	require.NoError(t, eng.Connect(ctx, cfg))

	runMigration(t, eng, ctx)

	cleanup := func() {
		dropTables(eng, ctx)
		eng.Close()
	}
	return eng, ctx, cleanup
}

func runMigration(t *testing.T, eng *engine.Engine, ctx context.Context) {
	t.Helper()

	dropTables(eng, ctx)

	pool := eng.Connector().Pool()
	statements := []string{
		`CREATE TABLE singers (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			rank BIGINT
		)`,
		`CREATE TABLE albums (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			singer_id BIGINT NOT NULL REFERENCES singers(id)
		)`,
		`CREATE TABLE tracks (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}
}

func dropTables(eng *engine.Engine, ctx context.Context) {
	pool := eng.Connector().Pool()
	for _, table := range []string{"albums", "tracks", "singers"} {
		pool.Exec(ctx, "DROP TABLE IF EXISTS "+table)
	}
}

func countRows(t *testing.T, eng *engine.Engine, ctx context.Context, table string) int {
	t.Helper()

	var n int
	err := eng.Connector().Pool().QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}
