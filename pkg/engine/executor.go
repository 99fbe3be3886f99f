package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// txExecutor implements RowExecutor on top of an open pgx transaction.
// All statements of one bulk call go through the same transaction.
type txExecutor struct {
	tx pgx.Tx
}

// Insert issues one multi-row INSERT and scans the RETURNING rows
func (ex *txExecutor) Insert(ctx context.Context, table *Table, fields []*Field, rows [][]interface{}, policy ConflictPolicy, returning []*Field) ([]ReturnedRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	sql, err := buildInsertSQL(table, fields, len(rows), policy, returning)
	if err != nil {
		return nil, err
	}

	flat := make([]interface{}, 0, len(rows)*len(fields))
	for _, row := range rows {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("row has %d values, statement has %d columns", len(row), len(fields))
		}
		flat = append(flat, row...)
	}

	if len(returning) == 0 {
		if _, err := ex.tx.Exec(ctx, sql, flat...); err != nil {
			return nil, err
		}
		return nil, nil
	}

	pgxRows, err := ex.tx.Query(ctx, sql, flat...)
	if err != nil {
		return nil, err
	}
	defer pgxRows.Close()

	return scanReturnedRows(pgxRows)
}

// buildInsertSQL renders the multi-row INSERT with positional
// placeholders, the conflict clause, and the RETURNING clause.
//
// Example:
//
//	INSERT INTO singers (id, name) VALUES ($1, $2), ($3, $4)
//	ON CONFLICT (name) DO UPDATE SET rank = excluded.rank
//	RETURNING id, created_at
func buildInsertSQL(table *Table, fields []*Field, rowCount int, policy ConflictPolicy, returning []*Field) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("insert on %s has no columns", table.TableName)
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Column
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ",
		table.TableName, strings.Join(columns, ", "))

	param := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		placeholders := make([]string, len(fields))
		for i := range fields {
			placeholders[i] = fmt.Sprintf("$%d", param)
			param++
		}
		fmt.Fprintf(&b, "(%s)", strings.Join(placeholders, ", "))
	}

	switch policy.Mode {
	case ConflictIgnore:
		b.WriteString(" ON CONFLICT DO NOTHING")
	case ConflictUpdate:
		if len(policy.UniqueFields) > 0 {
			targets := make([]string, len(policy.UniqueFields))
			for i, f := range policy.UniqueFields {
				targets[i] = f.Column
			}
			fmt.Fprintf(&b, " ON CONFLICT (%s)", strings.Join(targets, ", "))
		} else {
			b.WriteString(" ON CONFLICT")
		}
		sets := make([]string, len(policy.UpdateFields))
		for i, f := range policy.UpdateFields {
			sets[i] = fmt.Sprintf("%s = excluded.%s", f.Column, f.Column)
		}
		fmt.Fprintf(&b, " DO UPDATE SET %s", strings.Join(sets, ", "))
	}

	if len(returning) > 0 {
		cols := make([]string, len(returning))
		for i, f := range returning {
			cols[i] = f.Column
		}
		fmt.Fprintf(&b, " RETURNING %s", strings.Join(cols, ", "))
	}

	return b.String(), nil
}

// scanReturnedRows converts pgx rows into ordered value slices
func scanReturnedRows(rows pgx.Rows) ([]ReturnedRow, error) {
	var result []ReturnedRow

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan returned row: %w", err)
		}
		result = append(result, ReturnedRow(values))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
