package bulk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meridian-db/meridiandb/pkg/engine"
)

// mapDatabaseError converts driver errors to engine error types.
// Returns a wrapped error if it's not a recognized driver error.
func mapDatabaseError(err error, entity string) error {
	if err == nil {
		return nil
	}

	// Validation and internal consistency failures pass through
	// untouched.
	var invalidArg *engine.InvalidArgumentError
	var unsupported *engine.UnsupportedError
	var unknownField *engine.UnknownFieldError
	var consistency *engine.ConsistencyError
	if errors.As(err, &invalidArg) || errors.As(err, &unsupported) ||
		errors.As(err, &unknownField) || errors.As(err, &consistency) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("bulk insert failed: %w", err)
	}

	// Map based on error code
	// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
	switch pgErr.Code {
	case "23505": // unique_violation
		field := extractFieldFromDetail(pgErr.Detail)
		return &engine.UniqueConstraintError{
			Field:      field,
			Value:      extractValueFromDetail(pgErr.Detail),
			Table:      entity,
			Suggestion: fmt.Sprintf("Use a different value for %s, or update the existing row", field),
		}

	case "23503": // foreign_key_violation
		field := extractFieldFromDetail(pgErr.Detail)
		referenced := extractReferencedTable(pgErr.ConstraintName)
		return &engine.ForeignKeyError{
			Field:           field,
			Value:           extractValueFromDetail(pgErr.Detail),
			ReferencedTable: referenced,
			ReferencedField: "id",
			Suggestion:      fmt.Sprintf("Ensure the referenced %s exists before creating this %s", referenced, entity),
		}

	case "23502": // not_null_violation
		field := pgErr.ColumnName
		if field == "" {
			field = extractFieldFromMessage(pgErr.Message)
		}
		return &engine.NotNullError{
			Field:      field,
			Suggestion: fmt.Sprintf("Provide a value for %s (this field is required)", field),
		}

	default:
		return fmt.Errorf("bulk insert failed: %s (code: %s)", pgErr.Message, pgErr.Code)
	}
}

// ============================================================
// HELPER FUNCTIONS - Extract info from driver errors
// ============================================================

// extractFieldFromDetail extracts the field name from error detail
// Input: "Key (email)=(test@mail.com) already exists."
// Output: "email"
func extractFieldFromDetail(detail string) string {
	if detail == "" {
		return ""
	}

	start := strings.Index(detail, "(")
	end := strings.Index(detail, ")")
	if start >= 0 && end > start {
		return detail[start+1 : end]
	}

	return ""
}

// extractValueFromDetail extracts the offending value from error detail
// Input: "Key (email)=(test@mail.com) already exists."
// Output: "test@mail.com"
func extractValueFromDetail(detail string) interface{} {
	marker := ")=("
	start := strings.Index(detail, marker)
	if start < 0 {
		return nil
	}
	rest := detail[start+len(marker):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return nil
	}
	return rest[:end]
}

// extractReferencedTable tries to extract the referenced table from a
// constraint name
// Input: "fk_albums_singer_id_singers"
// Output: "singers"
func extractReferencedTable(constraintName string) string {
	if constraintName == "" {
		return "referenced_table"
	}

	// Common pattern: fk_{table}_{field}_{referenced_table}
	parts := strings.Split(constraintName, "_")
	if len(parts) >= 4 && parts[0] == "fk" {
		return parts[len(parts)-1]
	}

	return "referenced_table"
}

// extractFieldFromMessage extracts a quoted field name from an error
// message
// Input: 'null value in column "name" violates not-null constraint'
// Output: "name"
func extractFieldFromMessage(message string) string {
	if message == "" {
		return ""
	}

	start := strings.Index(message, `"`)
	if start >= 0 {
		end := strings.Index(message[start+1:], `"`)
		if end >= 0 {
			return message[start+1 : start+1+end]
		}
	}

	return ""
}
