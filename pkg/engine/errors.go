package engine

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ============================================================
// CALLER ERRORS
// ============================================================

// InvalidArgumentError means the caller-supplied combination is
// self-contradictory or structurally unsupported. Raised before any
// database work begins.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

// UnsupportedError means the target backend lacks a capability the
// caller requested. Raised before any database work begins.
type UnsupportedError struct {
	Capability string
}

func (e *UnsupportedError) Error() string {
	return "this database backend does not support " + e.Capability
}

// UnknownEntityError represents a reference to an entity missing from
// the schema
type UnknownEntityError struct {
	Entity string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity '%s'", e.Entity)
}

// UnknownFieldError represents a reference to a field missing from an
// entity
type UnknownFieldError struct {
	Entity    string
	Field     string
	Available []string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field '%s' in entity '%s'", e.Field, e.Entity)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf("\nAvailable fields: %v", e.Available)
	}
	return msg
}

// ============================================================
// INTERNAL ERRORS
// ============================================================

// ConsistencyError means the backend claimed row-returning support
// but handed back a mismatched row count. Fatal: the whole call is
// aborted and never retried.
type ConsistencyError struct {
	Table    string
	Expected int
	Got      int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"backend contract breach on table '%s': expected %d returned rows, got %d",
		e.Table, e.Expected, e.Got,
	)
}

// ============================================================
// DATABASE CONSTRAINT ERRORS
// ============================================================

// UniqueConstraintError represents a unique constraint violation
type UniqueConstraintError struct {
	Field      string
	Value      interface{}
	Table      string
	Suggestion string
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf(
		"unique constraint violation on field '%s' in table '%s'\n"+
			"Value: %v already exists\n"+
			"Suggestion: %s",
		e.Field, e.Table, e.Value, e.Suggestion,
	)
}

// ForeignKeyError represents a foreign key constraint violation
type ForeignKeyError struct {
	Field           string
	Value           interface{}
	ReferencedTable string
	ReferencedField string
	Suggestion      string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf(
		"foreign key constraint violation on field '%s'\n"+
			"Value: %v does not exist in %s.%s\n"+
			"Suggestion: %s",
		e.Field, e.Value, e.ReferencedTable, e.ReferencedField, e.Suggestion,
	)
}

// NotNullError represents a NOT NULL constraint violation
type NotNullError struct {
	Field      string
	Suggestion string
}

func (e *NotNullError) Error() string {
	return fmt.Sprintf(
		"NOT NULL constraint violation on field '%s'\n"+
			"Suggestion: %s",
		e.Field, e.Suggestion,
	)
}

// ============================================================
// CLI FORMATTING
// ============================================================

// FormatError renders an error for terminal output, with a colored
// header and an indented help line when the error carries one.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder

	errorColor := color.New(color.FgRed, color.Bold)
	errorColor.Fprintf(&b, "Error: ")

	msg := err.Error()
	lines := strings.SplitN(msg, "\n", 2)
	fmt.Fprintf(&b, "%s\n", lines[0])

	if len(lines) > 1 {
		helpColor := color.New(color.FgYellow, color.Bold)
		helpColor.Fprintf(&b, "  Help: ")
		fmt.Fprintf(&b, "%s\n", strings.ReplaceAll(lines[1], "\n", "\n  "))
	}

	return b.String()
}
