package engine

import (
	"testing"
)

func TestNewRecord_IsNew(t *testing.T) {
	rec := NewRecord(map[string]interface{}{"name": "a"})

	if !rec.IsNew() {
		t.Error("Expected new record to be marked as new")
	}
	if rec.PK() != nil {
		t.Errorf("Expected no primary key, got %v", rec.PK())
	}
	if rec.DB() != "" {
		t.Errorf("Expected no connection binding, got %q", rec.DB())
	}
}

func TestRecord_ExplicitVersusAssignedKey(t *testing.T) {
	explicit := NewRecord(nil)
	explicit.SetPK(int64(1))
	if !explicit.HasExplicitPK() {
		t.Error("Expected SetPK to mark the key as explicit")
	}

	assigned := NewRecord(nil)
	assigned.AssignPK(int64(2))
	if assigned.HasExplicitPK() {
		t.Error("Expected AssignPK to not count as explicit")
	}
	if assigned.PK() != int64(2) {
		t.Errorf("Expected pk 2, got %v", assigned.PK())
	}
}

func TestRecord_MarkPersisted(t *testing.T) {
	rec := NewRecord(nil)

	rec.MarkPersisted("db-1")

	if rec.IsNew() {
		t.Error("Expected IsNew cleared after persistence")
	}
	if rec.DB() != "db-1" {
		t.Errorf("Expected binding to db-1, got %q", rec.DB())
	}
}

func TestRecord_ResolveReferences(t *testing.T) {
	parent := NewRecord(nil)
	parent.SetPK(int64(9))

	child := NewRecord(map[string]interface{}{"title": "x"})
	child.Reference("singer_id", parent)

	if err := child.ResolveReferences(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if v, _ := child.Get("singer_id"); v != int64(9) {
		t.Errorf("Expected singer_id=9, got %v", v)
	}

	// Resolution consumes the pending set; a second call is a no-op.
	if err := child.ResolveReferences(); err != nil {
		t.Errorf("Expected second resolution to be a no-op, got: %v", err)
	}
}

func TestRecord_ResolveReferences_MissingKey(t *testing.T) {
	parent := NewRecord(nil)

	child := NewRecord(nil)
	child.Reference("singer_id", parent)

	if err := child.ResolveReferences(); err == nil {
		t.Fatal("Expected error for unresolvable reference")
	}
}

func TestRecord_Value(t *testing.T) {
	rec := NewRecord(map[string]interface{}{"name": "a"})
	rec.SetPK(int64(5))

	pkField := &Field{Name: "id", Column: "id", PrimaryKey: true}
	nameField := &Field{Name: "name", Column: "name"}

	if rec.Value(pkField) != int64(5) {
		t.Errorf("Expected pk value 5, got %v", rec.Value(pkField))
	}
	if rec.Value(nameField) != "a" {
		t.Errorf("Expected 'a', got %v", rec.Value(nameField))
	}
}
