package engine

// Record is an in-memory row destined for a table. The caller owns the
// record; the bulk write path borrows it for the duration of one call
// and mutates it in place (assigned key, returned columns, persisted
// state).
type Record struct {
	values map[string]interface{}

	pk          interface{}
	keyAssigned bool // pk came from the key generator, not the caller

	adding bool   // true until the record has been written
	db     string // connection alias once persisted

	// pending maps FK field name → related record whose primary key
	// must flow into the field before the row can be written.
	pending map[string]*Record
}

// NewRecord creates a new, unsaved record with the given field values
func NewRecord(values map[string]interface{}) *Record {
	if values == nil {
		values = make(map[string]interface{})
	}
	return &Record{
		values: values,
		adding: true,
	}
}

// Get returns the value of a field
func (r *Record) Get(field string) (interface{}, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Set sets the value of a field
func (r *Record) Set(field string, value interface{}) {
	r.values[field] = value
}

// PK returns the primary key value, or nil when unset
func (r *Record) PK() interface{} {
	return r.pk
}

// SetPK sets a caller-chosen primary key
func (r *Record) SetPK(v interface{}) {
	r.pk = v
	r.keyAssigned = false
}

// AssignPK sets a generated primary key. Records keyed this way stay
// in the "lacks explicit key" group during batch planning, because
// their returned-column mapping includes the key column.
func (r *Record) AssignPK(v interface{}) {
	r.pk = v
	r.keyAssigned = true
}

// HasExplicitPK reports whether the caller supplied the key itself
func (r *Record) HasExplicitPK() bool {
	return r.pk != nil && !r.keyAssigned
}

// IsNew reports whether the record has not been written yet
func (r *Record) IsNew() bool {
	return r.adding
}

// DB returns the connection alias the record was persisted through
func (r *Record) DB() string {
	return r.db
}

// MarkPersisted clears the is-new flag and binds the record to the
// connection it was written through
func (r *Record) MarkPersisted(db string) {
	r.adding = false
	r.db = db
}

// Reference registers a pending related record: before this record is
// written, related's primary key is copied into the named FK field.
func (r *Record) Reference(field string, related *Record) {
	if r.pending == nil {
		r.pending = make(map[string]*Record)
	}
	r.pending[field] = related
}

// ResolveReferences copies primary keys of pending related records
// into their FK fields. Fails if any related record has no key yet.
func (r *Record) ResolveReferences() error {
	for field, related := range r.pending {
		if related.PK() == nil {
			return &InvalidArgumentError{
				Reason: "related record for field '" + field + "' has no primary key; save it first",
			}
		}
		r.values[field] = related.PK()
	}
	r.pending = nil
	return nil
}

// Value returns the insert value for a field. The primary key is kept
// out of the values map, so it is special-cased here.
func (r *Record) Value(f *Field) interface{} {
	if f.PrimaryKey {
		return r.pk
	}
	return r.values[f.Name]
}
