// Package schema hides the two response shapes the content store can use
// for the same logical entity. Depending on the store version, fields live
// either directly on the record ("flat") or under a nested attributes
// object ("relational"), with references wrapped in {data: ...} envelopes.
// Every consumer goes through this package instead of reaching into raw
// payloads, so a shape change in the store stays contained here.
package schema

import (
	"strconv"
	"strings"
)

// Record is an opaque record as delivered by the content store, in either
// supported shape. The id is always present at the top level.
type Record map[string]any

// ID returns the record's stable identifier as a string, or "" when the
// record carries none. The store sends numeric IDs; document IDs from newer
// store versions arrive as strings.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// FieldSet is the closed set of field names a collection declares up front.
// Lookups outside the set resolve to absent, which keeps open-ended dynamic
// key access out of the render path.
type FieldSet map[string]struct{}

// NewFieldSet declares the known field names for one collection.
func NewFieldSet(names ...string) FieldSet {
	fs := make(FieldSet, len(names))
	for _, n := range names {
		fs[n] = struct{}{}
	}
	return fs
}

// Contains reports whether name is a declared field.
func (fs FieldSet) Contains(name string) bool {
	_, ok := fs[name]
	return ok
}

// Field returns the value for a declared field name, checking the flat
// shape first and the nested attributes object second. The boolean is false
// when the field is absent in both shapes or not declared in the set.
// A record without an attributes object behaves exactly like one where the
// field is simply missing; this never panics on malformed payloads.
func (r Record) Field(fields FieldSet, name string) (any, bool) {
	if !fields.Contains(name) {
		return nil, false
	}
	if v, ok := r[name]; ok {
		return v, true
	}
	attrs, ok := r["attributes"].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := attrs[name]
	return v, ok
}

// StringField returns a declared field coerced to a string. Absent fields,
// nulls and non-string values all yield "".
func (r Record) StringField(fields FieldSet, name string) string {
	v, ok := r.Field(fields, name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// TrimmedField is StringField with surrounding whitespace removed.
func (r Record) TrimmedField(fields FieldSet, name string) string {
	return strings.TrimSpace(r.StringField(fields, name))
}
