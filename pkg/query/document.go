// Package query provides SQL query building for JSON document collections
// with per-dialect rendering and an explicit allow-list of document keys.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// ErrUnknownField indicates a field name that the DocumentMap does not declare.
var ErrUnknownField = errors.New("unknown field")

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DocumentMap describes a collection stored as one JSON document column per row.
// The identifier field resolves to the id column; every other field must be a
// declared document key.
type DocumentMap struct {
	table    string
	alias    string
	idField  string
	idColumn string
	seq      string
	doc      string
	keys     []string
}

// NewDocumentMap creates a DocumentMap for table (aliased as alias) whose rows carry
// an identifier column, an insertion sequence column, and a document column.
func NewDocumentMap(table, alias, idColumn, seqColumn, docColumn string) *DocumentMap {
	return &DocumentMap{
		table:    table,
		alias:    alias,
		idField:  idColumn,
		idColumn: idColumn,
		seq:      seqColumn,
		doc:      docColumn,
		keys:     make([]string, 0),
	}
}

// Key declares a document key as a queryable field.
// Panics if the key is not a plain identifier, since keys are rendered into SQL.
func (m *DocumentMap) Key(name string) *DocumentMap {
	if !keyPattern.MatchString(name) {
		panic(fmt.Sprintf("query: invalid document key %q", name))
	}
	if name == m.idField {
		panic(fmt.Sprintf("query: document key %q shadows the identifier", name))
	}
	m.keys = append(m.keys, name)
	return m
}

// Keys returns the declared document keys in declaration order.
func (m *DocumentMap) Keys() []string {
	return slices.Clone(m.keys)
}

// IDField returns the field name that resolves to the identifier column.
func (m *DocumentMap) IDField() string {
	return m.idField
}

// Has reports whether field resolves to the identifier or a declared key.
func (m *DocumentMap) Has(field string) bool {
	return field == m.idField || slices.Contains(m.keys, field)
}

// Table returns the table reference with its alias (table alias).
func (m *DocumentMap) Table() string {
	return fmt.Sprintf("%s %s", m.table, m.alias)
}

// Columns returns the qualified identifier and document columns in scan order.
func (m *DocumentMap) Columns() string {
	return fmt.Sprintf("%s, %s", m.qualified(m.idColumn), m.qualified(m.doc))
}

// Text returns the text expression of a field for d.
func (m *DocumentMap) Text(d Dialect, field string) (string, error) {
	if field == m.idField {
		return d.IDText(m.qualified(m.idColumn)), nil
	}
	if err := m.key(field); err != nil {
		return "", err
	}
	return d.Text(m.qualified(m.doc), field), nil
}

// InsertSQL returns an INSERT of (id, document) for d.
func (m *DocumentMap) InsertSQL(d Dialect) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES (%s, %s)",
		m.table, m.idColumn, m.doc,
		d.Placeholder(1), d.Document(d.Placeholder(2)),
	)
}

// MergeSQL returns an UPDATE that overlays a JSON document onto the row with the given id.
// Arguments: document, id.
func (m *DocumentMap) MergeSQL(d Dialect) string {
	return fmt.Sprintf(
		"UPDATE %s SET %s = %s WHERE %s = %s",
		m.table, m.doc, d.Merge(m.doc, d.Placeholder(1)),
		m.idColumn, d.Placeholder(2),
	)
}

// SetTextSQL returns an UPDATE that sets key to a text value on the row with the given id,
// affecting the row only when the stored value differs.
// Arguments: value, id, value.
func (m *DocumentMap) SetTextSQL(d Dialect, key string) (string, error) {
	if err := m.key(key); err != nil {
		return "", err
	}
	sql := fmt.Sprintf(
		"UPDATE %s SET %s = %s WHERE %s = %s AND %s",
		m.table, m.doc, d.SetText(m.doc, key, d.Placeholder(1)),
		m.idColumn, d.Placeholder(2),
		d.Distinct(d.Text(m.doc, key), d.Placeholder(3)),
	)
	return sql, nil
}

func (m *DocumentMap) key(field string) error {
	if !slices.Contains(m.keys, field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (m *DocumentMap) qualified(column string) string {
	return fmt.Sprintf("%s.%s", m.alias, column)
}
