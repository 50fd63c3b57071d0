package csql

import (
	"errors"
	"strconv"
	"strings"
)

// Field is a single column assignment for a partial update.
type Field struct {
	Column string
	Value  interface{}
}

// UpdateBuilder assembles a parameterized UPDATE statement from the
// fields that were actually supplied by the caller. Fields keep their
// insertion order, so the generated statement text is reproducible.
//
// The builder performs no validation of column names; callers pass
// columns from their static allow-lists only.
type UpdateBuilder struct {
	schema string
	table  string
	fields []Field
}

// NewUpdate returns an update builder for the given table.
func NewUpdate(schema, table string) *UpdateBuilder {
	return &UpdateBuilder{schema: schema, table: table}
}

// Set adds a column assignment. Columns are emitted in the order they
// were added.
func (u *UpdateBuilder) Set(column string, value interface{}) *UpdateBuilder {
	u.fields = append(u.fields, Field{Column: column, Value: value})
	return u
}

// Len returns the number of column assignments added so far.
func (u *UpdateBuilder) Len() int {
	return len(u.fields)
}

// Build produces the UPDATE statement and its bound values. The values
// follow the field insertion order, with the identifying value bound
// last, i.e. the statement contains len(fields)+1 placeholders.
func (u *UpdateBuilder) Build(keyColumn string, keyValue interface{}) (string, []interface{}, error) {
	if len(u.fields) == 0 {
		return "", nil, errors.New("no fields to update")
	}
	var query strings.Builder
	query.WriteString("UPDATE " + u.schema + ".\"" + u.table + "\" SET ")
	values := make([]interface{}, 0, len(u.fields)+1)
	for i, field := range u.fields {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(field.Column + " = $" + strconv.Itoa(i+1))
		values = append(values, field.Value)
	}
	query.WriteString(" WHERE " + keyColumn + " = $" + strconv.Itoa(len(u.fields)+1))
	query.WriteString(" RETURNING *;")
	values = append(values, keyValue)
	return query.String(), values, nil
}
