package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const paramMarker = "{?}"

type condition struct {
	clause string
	args   []any
}

// Builder constructs SQL over a DocumentMap using a fluent API with automatic
// parameter numbering. Field resolution errors are deferred to the Build call.
type Builder struct {
	doc        *DocumentMap
	dialect    Dialect
	conditions []condition
	err        error
}

// NewBuilder creates a Builder for the given document map and dialect.
func NewBuilder(doc *DocumentMap, dialect Dialect) *Builder {
	return &Builder{
		doc:        doc,
		dialect:    dialect,
		conditions: make([]condition, 0),
	}
}

// WhereEquals adds an equality condition between a field and a path value.
// The identifier column compares by its text form. Document keys match when
// they hold the value as a JSON string, or when value parses as a finite number
// and the key holds a JSON number equal to it.
func (b *Builder) WhereEquals(field, value string) *Builder {
	expr, err := b.doc.Text(b.dialect, field)
	if err != nil {
		return b.fail(err)
	}
	if field == b.doc.idField {
		b.conditions = append(b.conditions, condition{
			clause: fmt.Sprintf("%s = %s", expr, paramMarker),
			args:   []any{value},
		})
		return b
	}

	column := b.doc.qualified(b.doc.doc)
	clause := fmt.Sprintf("(%s AND %s = %s)", b.dialect.IsText(column, field), expr, paramMarker)
	args := []any{value}

	if n, ok := parseNumber(value); ok {
		clause = fmt.Sprintf("(%s OR %s)", clause, b.dialect.NumberEquals(column, field, paramMarker))
		args = append(args, n)
	}

	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

// WhereNumber adds a numeric equality condition on a document key.
func (b *Builder) WhereNumber(field string, value float64) *Builder {
	if err := b.doc.key(field); err != nil {
		return b.fail(err)
	}
	b.conditions = append(b.conditions, condition{
		clause: b.dialect.NumberEquals(b.doc.qualified(b.doc.doc), field, paramMarker),
		args:   []any{value},
	})
	return b
}

// WhereNumeric restricts rows to those whose document key holds a JSON number.
func (b *Builder) WhereNumeric(field string) *Builder {
	if err := b.doc.key(field); err != nil {
		return b.fail(err)
	}
	b.conditions = append(b.conditions, condition{
		clause: b.dialect.IsNumber(b.doc.qualified(b.doc.doc), field),
	})
	return b
}

// Build returns a SELECT of every matching row in insertion order.
func (b *Builder) Build() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY %s",
		b.doc.Columns(),
		b.doc.Table(),
		where,
		b.doc.qualified(b.doc.seq),
	)
	return sql, args, nil
}

// BuildFirst returns a SELECT of the first matching row in insertion order.
func (b *Builder) BuildFirst() (string, []any, error) {
	sql, args, err := b.Build()
	if err != nil {
		return "", nil, err
	}
	return sql + " LIMIT 1", args, nil
}

// BuildDeleteFirst returns a DELETE of the first matching row in insertion order.
func (b *Builder) BuildDeleteFirst() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"DELETE FROM %s WHERE %s IN (SELECT %s FROM %s%s ORDER BY %s LIMIT 1)",
		b.doc.table,
		b.doc.idColumn,
		b.doc.qualified(b.doc.idColumn),
		b.doc.Table(),
		where,
		b.doc.qualified(b.doc.seq),
	)
	return sql, args, nil
}

// BuildAverage returns a SELECT of the mean numeric value of a document key across
// matching rows. Rows whose key is not a JSON number are excluded; the result is
// NULL when no row qualifies.
func (b *Builder) BuildAverage(field string) (string, []any, error) {
	b.WhereNumeric(field)
	if b.err != nil {
		return "", nil, b.err
	}
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT AVG(%s) FROM %s%s",
		b.dialect.Number(b.doc.qualified(b.doc.doc), field),
		b.doc.Table(),
		where,
	)
	return sql, args, nil
}

// BuildSingle returns a SELECT for a single row by identifier.
func (b *Builder) BuildSingle(id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = %s",
		b.doc.Columns(),
		b.doc.Table(),
		b.doc.qualified(b.doc.idColumn),
		b.dialect.Placeholder(1),
	)
	return sql, []any{id}
}

func parseNumber(value string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.conditions))
	args := make([]any, 0)
	paramIdx := 1

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, paramMarker, b.dialect.Placeholder(paramIdx), 1)
			args = append(args, arg)
			paramIdx++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
