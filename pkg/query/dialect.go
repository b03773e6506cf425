package query

import (
	"fmt"
	"strconv"
)

// Dialect renders placeholders and JSON document expressions for a SQL engine.
// Column arguments are trusted identifiers; key arguments must already be
// validated by a DocumentMap.
type Dialect interface {
	// Name returns the database driver name the dialect targets.
	Name() string
	// Placeholder returns the bind parameter for the nth (1-based) argument.
	Placeholder(n int) string
	// Text renders the text form of a document key.
	Text(column, key string) string
	// Number renders the numeric value of a document key.
	Number(column, key string) string
	// IsText renders a predicate that holds when a document key is a JSON string.
	IsText(column, key string) string
	// IsNumber renders a predicate that holds when a document key is a JSON number.
	IsNumber(column, key string) string
	// NumberEquals renders a numeric equality predicate against a bind parameter.
	NumberEquals(column, key, param string) string
	// Document renders a bind parameter holding serialized JSON as a document value.
	Document(param string) string
	// Merge renders column with the keys of a JSON bind parameter overlaid.
	Merge(column, param string) string
	// SetText renders column with key set to the text bind parameter.
	SetText(column, key, param string) string
	// Distinct renders a null-safe inequality predicate.
	Distinct(expr, param string) string
	// IDText renders the text form of an identifier column.
	IDText(column string) string
}

// Postgres renders JSONB expressions with numbered placeholders.
var Postgres Dialect = postgres{}

// SQLite renders JSON1 expressions with positional placeholders.
var SQLite Dialect = sqlite{}

// DialectFor returns the dialect registered for a database driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	}
	return nil, fmt.Errorf("unsupported driver: %q", driver)
}

type postgres struct{}

func (postgres) Name() string { return "postgres" }

func (postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (postgres) Text(column, key string) string {
	return fmt.Sprintf("%s->>'%s'", column, key)
}

func (postgres) Number(column, key string) string {
	return fmt.Sprintf("(%s->>'%s')::float8", column, key)
}

func (postgres) IsText(column, key string) string {
	return fmt.Sprintf("jsonb_typeof(%s->'%s') = 'string'", column, key)
}

func (postgres) IsNumber(column, key string) string {
	return fmt.Sprintf("jsonb_typeof(%s->'%s') = 'number'", column, key)
}

func (postgres) NumberEquals(column, key, param string) string {
	return fmt.Sprintf("%s->'%s' = to_jsonb(%s::numeric)", column, key, param)
}

func (postgres) Document(param string) string {
	return param + "::jsonb"
}

func (postgres) Merge(column, param string) string {
	return fmt.Sprintf("%s || %s::jsonb", column, param)
}

func (postgres) SetText(column, key, param string) string {
	return fmt.Sprintf("jsonb_set(%s, '{%s}', to_jsonb(%s::text))", column, key, param)
}

func (postgres) Distinct(expr, param string) string {
	return fmt.Sprintf("%s IS DISTINCT FROM %s", expr, param)
}

func (postgres) IDText(column string) string {
	return column + "::text"
}

type sqlite struct{}

func (sqlite) Name() string { return "sqlite" }

func (sqlite) Placeholder(int) string {
	return "?"
}

func (sqlite) Text(column, key string) string {
	return fmt.Sprintf("CAST(json_extract(%s, '$.%s') AS TEXT)", column, key)
}

func (sqlite) Number(column, key string) string {
	return fmt.Sprintf("json_extract(%s, '$.%s')", column, key)
}

func (sqlite) IsText(column, key string) string {
	return fmt.Sprintf("json_type(%s, '$.%s') = 'text'", column, key)
}

func (sqlite) IsNumber(column, key string) string {
	return fmt.Sprintf("json_type(%s, '$.%s') IN ('integer', 'real')", column, key)
}

func (s sqlite) NumberEquals(column, key, param string) string {
	return fmt.Sprintf("(%s AND %s = %s)", s.IsNumber(column, key), s.Number(column, key), param)
}

func (sqlite) Document(param string) string {
	return fmt.Sprintf("json(%s)", param)
}

func (sqlite) Merge(column, param string) string {
	return fmt.Sprintf("json_patch(%s, %s)", column, param)
}

func (sqlite) SetText(column, key, param string) string {
	return fmt.Sprintf("json_set(%s, '$.%s', %s)", column, key, param)
}

func (sqlite) Distinct(expr, param string) string {
	return fmt.Sprintf("%s IS NOT %s", expr, param)
}

func (sqlite) IDText(column string) string {
	return column
}
