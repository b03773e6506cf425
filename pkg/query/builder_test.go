package query_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/JaimeStill/roster/pkg/query"
)

func testMap() *query.DocumentMap {
	return query.
		NewDocumentMap("records", "r", "id", "seq", "doc").
		Key("name").
		Key("age").
		Key("email")
}

func TestBuildAll(t *testing.T) {
	tests := []struct {
		name    string
		dialect query.Dialect
		want    string
	}{
		{
			name:    "postgres",
			dialect: query.Postgres,
			want:    "SELECT r.id, r.doc FROM records r ORDER BY r.seq",
		},
		{
			name:    "sqlite",
			dialect: query.SQLite,
			want:    "SELECT r.id, r.doc FROM records r ORDER BY r.seq",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := query.NewBuilder(testMap(), tt.dialect).Build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if sql != tt.want {
				t.Errorf("sql = %q, want %q", sql, tt.want)
			}
			if len(args) != 0 {
				t.Errorf("args = %v, want none", args)
			}
		})
	}
}

func TestWhereEquals(t *testing.T) {
	tests := []struct {
		name    string
		dialect query.Dialect
		field   string
		want    string
	}{
		{
			name:    "postgres key",
			dialect: query.Postgres,
			field:   "email",
			want:    "SELECT r.id, r.doc FROM records r WHERE (jsonb_typeof(r.doc->'email') = 'string' AND r.doc->>'email' = $1) ORDER BY r.seq",
		},
		{
			name:    "postgres id",
			dialect: query.Postgres,
			field:   "id",
			want:    "SELECT r.id, r.doc FROM records r WHERE r.id::text = $1 ORDER BY r.seq",
		},
		{
			name:    "sqlite key",
			dialect: query.SQLite,
			field:   "email",
			want:    "SELECT r.id, r.doc FROM records r WHERE (json_type(r.doc, '$.email') = 'text' AND CAST(json_extract(r.doc, '$.email') AS TEXT) = ?) ORDER BY r.seq",
		},
		{
			name:    "sqlite id",
			dialect: query.SQLite,
			field:   "id",
			want:    "SELECT r.id, r.doc FROM records r WHERE r.id = ? ORDER BY r.seq",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := query.
				NewBuilder(testMap(), tt.dialect).
				WhereEquals(tt.field, "value").
				Build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if sql != tt.want {
				t.Errorf("sql = %q, want %q", sql, tt.want)
			}
			if len(args) != 1 || args[0] != "value" {
				t.Errorf("args = %v, want [value]", args)
			}
		})
	}
}

func TestWhereEqualsNumericValue(t *testing.T) {
	tests := []struct {
		name    string
		dialect query.Dialect
		value   string
		want    string
		args    []any
	}{
		{
			name:    "postgres decimal",
			dialect: query.Postgres,
			value:   "0.30000000000000004",
			want:    "SELECT r.id, r.doc FROM records r WHERE ((jsonb_typeof(r.doc->'age') = 'string' AND r.doc->>'age' = $1) OR r.doc->'age' = to_jsonb($2::numeric)) ORDER BY r.seq",
			args:    []any{"0.30000000000000004", 0.30000000000000004},
		},
		{
			name:    "sqlite exponent",
			dialect: query.SQLite,
			value:   "1e+21",
			want:    "SELECT r.id, r.doc FROM records r WHERE ((json_type(r.doc, '$.age') = 'text' AND CAST(json_extract(r.doc, '$.age') AS TEXT) = ?) OR (json_type(r.doc, '$.age') IN ('integer', 'real') AND json_extract(r.doc, '$.age') = ?)) ORDER BY r.seq",
			args:    []any{"1e+21", 1e21},
		},
		{
			name:    "infinity stays text",
			dialect: query.Postgres,
			value:   "Infinity",
			want:    "SELECT r.id, r.doc FROM records r WHERE (jsonb_typeof(r.doc->'age') = 'string' AND r.doc->>'age' = $1) ORDER BY r.seq",
			args:    []any{"Infinity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := query.
				NewBuilder(testMap(), tt.dialect).
				WhereEquals("age", tt.value).
				Build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if sql != tt.want {
				t.Errorf("sql = %q, want %q", sql, tt.want)
			}
			if !reflect.DeepEqual(args, tt.args) {
				t.Errorf("args = %v, want %v", args, tt.args)
			}
		})
	}
}

func TestParameterNumbering(t *testing.T) {
	sql, args, err := query.
		NewBuilder(testMap(), query.Postgres).
		WhereEquals("name", "ada").
		WhereNumber("age", 36).
		BuildFirst()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := "SELECT r.id, r.doc FROM records r WHERE (jsonb_typeof(r.doc->'name') = 'string' AND r.doc->>'name' = $1) AND r.doc->'age' = to_jsonb($2::numeric) ORDER BY r.seq LIMIT 1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != "ada" || args[1] != float64(36) {
		t.Errorf("args = %v, want [ada 36]", args)
	}
}

func TestUnknownField(t *testing.T) {
	_, _, err := query.
		NewBuilder(testMap(), query.Postgres).
		WhereEquals("password", "x").
		Build()
	if !errors.Is(err, query.ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}

	_, _, err = query.
		NewBuilder(testMap(), query.SQLite).
		WhereNumber("id", 1).
		BuildDeleteFirst()
	if !errors.Is(err, query.ErrUnknownField) {
		t.Fatalf("numeric id: err = %v, want ErrUnknownField", err)
	}
}

func TestBuildDeleteFirst(t *testing.T) {
	sql, args, err := query.
		NewBuilder(testMap(), query.SQLite).
		WhereEquals("name", "ada").
		BuildDeleteFirst()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := "DELETE FROM records WHERE id IN (SELECT r.id FROM records r WHERE (json_type(r.doc, '$.name') = 'text' AND CAST(json_extract(r.doc, '$.name') AS TEXT) = ?) ORDER BY r.seq LIMIT 1)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want 1 arg", args)
	}
}

func TestBuildAverage(t *testing.T) {
	tests := []struct {
		name    string
		dialect query.Dialect
		want    string
	}{
		{
			name:    "postgres",
			dialect: query.Postgres,
			want:    "SELECT AVG((r.doc->>'age')::float8) FROM records r WHERE jsonb_typeof(r.doc->'age') = 'number'",
		},
		{
			name:    "sqlite",
			dialect: query.SQLite,
			want:    "SELECT AVG(json_extract(r.doc, '$.age')) FROM records r WHERE json_type(r.doc, '$.age') IN ('integer', 'real')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := query.NewBuilder(testMap(), tt.dialect).BuildAverage("age")
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if sql != tt.want {
				t.Errorf("sql = %q, want %q", sql, tt.want)
			}
		})
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testMap(), query.Postgres).BuildSingle("abc")
	want := "SELECT r.id, r.doc FROM records r WHERE r.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}
