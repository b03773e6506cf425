package records_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/roster/internal/migrations"
	"github.com/JaimeStill/roster/internal/records"
	"github.com/JaimeStill/roster/pkg/database"
	"github.com/JaimeStill/roster/pkg/lifecycle"
)

func newStore(t *testing.T) records.System {
	t.Helper()

	cfg := &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "records.db"),
	}
	require.NoError(t, cfg.Finalize(nil))

	source, err := migrations.For(cfg.Driver)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.New(cfg, logger, source)
	require.NoError(t, err)

	lc := lifecycle.New()
	require.NoError(t, db.Start(lc))
	require.NoError(t, lc.WaitForStartup())
	t.Cleanup(func() { lc.Shutdown(5 * time.Second) })

	sys, err := records.New(db.Connection(), db.Dialect(), logger, records.QueryableFields())
	require.NoError(t, err)
	return sys
}

func fields(name string, age float64, email string) records.Fields {
	return records.Fields{Name: &name, Age: &age, Email: &email}
}

func TestNewRejectsUnknownQueryableField(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := records.New(nil, nil, logger, []string{"name", "password"})
	assert.ErrorIs(t, err, records.ErrFieldNotQueryable)
}

func TestInsertOneThenFind(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	created, err := sys.InsertOne(ctx, fields("Ada", 36, "ada@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	for _, lookup := range []struct{ field, value string }{
		{"name", "Ada"},
		{"age", "36"},
		{"email", "ada@example.com"},
		{"id", created.ID.String()},
	} {
		t.Run(lookup.field, func(t *testing.T) {
			found, err := sys.FindByField(ctx, lookup.field, lookup.value)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, *created, found[0])
		})
	}
}

func TestFindByField(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	_, err := sys.InsertOne(ctx, fields("Ada", 36, "ada@example.com"))
	require.NoError(t, err)
	_, err = sys.InsertOne(ctx, fields("Ada", 40, "ada2@example.com"))
	require.NoError(t, err)

	t.Run("returns every match in insertion order", func(t *testing.T) {
		found, err := sys.FindByField(ctx, "name", "Ada")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, 36.0, *found[0].Age)
		assert.Equal(t, 40.0, *found[1].Age)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := sys.FindByField(ctx, "name", "Grace")
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("malformed id is no match", func(t *testing.T) {
		_, err := sys.FindByField(ctx, "id", "not-a-uuid")
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("field outside the allow-list", func(t *testing.T) {
		_, err := sys.FindByField(ctx, "name'); DROP TABLE records; --", "x")
		assert.ErrorIs(t, err, records.ErrFieldNotQueryable)
		assert.ErrorIs(t, err, records.ErrValidation)

		all, err := sys.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestFindByNumericAge(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	tenth, fifth := 0.1, 0.2
	inexact, err := sys.InsertOne(ctx, records.Fields{Age: ptr(tenth + fifth)})
	require.NoError(t, err)
	large, err := sys.InsertOne(ctx, records.Fields{Age: ptr(1e21)})
	require.NoError(t, err)
	named, err := sys.InsertOne(ctx, fields("0.3", 7, "n@example.com"))
	require.NoError(t, err)

	ageText := func(rec *records.Record) string {
		data, err := json.Marshal(*rec.Age)
		require.NoError(t, err)
		return string(data)
	}

	t.Run("finds by the age the API renders", func(t *testing.T) {
		for _, rec := range []*records.Record{inexact, large} {
			found, err := sys.FindByField(ctx, "age", ageText(rec))
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, rec.ID, found[0].ID)
		}
	})

	t.Run("equivalent spellings match", func(t *testing.T) {
		found, err := sys.FindByField(ctx, "age", "1e21")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, large.ID, found[0].ID)

		found, err = sys.FindByField(ctx, "age", "7.0")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, named.ID, found[0].ID)
	})

	t.Run("nearby value is no match", func(t *testing.T) {
		_, err := sys.FindByField(ctx, "age", "0.3")
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("string field keeps text semantics", func(t *testing.T) {
		found, err := sys.FindByField(ctx, "name", "0.3")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, named.ID, found[0].ID)

		_, err = sys.FindByField(ctx, "name", "0.30")
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("delete by rendered age", func(t *testing.T) {
		require.NoError(t, sys.DeleteByField(ctx, "age", ageText(inexact)))

		_, err := sys.FindByField(ctx, "id", inexact.ID.String())
		assert.ErrorIs(t, err, records.ErrNotFound)
	})
}

func TestInsertMany(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	t.Run("creates each element with a distinct id", func(t *testing.T) {
		created, err := sys.InsertMany(ctx, json.RawMessage(`[{"name":"a"},{"name":"b","age":2},{"email":"c@example.com"}]`))
		require.NoError(t, err)
		require.Len(t, created, 3)

		seen := make(map[uuid.UUID]bool)
		for _, rec := range created {
			assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
			seen[rec.ID] = true
		}
	})

	t.Run("non-array body inserts nothing", func(t *testing.T) {
		before, err := sys.ListAll(ctx)
		require.NoError(t, err)

		_, err = sys.InsertMany(ctx, json.RawMessage(`{"name":"a"}`))
		assert.ErrorIs(t, err, records.ErrInvalidBatch)
		assert.ErrorIs(t, err, records.ErrValidation)

		after, err := sys.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("malformed element inserts nothing", func(t *testing.T) {
		before, err := sys.ListAll(ctx)
		require.NoError(t, err)

		_, err = sys.InsertMany(ctx, json.RawMessage(`[{"name":"ok"},{"age":"old"}]`))
		assert.ErrorIs(t, err, records.ErrValidation)

		after, err := sys.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("non-object element inserts nothing", func(t *testing.T) {
		before, err := sys.ListAll(ctx)
		require.NoError(t, err)

		for _, body := range []string{`[null, {}]`, `[{"name":"a"}, 1]`, `[["nested"]]`} {
			_, err = sys.InsertMany(ctx, json.RawMessage(body))
			assert.ErrorIs(t, err, records.ErrInvalidBatch, body)
		}

		after, err := sys.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("numeric string ages are cast", func(t *testing.T) {
		created, err := sys.InsertMany(ctx, json.RawMessage(`[{"name":"d","age":"41"}]`))
		require.NoError(t, err)
		require.Len(t, created, 1)
		require.NotNil(t, created[0].Age)
		assert.Equal(t, 41.0, *created[0].Age)
	})

	t.Run("empty array", func(t *testing.T) {
		created, err := sys.InsertMany(ctx, json.RawMessage(`[]`))
		require.NoError(t, err)
		assert.Empty(t, created)
	})
}

func TestDeleteByField(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	first, err := sys.InsertOne(ctx, fields("Ada", 36, "a@example.com"))
	require.NoError(t, err)
	second, err := sys.InsertOne(ctx, fields("Ada", 40, "b@example.com"))
	require.NoError(t, err)
	other, err := sys.InsertOne(ctx, fields("Grace", 50, "c@example.com"))
	require.NoError(t, err)

	t.Run("no match", func(t *testing.T) {
		err := sys.DeleteByField(ctx, "name", "Linus")
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("removes exactly the first match", func(t *testing.T) {
		require.NoError(t, sys.DeleteByField(ctx, "name", "Ada"))

		all, err := sys.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, other.ID, all[1].ID)

		_, err = sys.FindByField(ctx, "id", first.ID.String())
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("field outside the allow-list", func(t *testing.T) {
		err := sys.DeleteByField(ctx, "seq", "1")
		assert.ErrorIs(t, err, records.ErrFieldNotQueryable)
	})
}

func TestUpdateNameByAge(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	first, err := sys.InsertOne(ctx, fields("Ada", 30, "a@example.com"))
	require.NoError(t, err)
	second, err := sys.InsertOne(ctx, fields("Alan", 30, "b@example.com"))
	require.NoError(t, err)

	t.Run("no match", func(t *testing.T) {
		_, err := sys.UpdateNameByAge(ctx, 99, "Nobody")
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("renames only the first match", func(t *testing.T) {
		modified, err := sys.UpdateNameByAge(ctx, 30, "Grace")
		require.NoError(t, err)
		assert.Equal(t, int64(1), modified)

		found, err := sys.FindByField(ctx, "id", first.ID.String())
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Grace", *found[0].Name)
		assert.Equal(t, 30.0, *found[0].Age)
		assert.Equal(t, "a@example.com", *found[0].Email)

		untouched, err := sys.FindByField(ctx, "id", second.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Alan", *untouched[0].Name)
	})

	t.Run("same name reports zero modified", func(t *testing.T) {
		modified, err := sys.UpdateNameByAge(ctx, 30, "Grace")
		require.NoError(t, err)
		assert.Zero(t, modified)
	})

	t.Run("record without a name", func(t *testing.T) {
		age := 12.0
		_, err := sys.InsertOne(ctx, records.Fields{Age: &age})
		require.NoError(t, err)

		modified, err := sys.UpdateNameByAge(ctx, 12, "Kid")
		require.NoError(t, err)
		assert.Equal(t, int64(1), modified)
	})
}

func TestUpdateByID(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	created, err := sys.InsertOne(ctx, fields("Ada", 36, "ada@example.com"))
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		name := "x"
		_, err := sys.UpdateByID(ctx, uuid.NewString(), records.Fields{Name: &name})
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := sys.UpdateByID(ctx, "42", records.Fields{})
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("replaces only the supplied fields", func(t *testing.T) {
		email := "countess@example.com"
		age := 37.0
		updated, err := sys.UpdateByID(ctx, created.ID.String(), records.Fields{Email: &email, Age: &age})
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Ada", *updated.Name)
		assert.Equal(t, 37.0, *updated.Age)
		assert.Equal(t, email, *updated.Email)

		found, err := sys.FindByField(ctx, "email", email)
		require.NoError(t, err)
		assert.Equal(t, *updated, found[0])
	})
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	all, err := sys.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	_, err = sys.InsertMany(ctx, json.RawMessage(`[{"name":"a"},{"name":"b"},{"name":"c"}]`))
	require.NoError(t, err)

	all, err = sys.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, *all[i].Name)
	}
}

func TestAverageAge(t *testing.T) {
	ctx := context.Background()
	sys := newStore(t)

	_, err := sys.AverageAge(ctx)
	assert.ErrorIs(t, err, records.ErrNotFound, "empty collection")

	_, err = sys.InsertOne(ctx, records.Fields{})
	require.NoError(t, err)
	_, err = sys.AverageAge(ctx)
	assert.ErrorIs(t, err, records.ErrNotFound, "no record with an age")

	_, err = sys.InsertMany(ctx, json.RawMessage(`[{"age":10},{"age":20},{"age":30}]`))
	require.NoError(t, err)

	avg, err := sys.AverageAge(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, avg, 1e-9)
}
