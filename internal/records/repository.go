package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JaimeStill/roster/pkg/query"
	"github.com/JaimeStill/roster/pkg/repository"
)

const tracerName = "github.com/JaimeStill/roster/internal/records"

type repo struct {
	db        *sql.DB
	dialect   query.Dialect
	queryable []string
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New creates a record repository implementing the System interface.
// queryable restricts the fields FindByField and DeleteByField accept; every
// entry must be a record field.
func New(
	db *sql.DB,
	dialect query.Dialect,
	logger *slog.Logger,
	queryable []string,
) (System, error) {
	for _, field := range queryable {
		if !document.Has(field) {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotQueryable, field)
		}
	}

	return &repo{
		db:        db,
		dialect:   dialect,
		queryable: slices.Clone(queryable),
		logger:    logger.With("system", "records"),
		tracer:    otel.Tracer(tracerName),
	}, nil
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, maxBodySize)
}

func (r *repo) InsertOne(ctx context.Context, fields Fields) (*Record, error) {
	ctx, span := r.tracer.Start(ctx, "records.InsertOne")
	defer span.End()

	rec, err := r.insert(ctx, r.db, fields)
	if err != nil {
		return nil, r.fail(span, "insert record", err)
	}

	r.logger.Info("record inserted", "id", rec.ID)
	return &rec, nil
}

func (r *repo) InsertMany(ctx context.Context, batch json.RawMessage) ([]Record, error) {
	ctx, span := r.tracer.Start(ctx, "records.InsertMany")
	defer span.End()

	items, err := ParseBatch(batch)
	if err != nil {
		return nil, r.fail(span, "parse batch", err)
	}
	span.SetAttributes(attribute.Int("records.batch_size", len(items)))

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Record, error) {
		result := make([]Record, 0, len(items))
		for _, fields := range items {
			rec, err := r.insert(ctx, tx, fields)
			if err != nil {
				return nil, err
			}
			result = append(result, rec)
		}
		return result, nil
	})
	if err != nil {
		return nil, r.fail(span, "insert batch", err)
	}

	r.logger.Info("records inserted", "count", len(created))
	return created, nil
}

func (r *repo) FindByField(ctx context.Context, field, value string) ([]Record, error) {
	ctx, span := r.tracer.Start(ctx, "records.FindByField", trace.WithAttributes(
		attribute.String("records.field", field),
	))
	defer span.End()

	if err := r.checkQueryable(field); err != nil {
		return nil, r.fail(span, "find records", err)
	}

	q, args, err := query.NewBuilder(document, r.dialect).
		WhereEquals(field, value).
		Build()
	if err != nil {
		return nil, r.fail(span, "find records", err)
	}

	found, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, r.fail(span, "find records", err)
	}
	if len(found) == 0 {
		return nil, r.fail(span, "find records", ErrNotFound)
	}

	return found, nil
}

func (r *repo) DeleteByField(ctx context.Context, field, value string) error {
	ctx, span := r.tracer.Start(ctx, "records.DeleteByField", trace.WithAttributes(
		attribute.String("records.field", field),
	))
	defer span.End()

	if err := r.checkQueryable(field); err != nil {
		return r.fail(span, "delete record", err)
	}

	q, args, err := query.NewBuilder(document, r.dialect).
		WhereEquals(field, value).
		BuildDeleteFirst()
	if err != nil {
		return r.fail(span, "delete record", err)
	}

	if err := repository.ExecExpectOne(ctx, r.db, q, args...); err != nil {
		return r.fail(span, "delete record", err)
	}

	r.logger.Info("record deleted", "field", field)
	return nil
}

func (r *repo) UpdateNameByAge(ctx context.Context, age float64, newName string) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "records.UpdateNameByAge")
	defer span.End()

	selectSQL, selectArgs, err := query.NewBuilder(document, r.dialect).
		WhereNumber("age", age).
		BuildFirst()
	if err != nil {
		return 0, r.fail(span, "update name", err)
	}

	updateSQL, err := document.SetTextSQL(r.dialect, "name")
	if err != nil {
		return 0, r.fail(span, "update name", err)
	}

	modified, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		match, err := repository.QueryOne(ctx, tx, selectSQL, selectArgs, scanRecord)
		if err != nil {
			return 0, err
		}
		return repository.Exec(ctx, tx, updateSQL, newName, match.ID, newName)
	})
	if err != nil {
		return 0, r.fail(span, "update name", err)
	}

	span.SetAttributes(attribute.Int64("records.modified", modified))
	r.logger.Info("record name updated", "age", age, "modified", modified)
	return modified, nil
}

func (r *repo) UpdateByID(ctx context.Context, id string, fields Fields) (*Record, error) {
	ctx, span := r.tracer.Start(ctx, "records.UpdateByID")
	defer span.End()

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, r.fail(span, "update record", ErrNotFound)
	}

	doc, err := encodeFields(fields)
	if err != nil {
		return nil, r.fail(span, "update record", fmt.Errorf("%w: %w", ErrInvalidBody, err))
	}

	selectSQL, selectArgs := query.NewBuilder(document, r.dialect).BuildSingle(uid)

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		if err := repository.ExecExpectOne(ctx, tx, document.MergeSQL(r.dialect), doc, uid); err != nil {
			return Record{}, err
		}
		return repository.QueryOne(ctx, tx, selectSQL, selectArgs, scanRecord)
	})
	if err != nil {
		return nil, r.fail(span, "update record", err)
	}

	r.logger.Info("record updated", "id", rec.ID)
	return &rec, nil
}

func (r *repo) ListAll(ctx context.Context) ([]Record, error) {
	ctx, span := r.tracer.Start(ctx, "records.ListAll")
	defer span.End()

	q, args, err := query.NewBuilder(document, r.dialect).Build()
	if err != nil {
		return nil, r.fail(span, "list records", err)
	}

	all, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, r.fail(span, "list records", err)
	}

	span.SetAttributes(attribute.Int("records.count", len(all)))
	return all, nil
}

func (r *repo) AverageAge(ctx context.Context) (float64, error) {
	ctx, span := r.tracer.Start(ctx, "records.AverageAge")
	defer span.End()

	q, args, err := query.NewBuilder(document, r.dialect).BuildAverage("age")
	if err != nil {
		return 0, r.fail(span, "average age", err)
	}

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&avg); err != nil {
		return 0, r.fail(span, "average age", err)
	}
	if !avg.Valid {
		return 0, r.fail(span, "average age", ErrNotFound)
	}

	return avg.Float64, nil
}

func (r *repo) insert(ctx context.Context, e repository.Executor, fields Fields) (Record, error) {
	doc, err := encodeFields(fields)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	rec := Record{ID: uuid.New(), Fields: fields}
	if _, err := repository.Exec(ctx, e, document.InsertSQL(r.dialect), rec.ID, doc); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *repo) checkQueryable(field string) error {
	if !slices.Contains(r.queryable, field) {
		return fmt.Errorf("%w: %q", ErrFieldNotQueryable, field)
	}
	return nil
}

// fail classifies err into a domain error, records it on span, and logs
// storage failures with driver detail.
func (r *repo) fail(span trace.Span, op string, err error) error {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	mapped := repository.MapError(err, ErrNotFound, ErrStorage)
	if errors.Is(mapped, ErrStorage) {
		r.logger.Error(op+" failed", repository.ErrorAttrs(err)...)
		mapped = fmt.Errorf("%s: %w", op, mapped)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, mapped.Error())
	return mapped
}
