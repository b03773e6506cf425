package records

import (
	"context"
	"encoding/json"
)

// System defines the public contract for record operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	InsertOne(ctx context.Context, fields Fields) (*Record, error)
	InsertMany(ctx context.Context, batch json.RawMessage) ([]Record, error)
	FindByField(ctx context.Context, field, value string) ([]Record, error)
	DeleteByField(ctx context.Context, field, value string) error
	UpdateNameByAge(ctx context.Context, age float64, newName string) (int64, error)
	UpdateByID(ctx context.Context, id string, fields Fields) (*Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	AverageAge(ctx context.Context) (float64, error)
}
