package api

import (
	"fmt"

	"github.com/JaimeStill/roster/internal/records"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Records records.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	recordsSystem, err := records.New(
		runtime.Database.Connection(),
		runtime.Database.Dialect(),
		runtime.Logger,
		runtime.QueryableFields,
	)
	if err != nil {
		return nil, fmt.Errorf("records init failed: %w", err)
	}

	return &Domain{
		Records: recordsSystem,
	}, nil
}
