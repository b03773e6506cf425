package database

import "errors"

var (
	// ErrNotReady indicates the database connection has not been established.
	ErrNotReady = errors.New("database not ready")
	// ErrDirty indicates a previous migration failed part-way and needs a forced version.
	ErrDirty = errors.New("database schema dirty")
)
