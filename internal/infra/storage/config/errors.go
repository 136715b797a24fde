package config

import "errors"

var (
	// ErrBuildQuery is returned when a SQL query cannot be built
	ErrBuildQuery = errors.New("config.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails
	ErrExecQuery = errors.New("config.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned
	ErrScanRow = errors.New("config.repository: failed to scan row")

	// ErrEncode is returned when a JSONB column cannot be encoded or decoded
	ErrEncode = errors.New("config.repository: failed to encode column")
)
