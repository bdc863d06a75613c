package model

import "errors"

var (
	// ErrNotFound is returned when the Parquet file to analyze does not exist
	ErrNotFound = errors.New("source not found")

	// ErrFormat is returned when the file metadata cannot be read or parsed
	ErrFormat = errors.New("unreadable or corrupt metadata")

	// ErrInvalidColumnIndex is returned when an invalid column index is requested
	ErrInvalidColumnIndex = errors.New("invalid column index")
)
