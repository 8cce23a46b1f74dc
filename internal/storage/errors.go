package storage

import "errors"

// Storage errors.
var (
	// ErrNotFound is returned when a requested dataset or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a sample whose
	// (dataset, channel, timestamp) already exists.
	ErrDuplicateKey = errors.New("duplicate key: sample already stored")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
