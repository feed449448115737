package engine

import "errors"

// Errors returned by the engine package.
var (
	// ErrMissingColumn is returned when the CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow is returned when a CSV row cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")

	// ErrEmptyDataset is returned when the CSV holds a header but no rows.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrUnknownColumn is returned when a numeric column name is not recognized.
	ErrUnknownColumn = errors.New("unknown numeric column")

	// ErrNotLoaded is returned while the dataset is still being loaded.
	ErrNotLoaded = errors.New("dataset not loaded yet")
)
