package ports

import (
	"context"

	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

// ReadOptions selects what to read from a vector file.
type ReadOptions struct {
	Driver types.Driver
	Layer  string
}

// WriteOptions controls how a table is written.
type WriteOptions struct {
	Driver types.Driver
	Layer  string
	Schema types.OutputSchema
	// CRSWKT is written as the dataset's CRS definition when the table's CRS
	// is an AUTH:CODE identifier.
	CRSWKT string
}

type VectorReaderPort interface {
	Read(ctx context.Context, path string, opts ReadOptions) (vector.Table, error)
	ListLayers(ctx context.Context, path string, driver types.Driver) ([]string, error)
}

type VectorWriterPort interface {
	Write(ctx context.Context, path string, table vector.Table, opts WriteOptions) error
}
