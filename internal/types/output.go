package types

import "time"

// SourceSummary records what one source contributed to a run.
type SourceSummary struct {
	Name     string
	Variant  Variant
	Path     string
	Rows     int
	Warnings []string
}

// RunReport is written next to the output dataset after a processing run.
type RunReport struct {
	DatasetDate time.Time
	OutputPath  string
	Rows        int
	DryRun      bool
	Sources     []SourceSummary
	Warnings    []string
}

// LayerInfo describes a readable layer for the inspect command.
type LayerInfo struct {
	Path    string
	Driver  Driver
	Layer   string
	CRS     string
	Rows    int
	Columns []string
}
