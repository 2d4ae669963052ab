package app

import (
	"time"

	"municipal-limits/internal/types"
)

type ValidateRequest struct {
	ManifestPath string
}

type ValidateResult struct {
	ManifestName string
	Sources      []string
}

type ProcessRequest struct {
	ManifestPath    string
	BaseDir         string
	OutputDir       string
	Driver          types.Driver
	OutputStem      string
	CanonicalCRS    string
	CanonicalCRSWKT string
	ClipPath        string
	ReportPath      string
	DryRun          bool
	AssignGlobalIDs bool
}

type ProcessResult struct {
	DatasetDate time.Time
	OutputPath  string
	ReportPath  string
	Rows        int
	DryRun      bool
	Sources     []types.SourceSummary
	Warnings    []string
	Duration    time.Duration
}

type InspectRequest struct {
	Path   string
	Driver types.Driver
	Layer  string
}

type InspectResult struct {
	Layer        types.LayerInfo
	LatestUpdate time.Time
}

type LayersRequest struct {
	Path   string
	Driver types.Driver
}

type LayersResult struct {
	Layers []string
}
