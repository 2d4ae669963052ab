package ports

import "municipal-limits/internal/types"

// ReportPort persists the summary of a processing run.
type ReportPort interface {
	WriteRunReport(path string, report types.RunReport) error
}
