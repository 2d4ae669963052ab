package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
)

type ReportFileAdapter struct{}

func NewReportFileAdapter() ReportFileAdapter {
	return ReportFileAdapter{}
}

// WriteRunReport writes key=value run details followed by one
// name,variant,rows,path line per source and one warning per line.
func (a ReportFileAdapter) WriteRunReport(path string, report types.RunReport) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	lines := []string{
		fmt.Sprintf("dataset_date=%s", report.DatasetDate.Format("2006-01-02")),
		fmt.Sprintf("output=%s", report.OutputPath),
		fmt.Sprintf("rows=%d", report.Rows),
		fmt.Sprintf("dry_run=%t", report.DryRun),
		"[sources]",
	}
	for _, source := range report.Sources {
		lines = append(lines, fmt.Sprintf("%s,%s,%d,%s", source.Name, source.Variant, source.Rows, source.Path))
	}
	lines = append(lines, "[warnings]")
	for _, source := range report.Sources {
		for _, warning := range source.Warnings {
			lines = append(lines, fmt.Sprintf("%s: %s", source.Name, warning))
		}
	}
	lines = append(lines, report.Warnings...)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write run report").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportPort = ReportFileAdapter{}
