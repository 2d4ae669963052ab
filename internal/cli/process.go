package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"municipal-limits/internal/app"
	"municipal-limits/internal/types"
)

type processOptions struct {
	Manifest        string
	BaseDir         string
	OutputDir       string
	Driver          string
	CanonicalCRS    string
	CanonicalCRSWKT string
	OutputStem      string
	DryRun          bool
	GlobalIDs       bool
	Clip            string
	Report          string
}

func newProcessCommand() *cobra.Command {
	opts := processOptions{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Normalize every source and write the merged municipal limits dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Source manifest path (built-in county layout when empty)")
	cmd.Flags().StringVar(&opts.BaseDir, "base-dir", "", "Directory holding the dated municipality folders")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "Output driver (ESRI Shapefile, GPKG, GeoJSON)")
	cmd.Flags().StringVar(&opts.CanonicalCRS, "canonical-crs", "", "CRS every source is reprojected to")
	cmd.Flags().StringVar(&opts.CanonicalCRSWKT, "canonical-crs-wkt", "", "WKT written for the canonical CRS")
	cmd.Flags().StringVar(&opts.OutputStem, "output-stem", "", "Output filename stem after the dataset date")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Process every source but write nothing")
	cmd.Flags().BoolVar(&opts.GlobalIDs, "global-ids", false, "Assign a GlobalID to rows that lack one")
	cmd.Flags().StringVar(&opts.Clip, "clip", "", "Boundary layer the merged dataset is clipped to")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Run report path")

	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("base_dir", cmd.Flags().Lookup("base-dir"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("driver", cmd.Flags().Lookup("driver"))
	_ = viper.BindPFlag("canonical_crs", cmd.Flags().Lookup("canonical-crs"))
	_ = viper.BindPFlag("canonical_crs_wkt", cmd.Flags().Lookup("canonical-crs-wkt"))
	_ = viper.BindPFlag("output_stem", cmd.Flags().Lookup("output-stem"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("global_ids", cmd.Flags().Lookup("global-ids"))
	_ = viper.BindPFlag("clip", cmd.Flags().Lookup("clip"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))

	return cmd
}

func runProcess(ctx context.Context, cmd *cobra.Command, opts processOptions) error {
	service := newAppService()
	result, err := service.Process(ctx, processRequest(cmd, opts))
	if err != nil {
		return err
	}
	if result.DryRun {
		fmt.Printf("dry run: %s (%d features, dataset date %s)\n",
			result.OutputPath, result.Rows, result.DatasetDate.Format("2006-01-02"))
		return nil
	}
	fmt.Printf("written: %s (%d features, dataset date %s)\n",
		result.OutputPath, result.Rows, result.DatasetDate.Format("2006-01-02"))
	if result.ReportPath != "" {
		fmt.Printf("report: %s\n", result.ReportPath)
	}
	return nil
}

func processRequest(cmd *cobra.Command, opts processOptions) app.ProcessRequest {
	return app.ProcessRequest{
		ManifestPath:    resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		BaseDir:         resolveString(cmd, opts.BaseDir, "base_dir", "base-dir"),
		OutputDir:       resolveString(cmd, opts.OutputDir, "output", "output"),
		Driver:          types.Driver(resolveString(cmd, opts.Driver, "driver", "driver")),
		CanonicalCRS:    resolveString(cmd, opts.CanonicalCRS, "canonical_crs", "canonical-crs"),
		CanonicalCRSWKT: resolveString(cmd, opts.CanonicalCRSWKT, "canonical_crs_wkt", "canonical-crs-wkt"),
		OutputStem:      resolveString(cmd, opts.OutputStem, "output_stem", "output-stem"),
		ClipPath:        resolveString(cmd, opts.Clip, "clip", "clip"),
		ReportPath:      resolveString(cmd, opts.Report, "report", "report"),
		DryRun:          resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
		AssignGlobalIDs: resolveBool(cmd, opts.GlobalIDs, "global_ids", "global-ids"),
	}
}
