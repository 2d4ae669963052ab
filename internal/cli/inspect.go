package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"municipal-limits/internal/app"
	"municipal-limits/internal/types"
)

type inspectOptions struct {
	Driver string
	Layer  string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Show the CRS, columns and row count of a vector layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "Input driver (inferred from the extension when empty)")
	cmd.Flags().StringVar(&opts.Layer, "layer", "", "Layer name inside a GeoPackage")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(cmd.Context(), app.InspectRequest{
		Path:   path,
		Driver: types.Driver(opts.Driver),
		Layer:  opts.Layer,
	})
	if err != nil {
		return err
	}
	info := result.Layer
	fmt.Printf("path: %s\n", info.Path)
	fmt.Printf("driver: %s\n", info.Driver)
	if info.Layer != "" {
		fmt.Printf("layer: %s\n", info.Layer)
	}
	fmt.Printf("crs: %s\n", info.CRS)
	fmt.Printf("rows: %d\n", info.Rows)
	fmt.Printf("columns: %s\n", strings.Join(info.Columns, ", "))
	if !result.LatestUpdate.IsZero() {
		fmt.Printf("latest update: %s\n", result.LatestUpdate.Format("2006-01-02"))
	}
	return nil
}

type layersOptions struct {
	Driver string
}

func newLayersCommand() *cobra.Command {
	opts := layersOptions{}
	cmd := &cobra.Command{
		Use:   "layers <path>",
		Short: "List the layers of a vector dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newAppService()
			result, err := service.Layers(cmd.Context(), app.LayersRequest{
				Path:   args[0],
				Driver: types.Driver(opts.Driver),
			})
			if err != nil {
				return err
			}
			for _, layer := range result.Layers {
				fmt.Println(layer)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "Input driver (inferred from the extension when empty)")
	return cmd
}
