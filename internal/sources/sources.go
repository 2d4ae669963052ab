// Package sources holds the per-municipality recipes that turn a raw
// boundary layer into the county schema.
package sources

import (
	"context"

	"municipal-limits/internal/core"
	"municipal-limits/internal/ports"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

// Canonical attribute names shared by the variants.
const (
	FieldName       = "NAME"
	FieldProperName = "ProperName"
	FieldMuniType   = "MUNITYP"
	FieldGNIS       = "GNIS"
	FieldLocalFIPS  = "LOCALFIPS"
	FieldSource     = "Source"
	FieldSrcURL     = "SrcURL"
)

// Input is everything a variant needs to build its layer. Table, when set,
// replaces reading Path; Path still names the source for folder dates and
// messages.
type Input struct {
	Name         string
	Path         string
	Read         ports.ReadOptions
	Reader       ports.VectorReaderPort
	Table        *vector.Table
	CanonicalCRS string
	AssumeCRS    string
	Engines      core.Engines
	Fields       *types.DeclarativeFields
}

func (in Input) build(ctx context.Context, cfg core.LayerConfig, parseFolderDate bool, hooks core.Hooks) (*core.SourceLayer, error) {
	return core.NewSourceLayer(ctx, core.SourceOptions{
		LayerOptions: core.LayerOptions{
			Table:   in.Table,
			Source:  in.Path,
			Read:    in.Read,
			Reader:  in.Reader,
			Config:  cfg,
			Engines: in.Engines,
		},
		Name:            in.Name,
		CanonicalCRS:    in.CanonicalCRS,
		AssumeCRS:       in.AssumeCRS,
		ParseFolderDate: parseFolderDate,
		Hooks:           hooks,
	})
}

// canonicalHooks reprojects into the canonical CRS and otherwise keeps the
// base behavior.
type canonicalHooks struct {
	core.BaseHooks
}

func (canonicalHooks) Reproject(ctx context.Context, layer *core.SourceLayer) error {
	return layer.ReprojectToCanonical(ctx)
}

// copyColumn sets to from the value of from on every row. Running it again
// gives the same table.
func copyColumn(layer *core.SourceLayer, to string, from string) error {
	if !layer.Table.HasColumn(from) {
		return &core.FieldNotFoundError{Field: from, Source: layer.SourcePath}
	}
	layer.Table.SetFunc(to, func(row vector.Row) any {
		return row.Get(from)
	})
	return nil
}

// copyLatest sets to on every row to the latest date found in column from.
func copyLatest(layer *core.SourceLayer, to string, from string) error {
	if !layer.Table.HasColumn(from) {
		return &core.FieldNotFoundError{Field: from, Source: layer.SourcePath}
	}
	latest, ok := shared.MaxTime(layer.Table.Column(from))
	if !ok {
		layer.Table.SetConstant(to, nil)
		return nil
	}
	layer.Table.SetConstant(to, latest)
	return nil
}

// copyFolderDate sets to on every row to the date parsed from the source
// folder.
func copyFolderDate(layer *core.SourceLayer, to string) {
	if layer.FolderDate.IsZero() {
		layer.Table.SetConstant(to, nil)
		return
	}
	layer.Table.SetConstant(to, layer.FolderDate)
}
