package core

import "context"

// Hooks are the variant-specific steps of the source pipeline. Geoprocess
// calls them in a fixed order; CopyFields runs twice and must give the same
// result both times.
type Hooks interface {
	SelectByAttributes(ctx context.Context, layer *SourceLayer) error
	GeometryOperations(ctx context.Context, layer *SourceLayer) error
	Reproject(ctx context.Context, layer *SourceLayer) error
	CopyFields(ctx context.Context, layer *SourceLayer) error
	AddFields(ctx context.Context, layer *SourceLayer) error
}

// BaseHooks leaves the layer untouched at every step. Variants embed it and
// override what they need.
type BaseHooks struct{}

func (BaseHooks) SelectByAttributes(context.Context, *SourceLayer) error { return nil }
func (BaseHooks) GeometryOperations(context.Context, *SourceLayer) error { return nil }
func (BaseHooks) Reproject(context.Context, *SourceLayer) error          { return nil }
func (BaseHooks) CopyFields(context.Context, *SourceLayer) error         { return nil }
func (BaseHooks) AddFields(context.Context, *SourceLayer) error          { return nil }

var _ Hooks = BaseHooks{}
