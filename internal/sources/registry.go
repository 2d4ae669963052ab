package sources

import (
	"context"
	"fmt"
	"slices"

	"municipal-limits/internal/core"
	"municipal-limits/internal/types"
)

// Constructor builds and normalizes one source layer.
type Constructor func(ctx context.Context, in Input) (*core.SourceLayer, error)

var constructors = map[types.Variant]Constructor{
	types.VariantAthens:      NewAthens,
	types.VariantDecatur:     NewDecatur,
	types.VariantHuntsville:  NewHuntsville,
	types.VariantMadison:     NewMadison,
	types.VariantTowns:       NewTowns,
	types.VariantDeclarative: NewDeclarative,
}

func Lookup(variant types.Variant) (Constructor, error) {
	constructor, ok := constructors[variant]
	if !ok {
		return nil, &core.ConfigurationError{
			Setting: "variant",
			Reason:  fmt.Sprintf("unknown variant %q", variant),
		}
	}
	return constructor, nil
}

// Build normalizes in with the recipe registered for variant.
func Build(ctx context.Context, variant types.Variant, in Input) (*core.SourceLayer, error) {
	constructor, err := Lookup(variant)
	if err != nil {
		return nil, err
	}
	return constructor(ctx, in)
}

// Variants lists the registered variant names in sorted order.
func Variants() []types.Variant {
	variants := make([]types.Variant, 0, len(constructors))
	for variant := range constructors {
		variants = append(variants, variant)
	}
	slices.Sort(variants)
	return variants
}
