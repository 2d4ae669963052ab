package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"municipal-limits/internal/types"
)

// SchemaChecker compares layers and manifests against what a run needs.
type SchemaChecker struct{}

var knownVariants = map[types.Variant]struct{}{
	types.VariantAthens:      {},
	types.VariantDecatur:     {},
	types.VariantHuntsville:  {},
	types.VariantMadison:     {},
	types.VariantTowns:       {},
	types.VariantDeclarative: {},
}

var knownDrivers = map[types.Driver]struct{}{
	types.DriverShapefile:  {},
	types.DriverGeoPackage: {},
	types.DriverGeoJSON:    {},
}

func NewSchemaChecker() SchemaChecker {
	return SchemaChecker{}
}

// CheckLayer reports canonical fields the layer lacks and extra columns the
// writer will drop. Findings are warnings, never errors.
func (c SchemaChecker) CheckLayer(ctx context.Context, layer *Layer, schema types.OutputSchema) []string {
	var warnings []string
	expected := schema.FieldNames()
	var missing []string
	for _, name := range expected {
		if !layer.Table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("output fields without data: %s", strings.Join(missing, ", ")))
	}
	var extra []string
	for _, name := range layer.Table.Columns {
		if !slices.Contains(expected, name) {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		warnings = append(warnings, fmt.Sprintf("fields not in output schema: %s", strings.Join(extra, ", ")))
	}
	for _, warning := range warnings {
		log.Ctx(ctx).Warn().Msg(warning)
	}
	return warnings
}

// ValidateManifest checks the structure of a manifest without touching any
// source data.
func (c SchemaChecker) ValidateManifest(ctx context.Context, manifest types.Manifest) error {
	if strings.TrimSpace(manifest.APIVersion) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("api_version must be set")
	}
	if manifest.Kind != types.ManifestKindMunicipalLimits {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("manifest kind must be %s", types.ManifestKindMunicipalLimits))
	}
	if strings.TrimSpace(manifest.Metadata.Name) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.name must be set")
	}
	if len(manifest.Sources) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sources must not be empty")
	}
	if driver := manifest.Defaults.Driver; driver != "" {
		if _, ok := knownDrivers[driver]; !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown output driver: %s", driver))
		}
	}
	seen := map[string]struct{}{}
	for _, source := range manifest.Sources {
		if err := validateSource(source); err != nil {
			return err
		}
		if _, ok := seen[source.Name]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate source name: %s", source.Name))
		}
		seen[source.Name] = struct{}{}
	}
	log.Ctx(ctx).Debug().Str("manifest", manifest.Metadata.Name).Int("sources", len(manifest.Sources)).Msg("manifest validated")
	return nil
}

func validateSource(source types.SourceEntry) error {
	if strings.TrimSpace(source.Name) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source name must be set")
	}
	if _, ok := knownVariants[source.Variant]; !ok {
		return &ConfigurationError{
			Setting: "sources." + source.Name + ".variant",
			Reason:  fmt.Sprintf("unknown variant %q", source.Variant),
		}
	}
	if source.Driver != "" {
		if _, ok := knownDrivers[source.Driver]; !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("source %s: unknown driver %s", source.Name, source.Driver))
		}
	}
	hasPath := strings.TrimSpace(source.Path) != ""
	hasFolder := strings.TrimSpace(source.Folder) != ""
	if hasPath == hasFolder {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source %s must set exactly one of path or folder", source.Name))
	}
	if source.Layer != "" && source.LayerPrefix != "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source %s must not set both layer and layer_prefix", source.Name))
	}
	if source.Variant == types.VariantDeclarative {
		if source.Fields == nil {
			return &ConfigurationError{
				Setting: "sources." + source.Name + ".fields",
				Reason:  "declarative source requires fields",
			}
		}
		if err := validateLastUpdate(source); err != nil {
			return err
		}
	}
	return nil
}

func validateLastUpdate(source types.SourceEntry) error {
	mode := strings.TrimSpace(source.Fields.LastUpdate)
	switch {
	case mode == "":
		return nil
	case mode == types.LastUpdateFolder:
		if !source.Fields.ParseFolderDate {
			return &ConfigurationError{
				Setting: "sources." + source.Name + ".fields.last_update",
				Reason:  "folder dates require parse_folder_date",
			}
		}
		return nil
	case strings.HasPrefix(mode, types.LastUpdateMax) && len(mode) > len(types.LastUpdateMax):
		return nil
	case strings.HasPrefix(mode, types.LastUpdateColumn) && len(mode) > len(types.LastUpdateColumn):
		return nil
	default:
		return &ConfigurationError{
			Setting: "sources." + source.Name + ".fields.last_update",
			Reason:  fmt.Sprintf("unsupported mode %q", mode),
		}
	}
}
