package types

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrScalarFieldList is returned when a field list is given as a single
// string instead of a sequence.
var ErrScalarFieldList = errors.New("field list must be a sequence, not a scalar")

type Metadata struct {
	Name        string   `yaml:"name"`
	Owners      []string `yaml:"owners"`
	Description string   `yaml:"description,omitempty"`
}

// ManifestDefaults provides run-level defaults that the CLI and application
// layer use when a value is not explicitly provided via flags or environment
// variables.
type ManifestDefaults struct {
	BaseDir         string `yaml:"base_dir,omitempty"`
	Output          string `yaml:"output,omitempty"`
	Driver          Driver `yaml:"driver,omitempty"`
	OutputStem      string `yaml:"output_stem,omitempty"`
	CanonicalCRS    string `yaml:"canonical_crs,omitempty"`
	CanonicalCRSWKT string `yaml:"canonical_crs_wkt,omitempty"`
}

// Manifest lists the municipal sources of one run, in output order.
type Manifest struct {
	APIVersion string           `yaml:"api_version"`
	Kind       ManifestKind     `yaml:"kind"`
	Metadata   Metadata         `yaml:"metadata"`
	Defaults   ManifestDefaults `yaml:"defaults"`
	Sources    []SourceEntry    `yaml:"sources"`
}

// SourceEntry locates one municipality's boundary data. Either Path names a
// file or container directly, or Folder names a directory under the base
// directory whose most recent dated subfolder holds a shapefile.
type SourceEntry struct {
	Name        string  `yaml:"name"`
	Variant     Variant `yaml:"variant"`
	Path        string  `yaml:"path,omitempty"`
	Folder      string  `yaml:"folder,omitempty"`
	Driver      Driver  `yaml:"driver,omitempty"`
	Layer       string  `yaml:"layer,omitempty"`
	LayerPrefix string  `yaml:"layer_prefix,omitempty"`
	AssumeCRS   string  `yaml:"assume_crs,omitempty"`

	// Fields configures a declarative source. Built-in variants ignore it.
	Fields *DeclarativeFields `yaml:"fields,omitempty"`
}

// DeclarativeFields is the manifest form of a source variant.
type DeclarativeFields struct {
	RequiredFields  FieldList        `yaml:"required_fields,omitempty"`
	AddFields       FieldValues      `yaml:"add_fields,omitempty"`
	DeleteFields    FieldList        `yaml:"delete_fields,omitempty"`
	Filter          []AttributeMatch `yaml:"filter,omitempty"`
	Copy            []FieldCopy      `yaml:"copy,omitempty"`
	LastUpdate      string           `yaml:"last_update,omitempty"`
	Dissolve        bool             `yaml:"dissolve,omitempty"`
	ParseFolderDate bool             `yaml:"parse_folder_date,omitempty"`
}

// AttributeMatch keeps rows whose Field equals Equals.
type AttributeMatch struct {
	Field  string `yaml:"field"`
	Equals string `yaml:"equals"`
}

// FieldCopy copies column From into column To.
type FieldCopy struct {
	To   string `yaml:"to"`
	From string `yaml:"from"`
}

// FieldValue is a constant attribute assignment.
type FieldValue struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// FieldList is a sequence of field names that refuses a bare string.
type FieldList []string

func (l *FieldList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: %w", node.Line, ErrScalarFieldList)
	}
	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}
	*l = values
	return nil
}

// FieldValues is a sequence of constant assignments that refuses a bare string.
type FieldValues []FieldValue

func (v *FieldValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: %w", node.Line, ErrScalarFieldList)
	}
	var values []FieldValue
	if err := node.Decode(&values); err != nil {
		return err
	}
	*v = values
	return nil
}
