package core

import "fmt"

// ConfigurationError reports a layer configuration that cannot be used, such
// as a scalar where a list of field names is required.
type ConfigurationError struct {
	Setting string
	Reason  string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid layer configuration %s: %s: %v", e.Setting, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid layer configuration %s: %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// FieldNotFoundError reports a column scheduled for deletion that the layer
// does not have.
type FieldNotFoundError struct {
	Field  string
	Source string
}

func (e *FieldNotFoundError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("column %q does not exist in layer", e.Field)
	}
	return fmt.Sprintf("column %q does not exist in filename: %s", e.Field, e.Source)
}

// LayerTypeError reports an append argument that is neither a layer nor a
// list of layers.
type LayerTypeError struct {
	Got string
}

func (e *LayerTypeError) Error() string {
	return fmt.Sprintf("append expects a layer or a list of layers, got %s", e.Got)
}
