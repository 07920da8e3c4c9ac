package schema

import (
	"errors"
	"fmt"
)

var errEmptySchema = errors.New("no feature names")

// ConfigurationError is a startup-time failure to load or validate a model
// artifact. A process holding one must not serve requests.
type ConfigurationError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("invalid %s %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
