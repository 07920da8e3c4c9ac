package predictor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"delivery-eta-api/features"
	"delivery-eta-api/schema"

	"gopkg.in/yaml.v3"
)

const artifactName = "model artifact"

// ErrShapeMismatch is returned when a record does not have the layout the
// model was loaded against.
var ErrShapeMismatch = errors.New("record does not match model feature layout")

// Predictor maps an aligned feature record to an estimate in minutes.
// Implementations are loaded once and are safe for concurrent use.
type Predictor interface {
	Predict(r schema.Record) (float64, error)
	Version() string
	Variant() features.Variant
}

type artifact struct {
	Kind         string             `yaml:"kind"`
	Version      string             `yaml:"version"`
	Variant      string             `yaml:"variant"`
	Intercept    float64            `yaml:"intercept"`
	Coefficients map[string]float64 `yaml:"coefficients"`
}

// Load reads a serialized model and lays it out against s. Any problem with
// the file is a *schema.ConfigurationError.
func Load(path string, s *schema.Schema) (Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configErr(path, err)
	}

	var a artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, configErr(path, fmt.Errorf("decode: %w", err))
	}

	variant, err := features.ParseVariant(a.Variant)
	if err != nil {
		return nil, configErr(path, err)
	}
	if a.Version == "" {
		a.Version = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	switch strings.ToLower(a.Kind) {
	case "linear", "":
		m, err := NewLinearModel(s, variant, a.Version, a.Intercept, a.Coefficients)
		if err != nil {
			return nil, configErr(path, err)
		}
		return m, nil
	default:
		return nil, configErr(path, fmt.Errorf("unsupported model kind %q", a.Kind))
	}
}

func configErr(path string, err error) error {
	return &schema.ConfigurationError{Artifact: artifactName, Path: path, Err: err}
}
