package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"delivery-eta-api/features"
	"delivery-eta-api/predictor"
	"delivery-eta-api/schema"
	"delivery-eta-api/services"

	"gopkg.in/yaml.v3"
)

// loadEstimator loads both artifacts the same way the API does at startup.
func loadEstimator(opts *RootOptions) (*services.EstimatorService, error) {
	s, err := schema.Load(opts.FeaturesPath)
	if err != nil {
		return nil, err
	}
	a, err := schema.NewAligner(s)
	if err != nil {
		return nil, err
	}
	m, err := predictor.Load(opts.ModelPath, s)
	if err != nil {
		return nil, err
	}
	b, err := features.NewBuilder(m.Variant())
	if err != nil {
		return nil, err
	}
	return services.NewEstimatorService(b, a, m, nil, 0)
}

// readOrder decodes an order file; .json is read as JSON, anything else as
// YAML.
func readOrder(path string) (features.RawOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return features.RawOrder{}, fmt.Errorf("read order: %w", err)
	}

	var in features.OrderInput
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &in)
	} else {
		err = yaml.Unmarshal(data, &in)
	}
	if err != nil {
		return features.RawOrder{}, fmt.Errorf("decode order %s: %w", path, err)
	}
	return in.RawOrder()
}
