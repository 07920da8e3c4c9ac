package predictor

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"delivery-eta-api/features"
	"delivery-eta-api/schema"
)

func loadSchema(t *testing.T, path string) *schema.Schema {
	t.Helper()
	s, err := schema.Load(path)
	if err != nil {
		t.Fatalf("schema.Load: %v", err)
	}
	return s
}

func buildRecord(t *testing.T, s *schema.Schema, v features.Variant) schema.Record {
	t.Helper()
	in := features.OrderInput{}
	data, err := os.ReadFile("../testdata/order.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		t.Fatal(err)
	}
	o, err := in.RawOrder()
	if err != nil {
		t.Fatal(err)
	}
	b, err := features.NewBuilder(v)
	if err != nil {
		t.Fatal(err)
	}
	d, err := b.Build(o)
	if err != nil {
		t.Fatal(err)
	}
	a, err := schema.NewAligner(s)
	if err != nil {
		t.Fatal(err)
	}
	return a.Align(d)
}

func TestLoadWeekendModel(t *testing.T) {
	s := loadSchema(t, "../testdata/features_weekend.json")
	m, err := Load("../testdata/model_weekend.yaml", s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Version() != "ridge-weekend-2015.02" {
		t.Errorf("Version() = %q", m.Version())
	}
	if m.Variant() != features.VariantWeekend {
		t.Errorf("Variant() = %q", m.Variant())
	}

	got, err := m.Predict(buildRecord(t, s, features.VariantWeekend))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.Abs(got-39.4042) > 1e-3 {
		t.Errorf("Predict() = %v, want ~39.4042", got)
	}
}

func TestLoadRushModel(t *testing.T) {
	s := loadSchema(t, "../testdata/features_rush.yaml")
	m, err := Load("../testdata/model_rush.yaml", s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := m.Predict(buildRecord(t, s, features.VariantRush))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.Abs(got-38.9325) > 1e-3 {
		t.Errorf("Predict() = %v, want ~38.9325", got)
	}
}

func TestPredictShapeMismatch(t *testing.T) {
	s := loadSchema(t, "../testdata/features_weekend.json")
	m, err := Load("../testdata/model_weekend.yaml", s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	other, _ := schema.New([]string{"a", "b"})
	a, _ := schema.NewAligner(other)

	_, err = m.Predict(a.Reindex(nil))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestLoadFailures(t *testing.T) {
	s, _ := schema.New([]string{"total_items", "load_ratio"})
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.yaml")},
		{"corrupt", write("corrupt.yaml", "kind: [linear")},
		{"no variant", write("novariant.yaml", "kind: linear\nintercept: 1\n")},
		{"bad kind", write("tree.yaml", "kind: xgboost\nvariant: rush\n")},
		{"unknown coefficient", write("unknown.yaml", "variant: rush\ncoefficients:\n  subtotal: 1\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, s)
			var cfgErr *schema.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want ConfigurationError", err)
			}
			if cfgErr.Path != tt.path {
				t.Errorf("Path = %q, want %q", cfgErr.Path, tt.path)
			}
		})
	}
}

func TestLoadDefaultsVersionToFileName(t *testing.T) {
	s, _ := schema.New([]string{"total_items"})
	path := filepath.Join(t.TempDir(), "baseline-v1.yaml")
	if err := os.WriteFile(path, []byte("variant: weekend\nintercept: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path, s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Version() != "baseline-v1" {
		t.Errorf("Version() = %q, want baseline-v1", m.Version())
	}
}

func TestLinearModelIsNotClamped(t *testing.T) {
	s, _ := schema.New([]string{"x"})
	m, err := NewLinearModel(s, features.VariantRush, "neg", -5, map[string]float64{"x": 1})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := schema.NewAligner(s)
	got, err := m.Predict(a.Reindex([]schema.Column{{Name: "x", Value: 2}}))
	if err != nil {
		t.Fatal(err)
	}
	if got != -3 {
		t.Errorf("Predict() = %v, want -3", got)
	}
}
