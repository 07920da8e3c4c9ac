package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	s, err := New([]string{"b", "a", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, s.Names())
	assert.Equal(t, 3, s.Len())

	i, ok := s.Index("a")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.Index("z")
	assert.False(t, ok)
}

func TestNewRejectsBadLists(t *testing.T) {
	tests := []struct {
		name  string
		names []string
	}{
		{"nil", nil},
		{"empty", []string{}},
		{"blank", []string{"a", "  "}},
		{"duplicate", []string{"a", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.names)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "err = %v", err)
		})
	}
}

func TestNamesReturnsCopy(t *testing.T) {
	s, err := New([]string{"a", "b"})
	require.NoError(t, err)
	names := s.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json list", "f.json", `["x", "y", "market_id_2"]`},
		{"yaml list", "f.yaml", "- x\n- y\n- market_id_2\n"},
		{"yaml mapping", "f.yaml", "features:\n  - x\n  - y\n  - market_id_2\n"},
		{"json mapping", "f.json", `{"features": ["x", "y", "market_id_2"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, []string{"x", "y", "market_id_2"}, s.Names())
		})
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"corrupt", func(t *testing.T) string { return writeFile(t, "f.json", "{[}") }},
		{"empty list", func(t *testing.T) string { return writeFile(t, "f.json", "[]") }},
		{"empty file", func(t *testing.T) string { return writeFile(t, "f.yaml", "") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, err := Load(path)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "err = %v", err)
			assert.Equal(t, path, cfgErr.Path)
		})
	}
}

func TestLoadTestdata(t *testing.T) {
	weekend, err := Load("../testdata/features_weekend.json")
	require.NoError(t, err)
	assert.Equal(t, 41, weekend.Len())

	rush, err := Load("../testdata/features_rush.yaml")
	require.NoError(t, err)
	assert.Equal(t, 35, rush.Len())
}
