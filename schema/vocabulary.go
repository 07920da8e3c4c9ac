package schema

import (
	"math"
	"strconv"
	"strings"
)

// Vocabulary is the closed set of category values per categorical field that
// the schema has an indicator column for. The reference category dropped at
// training time has no column and is therefore not part of it.
type Vocabulary struct {
	columns map[string]map[string]string // field -> normalized value -> column
	order   map[string][]string          // field -> values in schema order
}

func newVocabulary(s *Schema, fields []string) Vocabulary {
	v := Vocabulary{
		columns: make(map[string]map[string]string, len(fields)),
		order:   make(map[string][]string, len(fields)),
	}
	for _, field := range fields {
		v.columns[field] = map[string]string{}
	}
	for _, name := range s.names {
		for _, field := range fields {
			value, ok := strings.CutPrefix(name, field+"_")
			if !ok || value == "" {
				continue
			}
			key := normalizeValue(value)
			if _, seen := v.columns[field][key]; seen {
				continue
			}
			v.columns[field][key] = name
			v.order[field] = append(v.order[field], value)
		}
	}
	return v
}

// Column returns the indicator column for value, if the schema has one.
func (v Vocabulary) Column(field, value string) (string, bool) {
	col, ok := v.columns[field][normalizeValue(value)]
	return col, ok
}

// Values lists the known values for field in schema order.
func (v Vocabulary) Values(field string) []string {
	out := make([]string, len(v.order[field]))
	copy(out, v.order[field])
	return out
}

// normalizeValue makes integer categories match regardless of whether the
// training frame stored them as ints or floats ("3" vs "3.0").
func normalizeValue(value string) string {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return value
	}
	return strconv.FormatInt(int64(f), 10)
}
