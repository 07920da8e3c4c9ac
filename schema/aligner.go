package schema

import (
	"delivery-eta-api/features"

	"gonum.org/v1/gonum/mat"
)

// Column is one named value produced by categorical expansion.
type Column struct {
	Name  string
	Value float64
}

// Record is a feature record laid out exactly as the schema: same names, same
// order.
type Record struct {
	names  []string
	values []float64
}

func (r Record) Len() int { return len(r.values) }

func (r Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r Record) Values() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

func (r Record) Get(name string) (float64, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return 0, false
}

// Vector returns the values as a gonum vector backed by a fresh slice.
func (r Record) Vector() *mat.VecDense {
	return mat.NewVecDense(len(r.values), r.Values())
}

// Aligner dummy-encodes categorical fields and reindexes the result against a
// fixed schema. It holds no per-request state.
type Aligner struct {
	schema *Schema
	fields []string
	vocab  Vocabulary
}

func NewAligner(s *Schema) (*Aligner, error) {
	if s == nil || s.Len() == 0 {
		return nil, &ConfigurationError{Artifact: artifactName, Err: errEmptySchema}
	}
	fields := features.CategoricalFields()
	return &Aligner{
		schema: s,
		fields: fields,
		vocab:  newVocabulary(s, fields),
	}, nil
}

func (a *Aligner) Schema() *Schema { return a.schema }

func (a *Aligner) Vocabulary() Vocabulary { return a.vocab }

// Expand replaces each categorical field with a single indicator column named
// <field>_<value>. Values the schema knows resolve to the schema's spelling of
// the column; the dropped reference category and unseen values keep the raw
// spelling and fall away in Reindex.
func (a *Aligner) Expand(d features.DerivedFeatures) []Column {
	numeric := d.Features()
	cols := make([]Column, 0, len(numeric)+len(a.fields))
	for _, f := range numeric {
		cols = append(cols, Column{Name: f.Name, Value: f.Value})
	}
	for _, field := range a.fields {
		value, ok := d.Categorical(field)
		if !ok {
			continue
		}
		name, known := a.vocab.Column(field, value)
		if !known {
			name = field + "_" + value
		}
		cols = append(cols, Column{Name: name, Value: 1})
	}
	return cols
}

// Reindex lays cols out in schema order. Schema columns with no value are 0;
// columns the schema does not name are dropped.
func (a *Aligner) Reindex(cols []Column) Record {
	values := make([]float64, a.schema.Len())
	for _, c := range cols {
		if i, ok := a.schema.Index(c.Name); ok {
			values[i] = c.Value
		}
	}
	return Record{names: a.schema.names, values: values}
}

func (a *Aligner) Align(d features.DerivedFeatures) Record {
	return a.Reindex(a.Expand(d))
}

// Dropped lists the expanded columns that the schema has no place for.
func (a *Aligner) Dropped(d features.DerivedFeatures) []string {
	var dropped []string
	for _, c := range a.Expand(d) {
		if _, ok := a.schema.Index(c.Name); !ok {
			dropped = append(dropped, c.Name)
		}
	}
	return dropped
}
