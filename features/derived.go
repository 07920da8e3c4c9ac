package features

import (
	"math"
	"strconv"
)

// Computed feature names.
const (
	FeatureOrderHour         = "order_hour"
	FeatureDayOfWeek         = "day_of_week"
	FeatureIsWeekend         = "is_weekend"
	FeatureIsRushHour        = "is_rush_hour"
	FeatureLoadRatio         = "load_ratio"
	FeatureBusyPartnersRatio = "busy_partners_ratio"
	FeatureItemComplexity    = "item_complexity"
	FeatureRushLoad          = "rush_load"
	FeatureValueDensity      = "value_density"
	FeatureLogSubtotal       = "log_subtotal"
	FeatureLogLoadRatio      = "log_load_ratio"
)

type Feature struct {
	Name  string
	Value float64
}

// DerivedFeatures is the numeric record produced from one RawOrder. Numeric
// features keep the order in which they were derived; categorical fields are
// kept as their string values until the aligner expands them.
type DerivedFeatures struct {
	variant     Variant
	numeric     []Feature
	index       map[string]int
	categorical map[string]string
}

func newDerivedFeatures(v Variant, o RawOrder) *DerivedFeatures {
	d := &DerivedFeatures{
		variant: v,
		index:   make(map[string]int, 20),
		categorical: map[string]string{
			FieldMarketID:             strconv.Itoa(o.MarketID),
			FieldOrderProtocol:        strconv.Itoa(o.OrderProtocol),
			FieldStorePrimaryCategory: o.StorePrimaryCategory,
		},
	}
	d.set(FieldTotalItems, float64(o.TotalItems))
	d.set(FieldNumDistinctItems, float64(o.NumDistinctItems))
	d.set(FieldSubtotal, float64(o.Subtotal))
	d.set(FieldMinItemPrice, float64(o.MinItemPrice))
	d.set(FieldMaxItemPrice, float64(o.MaxItemPrice))
	d.set(FieldTotalOnshiftPartners, float64(o.TotalOnshiftPartners))
	d.set(FieldTotalBusyPartners, float64(o.TotalBusyPartners))
	d.set(FieldTotalOutstandingOrders, float64(o.TotalOutstandingOrders))
	return d
}

func (d *DerivedFeatures) set(name string, value float64) {
	if i, ok := d.index[name]; ok {
		d.numeric[i].Value = value
		return
	}
	d.index[name] = len(d.numeric)
	d.numeric = append(d.numeric, Feature{Name: name, Value: value})
}

// validate rejects non-finite values so NaN never reaches the model.
func (d *DerivedFeatures) validate() error {
	for _, f := range d.numeric {
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			return &NumericDomainError{Field: f.Name, Value: f.Value}
		}
	}
	return nil
}

func (d DerivedFeatures) Variant() Variant { return d.variant }

// Get returns the numeric feature with the given name.
func (d DerivedFeatures) Get(name string) (float64, bool) {
	i, ok := d.index[name]
	if !ok {
		return 0, false
	}
	return d.numeric[i].Value, true
}

// Features returns a copy of the numeric features in derivation order.
func (d DerivedFeatures) Features() []Feature {
	out := make([]Feature, len(d.numeric))
	copy(out, d.numeric)
	return out
}

func (d DerivedFeatures) Names() []string {
	names := make([]string, len(d.numeric))
	for i, f := range d.numeric {
		names[i] = f.Name
	}
	return names
}

// Categorical returns the raw value of a categorical field.
func (d DerivedFeatures) Categorical(field string) (string, bool) {
	v, ok := d.categorical[field]
	return v, ok
}
