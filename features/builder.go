package features

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Variant selects the feature set a deployed model was trained on. A model
// artifact is tied to exactly one variant; formulas are never mixed.
type Variant string

const (
	// VariantWeekend derives calendar features from the full order timestamp.
	VariantWeekend Variant = "weekend"
	// VariantRush derives hour-of-day features and log transforms.
	VariantRush Variant = "rush"
)

const (
	rushHourStart = 10
	rushHourEnd   = 15
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantWeekend:
		return VariantWeekend, nil
	case VariantRush:
		return VariantRush, nil
	default:
		return "", fmt.Errorf("unknown feature variant %q", s)
	}
}

// Builder turns a RawOrder into DerivedFeatures. Implementations are pure and
// safe for concurrent use.
type Builder interface {
	Build(o RawOrder) (DerivedFeatures, error)
	Variant() Variant
}

func NewBuilder(v Variant) (Builder, error) {
	switch v {
	case VariantWeekend:
		return weekendBuilder{}, nil
	case VariantRush:
		return rushBuilder{}, nil
	default:
		return nil, fmt.Errorf("unknown feature variant %q", v)
	}
}

type weekendBuilder struct{}

func (weekendBuilder) Variant() Variant { return VariantWeekend }

func (b weekendBuilder) Build(o RawOrder) (DerivedFeatures, error) {
	if err := checkRaw(o); err != nil {
		return DerivedFeatures{}, err
	}
	if o.CreatedAt.IsZero() {
		return DerivedFeatures{}, &MissingFieldError{Field: FieldCreatedAt}
	}

	d := newDerivedFeatures(VariantWeekend, o)

	dayOfWeek := mondayIndex(o.CreatedAt)
	isWeekend := 0.0
	if dayOfWeek >= 5 {
		isWeekend = 1
	}
	loadRatio := ratio(o.TotalOutstandingOrders, o.TotalOnshiftPartners)

	d.set(FeatureOrderHour, float64(o.CreatedAt.Hour()))
	d.set(FeatureDayOfWeek, float64(dayOfWeek))
	d.set(FeatureIsWeekend, isWeekend)
	d.set(FeatureLoadRatio, loadRatio)
	d.set(FeatureBusyPartnersRatio, ratio(o.TotalBusyPartners, o.TotalOnshiftPartners))
	d.set(FeatureItemComplexity, ratio(o.NumDistinctItems, o.TotalItems))
	d.set(FeatureRushLoad, loadRatio*isWeekend)

	if err := d.validate(); err != nil {
		return DerivedFeatures{}, err
	}
	return *d, nil
}

type rushBuilder struct{}

func (rushBuilder) Variant() Variant { return VariantRush }

func (b rushBuilder) Build(o RawOrder) (DerivedFeatures, error) {
	if err := checkRaw(o); err != nil {
		return DerivedFeatures{}, err
	}

	var hour int
	switch {
	case o.OrderHour != nil:
		hour = *o.OrderHour
	case !o.CreatedAt.IsZero():
		hour = o.CreatedAt.Hour()
	default:
		return DerivedFeatures{}, &MissingFieldError{Field: FieldOrderHour}
	}
	if hour < 0 || hour > 23 {
		return DerivedFeatures{}, &NumericDomainError{Field: FieldOrderHour, Value: float64(hour)}
	}

	d := newDerivedFeatures(VariantRush, o)

	isRush := 0.0
	if hour >= rushHourStart && hour <= rushHourEnd {
		isRush = 1
	}
	loadRatio := ratio(o.TotalOutstandingOrders, o.TotalOnshiftPartners)

	d.set(FeatureOrderHour, float64(hour))
	d.set(FeatureIsRushHour, isRush)
	d.set(FeatureLoadRatio, loadRatio)
	d.set(FeatureItemComplexity, ratio(o.NumDistinctItems, o.TotalItems))
	d.set(FeatureRushLoad, loadRatio*isRush)
	d.set(FeatureValueDensity, ratio(o.Subtotal, o.TotalItems))
	d.set(FeatureLogSubtotal, math.Log1p(float64(o.Subtotal)))
	d.set(FeatureLogLoadRatio, math.Log1p(math.Max(loadRatio, 0)))

	if err := d.validate(); err != nil {
		return DerivedFeatures{}, err
	}
	return *d, nil
}

// ratio divides with +1 smoothing on the denominator, so a zero count never
// divides by zero.
func ratio(num, den int) float64 {
	return float64(num) / float64(den+1)
}

// mondayIndex returns the weekday with Monday=0 ... Sunday=6.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func checkRaw(o RawOrder) error {
	if o.StorePrimaryCategory == "" {
		return &MissingFieldError{Field: FieldStorePrimaryCategory}
	}
	if o.MarketID < 1 {
		return &NumericDomainError{Field: FieldMarketID, Value: float64(o.MarketID)}
	}
	if o.OrderProtocol < 1 {
		return &NumericDomainError{Field: FieldOrderProtocol, Value: float64(o.OrderProtocol)}
	}
	counts := []struct {
		name  string
		value int
	}{
		{FieldTotalItems, o.TotalItems},
		{FieldNumDistinctItems, o.NumDistinctItems},
		{FieldSubtotal, o.Subtotal},
		{FieldMinItemPrice, o.MinItemPrice},
		{FieldMaxItemPrice, o.MaxItemPrice},
		{FieldTotalOnshiftPartners, o.TotalOnshiftPartners},
		{FieldTotalBusyPartners, o.TotalBusyPartners},
		{FieldTotalOutstandingOrders, o.TotalOutstandingOrders},
	}
	for _, c := range counts {
		if c.value < 0 {
			return &NumericDomainError{Field: c.name, Value: float64(c.value)}
		}
	}
	return nil
}
