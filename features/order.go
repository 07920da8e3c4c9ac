package features

import "time"

// Raw field names as they appear on the wire and in the trained model's schema.
const (
	FieldMarketID               = "market_id"
	FieldOrderProtocol          = "order_protocol"
	FieldStorePrimaryCategory   = "store_primary_category"
	FieldTotalItems             = "total_items"
	FieldNumDistinctItems       = "num_distinct_items"
	FieldSubtotal               = "subtotal"
	FieldMinItemPrice           = "min_item_price"
	FieldMaxItemPrice           = "max_item_price"
	FieldTotalOnshiftPartners   = "total_onshift_partners"
	FieldTotalBusyPartners      = "total_busy_partners"
	FieldTotalOutstandingOrders = "total_outstanding_orders"
	FieldCreatedAt              = "created_at"
	FieldOrderDate              = "order_date"
	FieldOrderTime              = "order_time"
	FieldOrderHour              = "order_hour"
)

const (
	orderDateLayout = "2006-01-02"
	orderTimeLayout = "15:04"
)

// CategoricalFields returns the fields that are dummy-encoded before alignment.
func CategoricalFields() []string {
	return []string{FieldMarketID, FieldOrderProtocol, FieldStorePrimaryCategory}
}

// RawOrder is one delivery order together with the operational load at the
// time it was placed.
type RawOrder struct {
	MarketID             int
	OrderProtocol        int
	StorePrimaryCategory string

	TotalItems       int
	NumDistinctItems int
	Subtotal         int
	MinItemPrice     int
	MaxItemPrice     int

	TotalOnshiftPartners   int
	TotalBusyPartners      int
	TotalOutstandingOrders int

	// CreatedAt is the order timestamp. The weekend variant requires it.
	CreatedAt time.Time
	// OrderHour overrides CreatedAt's hour for the rush variant when set.
	OrderHour *int
}

// OrderInput is the decoded form of a RawOrder as it arrives from a caller.
// Pointer fields distinguish "absent" from zero.
type OrderInput struct {
	MarketID             *int    `json:"market_id" yaml:"market_id" binding:"omitempty,min=1,max=6"`
	OrderProtocol        *int    `json:"order_protocol" yaml:"order_protocol" binding:"omitempty,min=1,max=7"`
	StorePrimaryCategory *string `json:"store_primary_category" yaml:"store_primary_category" binding:"omitempty,max=64"`

	TotalItems       *int `json:"total_items" yaml:"total_items" binding:"omitempty,min=1,max=50"`
	NumDistinctItems *int `json:"num_distinct_items" yaml:"num_distinct_items" binding:"omitempty,min=1,max=20"`
	Subtotal         *int `json:"subtotal" yaml:"subtotal" binding:"omitempty,min=0,max=50000"`
	MinItemPrice     *int `json:"min_item_price" yaml:"min_item_price" binding:"omitempty,min=0,max=50000"`
	MaxItemPrice     *int `json:"max_item_price" yaml:"max_item_price" binding:"omitempty,min=0,max=50000"`

	TotalOnshiftPartners   *int `json:"total_onshift_partners" yaml:"total_onshift_partners" binding:"omitempty,min=0,max=200"`
	TotalBusyPartners      *int `json:"total_busy_partners" yaml:"total_busy_partners" binding:"omitempty,min=0,max=200"`
	TotalOutstandingOrders *int `json:"total_outstanding_orders" yaml:"total_outstanding_orders" binding:"omitempty,min=0,max=300"`

	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	OrderDate string     `json:"order_date,omitempty" yaml:"order_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	OrderTime string     `json:"order_time,omitempty" yaml:"order_time,omitempty" binding:"omitempty,hhmm"`
	OrderHour *int       `json:"order_hour,omitempty" yaml:"order_hour,omitempty" binding:"omitempty,min=0,max=23"`
}

// RawOrder converts the input, failing with *MissingFieldError on the first
// absent required field. Timestamp presence is checked by the builder, since
// which timestamp form is required depends on the variant.
func (in OrderInput) RawOrder() (RawOrder, error) {
	var o RawOrder
	required := []struct {
		name string
		src  *int
		dst  *int
	}{
		{FieldMarketID, in.MarketID, &o.MarketID},
		{FieldOrderProtocol, in.OrderProtocol, &o.OrderProtocol},
		{FieldTotalItems, in.TotalItems, &o.TotalItems},
		{FieldNumDistinctItems, in.NumDistinctItems, &o.NumDistinctItems},
		{FieldSubtotal, in.Subtotal, &o.Subtotal},
		{FieldMinItemPrice, in.MinItemPrice, &o.MinItemPrice},
		{FieldMaxItemPrice, in.MaxItemPrice, &o.MaxItemPrice},
		{FieldTotalOnshiftPartners, in.TotalOnshiftPartners, &o.TotalOnshiftPartners},
		{FieldTotalBusyPartners, in.TotalBusyPartners, &o.TotalBusyPartners},
		{FieldTotalOutstandingOrders, in.TotalOutstandingOrders, &o.TotalOutstandingOrders},
	}
	for _, f := range required {
		if f.src == nil {
			return RawOrder{}, &MissingFieldError{Field: f.name}
		}
		*f.dst = *f.src
	}

	if in.StorePrimaryCategory == nil || *in.StorePrimaryCategory == "" {
		return RawOrder{}, &MissingFieldError{Field: FieldStorePrimaryCategory}
	}
	o.StorePrimaryCategory = *in.StorePrimaryCategory

	createdAt, err := in.timestamp()
	if err != nil {
		return RawOrder{}, err
	}
	o.CreatedAt = createdAt

	if in.OrderHour != nil {
		h := *in.OrderHour
		o.OrderHour = &h
	}
	return o, nil
}

// timestamp resolves created_at, falling back to order_date + order_time.
// A zero time means neither form was supplied.
func (in OrderInput) timestamp() (time.Time, error) {
	if in.CreatedAt != nil {
		return *in.CreatedAt, nil
	}
	if in.OrderDate == "" && in.OrderTime == "" {
		return time.Time{}, nil
	}
	if in.OrderDate == "" {
		return time.Time{}, &MissingFieldError{Field: FieldOrderDate}
	}
	if in.OrderTime == "" {
		return time.Time{}, &MissingFieldError{Field: FieldOrderTime}
	}

	day, err := time.Parse(orderDateLayout, in.OrderDate)
	if err != nil {
		return time.Time{}, &FieldFormatError{Field: FieldOrderDate, Value: in.OrderDate, Err: err}
	}
	clock, err := time.Parse(orderTimeLayout, in.OrderTime)
	if err != nil {
		return time.Time{}, &FieldFormatError{Field: FieldOrderTime, Value: in.OrderTime, Err: err}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}
