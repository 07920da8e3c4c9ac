package models

import "time"

// LoadSnapshot is the latest operational load reported for one market.
type LoadSnapshot struct {
	MarketID               int       `json:"market_id"`
	TS                     time.Time `json:"ts"`
	TotalOnshiftPartners   int       `json:"total_onshift_partners"`
	TotalBusyPartners      int       `json:"total_busy_partners"`
	TotalOutstandingOrders int       `json:"total_outstanding_orders"`
}
