package models

import "time"

// Estimate is the response for one delivery-time request. It is returned to
// the caller and published as an event; it is never stored.
type Estimate struct {
	ID           string             `json:"id"`
	TS           time.Time          `json:"ts"`
	Minutes      float64            `json:"minutes"`
	ModelVersion string             `json:"model_version"`
	Variant      string             `json:"variant"`
	MarketID     int                `json:"market_id"`
	Features     map[string]float64 `json:"features,omitempty"`
	Cached       bool               `json:"cached"`
}
