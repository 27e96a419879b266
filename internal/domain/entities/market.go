package entities

import "time"

// MarketPrice is one row of the market overview
type MarketPrice struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name,omitempty"`
	PriceUSD  string    `json:"priceUsd"`
	Change24h string    `json:"change24h,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
