package model

import "time"

// Quote is the latest known price for a ticker as reported by the
// market data gateway.
type Quote struct {
	Ticker   string    `json:"ticker"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	AsOf     time.Time `json:"as_of"`
}

// Candle is one historical bar returned by the market data gateway.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PortfolioValuation summarizes the holdings of a single ticker priced
// at the latest close.
type PortfolioValuation struct {
	Ticker       string  `json:"ticker"`
	TotalShares  float64 `json:"total_shares"`
	AvgCost      float64 `json:"avg_cost,omitempty"`
	CurrentPrice float64 `json:"current_price,omitempty"`
	Equity       float64 `json:"equity,omitempty"`
	PnL          float64 `json:"pnl,omitempty"`
	ROIPercent   float64 `json:"roi_percent,omitempty"`
	Message      string  `json:"message,omitempty"`
}
