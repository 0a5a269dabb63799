package models

import "time"

// TrendSignal classifies the short-term trend derived from a symbol's quotes.
type TrendSignal string

const (
	TrendStrongBullish TrendSignal = "STRONG_BULLISH"
	TrendBullish       TrendSignal = "BULLISH"
	TrendNeutral       TrendSignal = "NEUTRAL"
	TrendBearish       TrendSignal = "BEARISH"
	TrendStrongBearish TrendSignal = "STRONG_BEARISH"
	TrendUnknown       TrendSignal = "UNKNOWN"
)

// Contract is immutable reference data for a tradable futures instrument.
type Contract struct {
	Symbol     string  `toml:"symbol"`     // Display symbol, e.g. "NQ"
	Name       string  `toml:"name"`       // Display name, e.g. "NASDAQ"
	QuoteCode  string  `toml:"quote_code"` // Quote-source code, e.g. "NQ=F"
	Multiplier float64 `toml:"multiplier"` // Dollar value per point
	TickSize   float64 `toml:"tick_size"`  // Minimum price increment
}

// Bar is one OHLCV sample in a quote series.
type Bar struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// QuoteMetrics holds the per-symbol derived metrics for one posting cycle.
// A snapshot is computed fresh each fetch and is immutable once built.
type QuoteMetrics struct {
	Symbol        string      `json:"symbol"`
	Price         float64     `json:"price"`
	PreviousClose float64     `json:"previous_close"`
	Change        float64     `json:"change"`
	ChangePercent float64     `json:"change_percent"`
	Volatility    float64     `json:"volatility"`   // Annualized, percent
	VolumeRatio   float64     `json:"volume_ratio"` // Latest volume / average volume
	RangeRatio    float64     `json:"range_ratio"`  // |change| / average bar-to-bar move
	Momentum      float64     `json:"momentum"`     // Percent vs short SMA
	Support       float64     `json:"support"`      // Recent low
	Resistance    float64     `json:"resistance"`   // Recent high
	Signal        TrendSignal `json:"signal"`
}

// Direction returns a compact direction marker for log and prompt output.
func (m QuoteMetrics) Direction() string {
	if m.Change >= 0 {
		return "up"
	}
	return "down"
}
