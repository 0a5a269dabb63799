package interfaces

import (
	"context"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// QuoteSeries is the raw payload returned by a quote source for one symbol.
type QuoteSeries struct {
	Symbol        string
	CurrentPrice  float64
	PreviousClose float64
	Bars          []models.Bar
}

// QuoteProvider fetches a quote series for a single instrument. A failed
// fetch surfaces as a typed error; callers skip that symbol for the cycle.
type QuoteProvider interface {
	GetChart(ctx context.Context, quoteCode string) (*QuoteSeries, error)
}
