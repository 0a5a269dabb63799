// Package market derives per-symbol quote metrics from raw OHLCV series.
package market

import (
	"math"

	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

const (
	// annualizationFactor scales hourly log-return dispersion to a yearly
	// volatility figure (trading-day convention).
	annualizationFactor = 252

	strongMomentumPct = 2.0
	mildMomentumPct   = 0.5
	activeRangeRatio  = 1.5

	srWindow = 10 // Bars considered for support/resistance levels
)

// SnapshotConfig bounds the windows used when deriving metrics.
type SnapshotConfig struct {
	MinCloses    int // Valid closes required before volatility/momentum compute
	SMAPeriod    int // Momentum moving-average window
	CloseWindow  int // Closes considered per snapshot
	VolumeWindow int // Volumes considered per snapshot
}

// DefaultSnapshotConfig matches the agent's production windows.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		MinCloses:    10,
		SMAPeriod:    10,
		CloseWindow:  24,
		VolumeWindow: 10,
	}
}

// ComputeMetrics normalizes a raw quote series into derived metrics for one
// symbol. With fewer than MinCloses valid closes the derived fields stay at
// their neutral defaults and the signal is UNKNOWN; the caller still gets a
// usable snapshot rather than an error.
func ComputeMetrics(symbol string, series *interfaces.QuoteSeries, cfg SnapshotConfig) models.QuoteMetrics {
	metrics := models.QuoteMetrics{
		Symbol:        symbol,
		Price:         series.CurrentPrice,
		PreviousClose: series.PreviousClose,
		VolumeRatio:   1,
		RangeRatio:    1,
		Signal:        models.TrendUnknown,
	}

	if series.PreviousClose != 0 {
		metrics.Change = series.CurrentPrice - series.PreviousClose
		metrics.ChangePercent = round(metrics.Change/series.PreviousClose*100, 2)
	}

	var closes, volumes []float64
	for _, bar := range series.Bars {
		if bar.Close > 0 {
			closes = append(closes, bar.Close)
		}
		if bar.Volume > 0 {
			volumes = append(volumes, bar.Volume)
		}
	}
	closes = tail(closes, cfg.CloseWindow)
	volumes = tail(volumes, cfg.VolumeWindow)

	// MinCloses may be zero in hand-edited configs; derived fields still
	// need at least one valid close.
	if len(closes) == 0 || len(closes) < cfg.MinCloses {
		return metrics
	}

	returns := logReturns(closes)
	if len(returns) > 0 {
		sumSquares := 0.0
		for _, r := range returns {
			sumSquares += r * r
		}
		metrics.Volatility = round(math.Sqrt(sumSquares/float64(len(returns)))*math.Sqrt(annualizationFactor)*100, 1)
	}

	// Average absolute bar-to-bar move, used to scale today's change.
	avgMove := 0.0
	for i := 1; i < len(closes); i++ {
		avgMove += math.Abs(closes[i] - closes[i-1])
	}
	avgMove /= float64(len(closes) - 1)
	if avgMove > 0 {
		metrics.RangeRatio = round(math.Abs(metrics.Change)/avgMove, 2)
	}

	if ma := sma(closes, cfg.SMAPeriod); ma > 0 {
		metrics.Momentum = round((series.CurrentPrice-ma)/ma*100, 2)
	}

	if len(volumes) > 5 {
		avgVolume := avg(volumes[:len(volumes)-1])
		if avgVolume > 0 {
			metrics.VolumeRatio = round(volumes[len(volumes)-1]/avgVolume, 2)
		}
	}

	recent := tail(closes, srWindow)
	metrics.Support = recent[0]
	metrics.Resistance = recent[0]
	for _, c := range recent {
		if c < metrics.Support {
			metrics.Support = c
		}
		if c > metrics.Resistance {
			metrics.Resistance = c
		}
	}

	metrics.Signal = classify(metrics.Momentum, metrics.RangeRatio)

	return metrics
}

// classify maps momentum and range activity onto a trend signal.
func classify(momentum, rangeRatio float64) models.TrendSignal {
	switch {
	case momentum > strongMomentumPct:
		return models.TrendStrongBullish
	case momentum < -strongMomentumPct:
		return models.TrendStrongBearish
	case momentum > mildMomentumPct && rangeRatio > activeRangeRatio:
		return models.TrendBullish
	case momentum < -mildMomentumPct && rangeRatio > activeRangeRatio:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}
