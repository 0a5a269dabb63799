package content

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

func newTestSelector(table []models.StrategyWeight, cfg SelectorConfig, seed int64) *Selector {
	return NewSelector(table, cfg, rand.New(rand.NewSource(seed)), arbor.NewLogger())
}

func defaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		CatalystThreshold:   0.8,
		CatalystProbability: 0.3,
		MinBiasSamples:      3,
	}
}

func TestSelect_WeightedDistribution(t *testing.T) {
	table := []models.StrategyWeight{
		{Strategy: models.StrategyRealityCheck, Weight: 25},
		{Strategy: "MARKET_OBSERVATION", Weight: 30},
		{Strategy: "EDUCATIONAL", Weight: 20},
		{Strategy: "PSYCHOLOGY", Weight: 15},
		{Strategy: "RISK", Weight: 10},
	}
	selector := newTestSelector(table, defaultSelectorConfig(), 42)

	const draws = 10000
	counts := make(map[models.Strategy]int)
	for i := 0; i < draws; i++ {
		sel := selector.Select(nil, nil)
		require.Nil(t, sel.Catalyst, "no catalysts above threshold, override must never fire")
		require.NotEqual(t, models.StrategyCatalystReaction, sel.Strategy)
		counts[sel.Strategy]++
	}

	expected := map[models.Strategy]float64{
		models.StrategyRealityCheck: 0.25,
		"MARKET_OBSERVATION":        0.30,
		"EDUCATIONAL":               0.20,
		"PSYCHOLOGY":                0.15,
		"RISK":                      0.10,
	}
	for strategy, want := range expected {
		got := float64(counts[strategy]) / draws
		assert.InDelta(t, want, got, 0.02, "strategy %s frequency", strategy)
	}
}

func TestSelect_EmptyTableFallsBackToDefault(t *testing.T) {
	selector := newTestSelector(nil, defaultSelectorConfig(), 1)

	sel := selector.Select(nil, nil)
	assert.Equal(t, DefaultStrategy, sel.Strategy)
}

func TestSelect_ZeroWeightsFallBackToDefault(t *testing.T) {
	table := []models.StrategyWeight{
		{Strategy: models.StrategyRealityCheck, Weight: 0},
		{Strategy: models.StrategyMindsetShift, Weight: 0},
	}
	selector := newTestSelector(table, defaultSelectorConfig(), 1)

	sel := selector.Select(nil, nil)
	assert.Equal(t, DefaultStrategy, sel.Strategy)
}

func TestSelect_CatalystOverride(t *testing.T) {
	table := models.DefaultStrategyTable()
	cfg := defaultSelectorConfig()
	cfg.CatalystProbability = 1.0 // Always fire when eligible

	selector := newTestSelector(table, cfg, 7)

	catalysts := []models.Catalyst{
		{Title: "CPI print", Relevance: 0.7},
		{Title: "Fed decision", Relevance: 0.95},
		{Title: "OPEC meeting", Relevance: 0.9},
	}

	sel := selector.Select(catalysts, nil)
	require.NotNil(t, sel.Catalyst)
	assert.Equal(t, models.StrategyCatalystReaction, sel.Strategy)
	assert.Equal(t, "Fed decision", sel.Catalyst.Title, "binds the top eligible catalyst")
}

func TestSelect_CatalystBelowThresholdNeverOverrides(t *testing.T) {
	cfg := defaultSelectorConfig()
	cfg.CatalystProbability = 1.0

	selector := newTestSelector(models.DefaultStrategyTable(), cfg, 7)
	catalysts := []models.Catalyst{{Title: "Minor data", Relevance: 0.5}}

	for i := 0; i < 100; i++ {
		sel := selector.Select(catalysts, nil)
		assert.NotEqual(t, models.StrategyCatalystReaction, sel.Strategy)
	}
}

func TestSelect_PerformanceBias(t *testing.T) {
	selector := newTestSelector(models.DefaultStrategyTable(), defaultSelectorConfig(), 3)

	stats := []models.StrategyStats{
		{Strategy: models.StrategyRealityCheck, SampleSize: 5, AvgEngagement: 4.2},
		{Strategy: models.StrategyTradingWisdom, SampleSize: 8, AvgEngagement: 1.1},
		{Strategy: models.StrategyMindsetShift, SampleSize: 2, AvgEngagement: 9.9}, // Under-sampled
	}

	sel := selector.Select(nil, stats)
	assert.Equal(t, models.StrategyRealityCheck, sel.Strategy)
}

func TestSelect_BiasSkippedWithoutSamples(t *testing.T) {
	selector := newTestSelector(models.DefaultStrategyTable(), defaultSelectorConfig(), 3)

	stats := []models.StrategyStats{
		{Strategy: models.StrategyRealityCheck, SampleSize: 1, AvgEngagement: 4.2},
	}

	// Falls through to the weighted draw; over many draws every table entry
	// must appear.
	seen := make(map[models.Strategy]bool)
	for i := 0; i < 2000; i++ {
		seen[selector.Select(nil, stats).Strategy] = true
	}
	for _, entry := range models.DefaultStrategyTable() {
		assert.True(t, seen[entry.Strategy], "strategy %s never drawn", entry.Strategy)
	}
}
