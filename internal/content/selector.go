// Package content implements the per-cycle selection, generation and
// novelty-filtering pipeline for posts.
package content

import (
	"math/rand"

	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// DefaultStrategy is the deterministic fallback when the weighted table is
// empty or its weights sum to zero.
const DefaultStrategy = models.StrategyTradingWisdom

// Selection is the outcome of one strategy draw.
type Selection struct {
	Strategy models.Strategy
	Catalyst *models.Catalyst // Set when the catalyst override fired
}

// SelectorConfig tunes the strategy draw.
type SelectorConfig struct {
	CatalystThreshold   float64 // Relevance needed before the override is considered
	CatalystProbability float64 // Chance the override fires when eligible
	MinBiasSamples      int     // Engagement samples required before the bias applies
}

// Selector picks the next content strategy from the weighted table, with a
// catalyst override and an advisory historical-performance bias.
type Selector struct {
	table  []models.StrategyWeight
	cfg    SelectorConfig
	rng    *rand.Rand
	logger arbor.ILogger
}

// NewSelector creates a strategy selector. The rng is injected so tests can
// seed the draw sequence.
func NewSelector(table []models.StrategyWeight, cfg SelectorConfig, rng *rand.Rand, logger arbor.ILogger) *Selector {
	return &Selector{
		table:  table,
		cfg:    cfg,
		rng:    rng,
		logger: logger,
	}
}

// Select picks the strategy for this cycle.
//
// Order of precedence:
//  1. A catalyst above the relevance threshold, gated by a coin flip, hard
//     overrides the table and binds the top such catalyst.
//  2. Sufficiently sampled engagement history prefers the best-performing
//     strategy. The bias is advisory: below the minimum sample it is skipped.
//  3. Cumulative-weight draw over the table.
func (s *Selector) Select(catalysts []models.Catalyst, stats []models.StrategyStats) Selection {
	if top := s.topCatalyst(catalysts); top != nil {
		if s.rng.Float64() < s.cfg.CatalystProbability {
			s.logger.Debug().
				Str("catalyst", top.Title).
				Float64("relevance", top.Relevance).
				Msg("Catalyst override selected")
			return Selection{Strategy: models.StrategyCatalystReaction, Catalyst: top}
		}
	}

	if best, ok := s.bestPerforming(stats); ok {
		s.logger.Debug().Str("strategy", string(best)).Msg("Performance bias selected")
		return Selection{Strategy: best}
	}

	return Selection{Strategy: s.weightedDraw()}
}

// topCatalyst returns the highest-relevance catalyst above the threshold.
// Catalyst feeds arrive relevance-descending, but this does not rely on it.
func (s *Selector) topCatalyst(catalysts []models.Catalyst) *models.Catalyst {
	var top *models.Catalyst
	for i := range catalysts {
		if catalysts[i].Relevance <= s.cfg.CatalystThreshold {
			continue
		}
		if top == nil || catalysts[i].Relevance > top.Relevance {
			top = &catalysts[i]
		}
	}
	return top
}

// bestPerforming returns the strategy with the highest average engagement,
// provided it has the minimum sample size and a nonzero average.
func (s *Selector) bestPerforming(stats []models.StrategyStats) (models.Strategy, bool) {
	var best models.Strategy
	bestAvg := 0.0
	for _, st := range stats {
		if st.SampleSize < s.cfg.MinBiasSamples {
			continue
		}
		if st.AvgEngagement > bestAvg {
			best = st.Strategy
			bestAvg = st.AvgEngagement
		}
	}
	return best, bestAvg > 0
}

// weightedDraw performs the cumulative-weight draw over the table. r is drawn
// in [0, totalWeight); the first entry whose cumulative weight crosses r wins.
func (s *Selector) weightedDraw() models.Strategy {
	total := 0.0
	for _, entry := range s.table {
		if entry.Weight > 0 {
			total += entry.Weight
		}
	}
	if total <= 0 {
		return DefaultStrategy
	}

	r := s.rng.Float64() * total
	for _, entry := range s.table {
		if entry.Weight <= 0 {
			continue
		}
		r -= entry.Weight
		if r < 0 {
			return entry.Strategy
		}
	}

	// Floating-point residue lands on the last weighted entry.
	for i := len(s.table) - 1; i >= 0; i-- {
		if s.table[i].Weight > 0 {
			return s.table[i].Strategy
		}
	}
	return DefaultStrategy
}
