package models

import "time"

// Strategy identifies a content archetype with a selection weight.
type Strategy string

const (
	StrategyPsychologyTruth   Strategy = "PSYCHOLOGY_TRUTH"
	StrategyEducationalThread Strategy = "EDUCATIONAL_THREAD"
	StrategyMindsetShift      Strategy = "MINDSET_SHIFT"
	StrategyRealityCheck      Strategy = "REALITY_CHECK"
	StrategyTradingWisdom     Strategy = "TRADING_WISDOM"
	StrategyCatalystReaction  Strategy = "CATALYST_REACTION"
)

// ViralPotential ranks a strategy's expected engagement ceiling. It feeds
// post scoring only, never selection.
type ViralPotential string

const (
	ViralHigh     ViralPotential = "HIGH"
	ViralVeryHigh ViralPotential = "VERY_HIGH"
	ViralExtreme  ViralPotential = "EXTREME"
)

// StrategyWeight pairs a strategy with its relative selection weight.
type StrategyWeight struct {
	Strategy Strategy       `toml:"strategy"`
	Weight   float64        `toml:"weight"`
	Viral    ViralPotential `toml:"viral"`
}

// DefaultStrategyTable is the built-in weighted strategy table.
func DefaultStrategyTable() []StrategyWeight {
	return []StrategyWeight{
		{Strategy: StrategyPsychologyTruth, Weight: 30, Viral: ViralExtreme},
		{Strategy: StrategyEducationalThread, Weight: 25, Viral: ViralVeryHigh},
		{Strategy: StrategyMindsetShift, Weight: 20, Viral: ViralHigh},
		{Strategy: StrategyRealityCheck, Weight: 15, Viral: ViralVeryHigh},
		{Strategy: StrategyTradingWisdom, Weight: 10, Viral: ViralHigh},
	}
}

// Format is the target length class of a post.
type Format string

const (
	FormatShort  Format = "SHORT"
	FormatMedium Format = "MEDIUM"
	FormatLong   Format = "LONG"
)

// Candidate is an unpersisted generated message awaiting novelty acceptance.
// It exists only within one posting cycle.
type Candidate struct {
	Text     string
	Strategy Strategy
	Format   Format
	Catalyst *Catalyst               // Set when catalyst-driven
	Metrics  map[string]QuoteMetrics // Snapshot used to produce the text
}

// PostRecord is the persisted unit of the posting ledger.
type PostRecord struct {
	ID             string    `badgerhold:"key" json:"id"`
	ExternalID     string    `json:"external_id,omitempty"`
	Content        string    `json:"content"`
	Strategy       Strategy  `json:"strategy"`
	Format         Format    `json:"format"`
	MarketContext  string    `json:"market_context"` // Serialized metrics/catalyst snapshot
	EngagementRate float64   `json:"engagement_rate"`
	ViralScore     int       `json:"viral_score"`
	PostedAt       time.Time `json:"posted_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its retention window.
func (r *PostRecord) Expired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

// StrategyStats aggregates ledger engagement per strategy for selector bias.
type StrategyStats struct {
	Strategy      Strategy
	SampleSize    int
	AvgEngagement float64
}
