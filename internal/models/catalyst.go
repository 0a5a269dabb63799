package models

// ImpactLevel ranks how strongly a catalyst is expected to move its markets.
type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "LOW"
	ImpactMedium   ImpactLevel = "MEDIUM"
	ImpactHigh     ImpactLevel = "HIGH"
	ImpactVeryHigh ImpactLevel = "VERY_HIGH"
	ImpactExtreme  ImpactLevel = "EXTREME"
)

// Catalyst is a news or economic event record used to bias content toward
// current conditions. Catalysts are supplied wholesale each cycle and treated
// as read-only for the duration of that cycle.
type Catalyst struct {
	Title       string      `toml:"title" json:"title"`
	Description string      `toml:"description" json:"description"`
	Symbols     []string    `toml:"symbols" json:"symbols"` // Affected contract symbols
	Relevance   float64     `toml:"relevance" json:"relevance"`
	Impact      ImpactLevel `toml:"impact" json:"impact"`
	Type        string      `toml:"type" json:"type"` // e.g. MONETARY_POLICY, SUPPLY_DEMAND
}

// Affects reports whether the catalyst names the given contract symbol.
func (c Catalyst) Affects(symbol string) bool {
	for _, s := range c.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}
