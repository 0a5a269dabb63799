// Package catalysts supplies the ranked news/economic catalyst feed.
package catalysts

import (
	"context"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// MaxCatalysts caps the feed returned per cycle.
const MaxCatalysts = 20

// Service serves the curated catalyst records loaded from configuration.
// The feed fails open: any sourcing problem yields an empty list and content
// generation proceeds without catalyst context.
type Service struct {
	records []models.Catalyst
	logger  arbor.ILogger
}

// NewService creates a catalyst feed over the configured records.
func NewService(records []models.Catalyst, logger arbor.ILogger) *Service {
	return &Service{
		records: records,
		logger:  logger,
	}
}

// Current returns the catalyst list for this cycle, relevance descending,
// capped to MaxCatalysts.
func (s *Service) Current(ctx context.Context) []models.Catalyst {
	if len(s.records) == 0 {
		return nil
	}

	out := make([]models.Catalyst, len(s.records))
	copy(out, s.records)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})

	if len(out) > MaxCatalysts {
		out = out[:MaxCatalysts]
	}

	s.logger.Debug().Int("count", len(out)).Msg("Catalyst feed served")
	return out
}

// ForSymbol filters the current feed to catalysts affecting one contract.
func (s *Service) ForSymbol(ctx context.Context, symbol string) []models.Catalyst {
	var out []models.Catalyst
	for _, c := range s.Current(ctx) {
		if c.Affects(symbol) {
			out = append(out, c)
		}
	}
	return out
}
