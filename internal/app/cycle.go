package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/catalysts"
	"github.com/JDLondon7/twitter-trading-bot/internal/content"
	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/market"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
	"github.com/JDLondon7/twitter-trading-bot/internal/publisher"
	"github.com/JDLondon7/twitter-trading-bot/internal/quotes"
	"github.com/JDLondon7/twitter-trading-bot/internal/scheduler"
)

// Cycle executes one scheduled posting attempt: fetch quotes, select a
// strategy, generate and filter a candidate, record it, publish it. No
// failure inside a cycle may crash the process; the worst case is that
// nothing gets posted this slot.
type Cycle struct {
	contracts     []models.Contract
	snapshotCfg   market.SnapshotConfig
	symbolDelay   time.Duration
	lookback      time.Duration
	attemptBudget int

	quotes    interfaces.QuoteProvider
	catalysts *catalysts.Service
	selector  *content.Selector
	generator *content.Generator
	filter    *content.NoveltyFilter
	storage   interfaces.PostStorage
	publisher interfaces.Publisher
	state     *scheduler.State
	logger    arbor.ILogger
}

// CycleOptions collects the collaborators of a posting cycle.
type CycleOptions struct {
	Contracts     []models.Contract
	SnapshotCfg   market.SnapshotConfig
	SymbolDelay   time.Duration
	Lookback      time.Duration
	AttemptBudget int

	Quotes    interfaces.QuoteProvider
	Catalysts *catalysts.Service
	Selector  *content.Selector
	Generator *content.Generator
	Filter    *content.NoveltyFilter
	Storage   interfaces.PostStorage
	Publisher interfaces.Publisher
	State     *scheduler.State
	Logger    arbor.ILogger
}

// NewCycle creates a posting cycle.
func NewCycle(opts CycleOptions) *Cycle {
	if opts.AttemptBudget <= 0 {
		opts.AttemptBudget = 5
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 30 * 24 * time.Hour
	}
	return &Cycle{
		contracts:     opts.Contracts,
		snapshotCfg:   opts.SnapshotCfg,
		symbolDelay:   opts.SymbolDelay,
		lookback:      opts.Lookback,
		attemptBudget: opts.AttemptBudget,
		quotes:        opts.Quotes,
		catalysts:     opts.Catalysts,
		selector:      opts.Selector,
		generator:     opts.Generator,
		filter:        opts.Filter,
		storage:       opts.Storage,
		publisher:     opts.Publisher,
		state:         opts.State,
		logger:        opts.Logger,
	}
}

// Run executes one posting cycle.
func (c *Cycle) Run(ctx context.Context) {
	if !c.state.CanPost() {
		c.logger.Info().
			Int("daily_count", c.state.DailyCount()).
			Msg("Daily post limit reached, skipping cycle")
		return
	}

	metrics := c.fetchMetrics(ctx)
	cats := c.catalysts.Current(ctx)

	stats, err := c.storage.StrategyPerformance(c.lookback)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read strategy performance, bias skipped")
		stats = nil
	}

	recent, err := c.storage.RecentPosts(c.lookback)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read recent posts, novelty window empty")
		recent = nil
	}

	selection := c.selector.Select(cats, stats)

	candidate, accepted := c.generateNovel(ctx, selection, metrics, recent)
	if !accepted {
		c.logger.Warn().
			Str("strategy", string(candidate.Strategy)).
			Int("attempts", c.attemptBudget).
			Msg("Novelty attempts exhausted, accepting last candidate")
	}

	record := c.buildRecord(candidate)
	if err := c.storage.SavePost(record); err != nil {
		// Storage failures are swallowed: the post still goes out.
		c.logger.Error().Err(err).Msg("Failed to save post to ledger")
	}

	c.state.Increment()
	c.state.Add(candidate.Text)

	c.logger.Info().
		Str("strategy", string(candidate.Strategy)).
		Str("format", string(candidate.Format)).
		Int("daily_count", c.state.DailyCount()).
		Str("content", candidate.Text).
		Msg("Post recorded")

	externalID, err := c.publisher.Publish(ctx, candidate.Text)
	if err != nil {
		c.logPublishFailure(err)
		return
	}

	if record.ID != "" {
		if err := c.storage.AttachExternalID(record.ID, externalID); err != nil {
			c.logger.Warn().Err(err).Str("id", record.ID).Msg("Failed to attach external id")
		}
	}
}

// fetchMetrics fetches each contract sequentially with a fixed inter-symbol
// delay. A failed symbol is skipped, never fatal to the cycle.
func (c *Cycle) fetchMetrics(ctx context.Context) map[string]models.QuoteMetrics {
	metrics := make(map[string]models.QuoteMetrics)

	for i, contract := range c.contracts {
		if i > 0 && c.symbolDelay > 0 {
			time.Sleep(c.symbolDelay)
		}

		series, err := c.quotes.GetChart(ctx, contract.QuoteCode)
		if err != nil {
			var unavailable *quotes.DataUnavailableError
			if errors.As(err, &unavailable) {
				c.logger.Warn().
					Str("symbol", contract.Symbol).
					Err(err).
					Msg("Quote data unavailable, skipping symbol")
			} else {
				c.logger.Warn().
					Str("symbol", contract.Symbol).
					Err(err).
					Msg("Quote fetch failed, skipping symbol")
			}
			continue
		}

		metrics[contract.Symbol] = market.ComputeMetrics(contract.Symbol, series, c.snapshotCfg)
	}

	return metrics
}

// generateNovel regenerates until the filter accepts or the attempt budget
// is exhausted. After exhaustion the last candidate is accepted regardless
// so the pipeline never stalls; the duplicate risk is a known trade-off.
func (c *Cycle) generateNovel(ctx context.Context, sel content.Selection, metrics map[string]models.QuoteMetrics, recent []*models.PostRecord) (models.Candidate, bool) {
	var candidate models.Candidate
	for attempt := 0; attempt < c.attemptBudget; attempt++ {
		candidate = c.generator.Generate(ctx, sel, metrics)
		if c.state.Contains(candidate.Text) {
			continue
		}
		if c.filter.Accept(candidate, recent) {
			return candidate, true
		}
	}
	return candidate, false
}

// buildRecord serializes the candidate's context snapshot into a ledger
// record.
func (c *Cycle) buildRecord(candidate models.Candidate) *models.PostRecord {
	contextJSON, err := json.Marshal(struct {
		Metrics  map[string]models.QuoteMetrics `json:"metrics"`
		Catalyst *models.Catalyst               `json:"catalyst,omitempty"`
	}{
		Metrics:  candidate.Metrics,
		Catalyst: candidate.Catalyst,
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to serialize market context")
		contextJSON = []byte("{}")
	}

	return &models.PostRecord{
		Content:       candidate.Text,
		Strategy:      candidate.Strategy,
		Format:        candidate.Format,
		MarketContext: string(contextJSON),
	}
}

// logPublishFailure logs a typed publish failure. The record keeps an unset
// external id; no retry happens within the cycle.
func (c *Cycle) logPublishFailure(err error) {
	var authErr *publisher.AuthError
	var rateErr *publisher.RateLimitedError
	var netErr *publisher.NetworkError

	switch {
	case errors.As(err, &authErr):
		c.logger.Error().Err(err).Msg("Publish rejected: auth error")
	case errors.As(err, &rateErr):
		c.logger.Warn().
			Dur("retry_after", rateErr.RetryAfter).
			Msg("Publish rate limited")
	case errors.As(err, &netErr):
		c.logger.Warn().Err(err).Msg("Publish network error")
	default:
		c.logger.Warn().Err(err).Msg("Publish failed")
	}
}
