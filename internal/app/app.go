// Package app wires the services together and drives the scheduler.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/catalysts"
	"github.com/JDLondon7/twitter-trading-bot/internal/common"
	"github.com/JDLondon7/twitter-trading-bot/internal/content"
	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/llm"
	"github.com/JDLondon7/twitter-trading-bot/internal/market"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
	"github.com/JDLondon7/twitter-trading-bot/internal/publisher"
	"github.com/JDLondon7/twitter-trading-bot/internal/quotes"
	"github.com/JDLondon7/twitter-trading-bot/internal/scheduler"
	badgerstorage "github.com/JDLondon7/twitter-trading-bot/internal/storage/badger"
)

// App owns the wired services and the scheduler.
type App struct {
	config    *common.Config
	logger    arbor.ILogger
	storage   interfaces.StorageManager
	llm       interfaces.LLMService
	scheduler interfaces.SchedulerService
	cycle     *Cycle
	state     *scheduler.State
}

// New wires the application from configuration.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var llmService interfaces.LLMService
	if content.Mode(config.Content.Mode) == content.ModeGenerative {
		llmService, err = llm.NewService(config, logger)
		if err != nil {
			storageManager.Close()
			return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
		}
	}

	quoteClient := quotes.NewClient(
		quotes.WithBaseURL(config.Quotes.BaseURL),
		quotes.WithChartParams(config.Quotes.Interval, config.Quotes.Range),
		quotes.WithRateLimit(config.Quotes.RateLimit),
		quotes.WithHTTPClient(&http.Client{
			Timeout: time.Duration(config.Quotes.TimeoutSeconds) * time.Second,
		}),
		quotes.WithLogger(logger),
	)

	catalystFeed := catalysts.NewService(config.Catalysts, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	selector := content.NewSelector(
		models.DefaultStrategyTable(),
		content.SelectorConfig{
			CatalystThreshold:   config.Content.CatalystThreshold,
			CatalystProbability: config.Content.CatalystProbability,
			MinBiasSamples:      config.Content.MinBiasSamples,
		},
		rng,
		logger,
	)

	generator := content.NewGenerator(
		content.GeneratorConfig{
			Mode:      content.Mode(config.Content.Mode),
			MaxLength: config.Content.MaxLength,
			Persona:   config.Content.Persona,
		},
		llmService,
		rng,
		logger,
	)

	filter := content.NewNoveltyFilter(content.NoveltyConfig{
		OverlapThreshold: config.Content.NoveltyThreshold,
		MinWordLength:    config.Content.MinWordLength,
	})

	pub := publisher.New(
		interfaces.PublishMode(config.Publisher.Mode),
		config.Publisher.AccessToken,
		logger,
		publisher.WithBaseURL(config.Publisher.BaseURL),
		publisher.WithTimeout(time.Duration(config.Publisher.TimeoutSeconds)*time.Second),
	)

	state := scheduler.NewState(config.Content.MaxDailyPosts)

	cycle := NewCycle(CycleOptions{
		Contracts: config.Contracts,
		SnapshotCfg: market.SnapshotConfig{
			MinCloses:    config.Quotes.MinCloses,
			SMAPeriod:    config.Quotes.SMAPeriod,
			CloseWindow:  config.Quotes.CloseWindow,
			VolumeWindow: config.Quotes.VolumeWindow,
		},
		SymbolDelay:   time.Duration(config.Quotes.SymbolDelayMS) * time.Millisecond,
		Lookback:      time.Duration(config.Content.LookbackDays) * 24 * time.Hour,
		AttemptBudget: config.Content.AttemptBudget,
		Quotes:        quoteClient,
		Catalysts:     catalystFeed,
		Selector:      selector,
		Generator:     generator,
		Filter:        filter,
		Storage:       storageManager.PostStorage(),
		Publisher:     pub,
		State:         state,
		Logger:        logger,
	})

	return &App{
		config:    config,
		logger:    logger,
		storage:   storageManager,
		llm:       llmService,
		scheduler: scheduler.NewService(logger),
		cycle:     cycle,
		state:     state,
	}, nil
}

// Start runs the startup retention sweep, registers the cron jobs and
// starts the scheduler.
func (a *App) Start(ctx context.Context) error {
	if deleted, err := a.storage.PostStorage().Prune(time.Now()); err != nil {
		a.logger.Warn().Err(err).Msg("Startup prune failed")
	} else if deleted > 0 {
		a.logger.Info().Int("deleted", deleted).Msg("Startup prune complete")
	}

	for i, slot := range a.config.Schedule.PostSlots {
		name := fmt.Sprintf("post-slot-%02d", i+1)
		if err := a.scheduler.RegisterDaily(name, slot, func() {
			a.cycle.Run(ctx)
		}); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}

	if err := a.scheduler.RegisterDaily("daily-reset", a.config.Schedule.ResetSchedule, func() {
		a.state.Reset()
		a.logger.Info().Msg("Daily counters reset")
	}); err != nil {
		return fmt.Errorf("failed to register daily reset: %w", err)
	}

	if err := a.scheduler.RegisterDaily("retention-prune", a.config.Schedule.PruneSchedule, func() {
		if _, err := a.storage.PostStorage().Prune(time.Now()); err != nil {
			a.logger.Warn().Err(err).Msg("Scheduled prune failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to register retention prune: %w", err)
	}

	if err := a.scheduler.Start(); err != nil {
		return err
	}

	a.logger.Info().
		Int("post_slots", len(a.config.Schedule.PostSlots)).
		Int("max_daily_posts", a.config.Content.MaxDailyPosts).
		Str("mode", a.config.Content.Mode).
		Str("publish_mode", a.config.Publisher.Mode).
		Msg("Trader agent started")

	return nil
}

// RunOnce executes a single posting cycle immediately. Used by the -once
// flag for manual runs and smoke tests.
func (a *App) RunOnce(ctx context.Context) {
	a.cycle.Run(ctx)
}

// Stop shuts the scheduler and releases resources.
func (a *App) Stop() error {
	if err := a.scheduler.Stop(); err != nil {
		a.logger.Warn().Err(err).Msg("Scheduler stop failed")
	}
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("LLM service close failed")
		}
	}
	return a.storage.Close()
}
