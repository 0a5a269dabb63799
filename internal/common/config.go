package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Quotes      QuotesConfig    `toml:"quotes"`
	Content     ContentConfig   `toml:"content"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	LLM         LLMConfig       `toml:"llm"`
	Publisher   PublisherConfig `toml:"publisher"`
	Schedule    ScheduleConfig  `toml:"schedule"`

	Contracts []models.Contract `toml:"contracts"` // Instruments to cover each cycle
	Catalysts []models.Catalyst `toml:"catalysts"` // Curated catalyst feed records
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// QuotesConfig configures the market quote client and per-cycle fetch pacing.
type QuotesConfig struct {
	BaseURL        string `toml:"base_url"`
	Interval       string `toml:"interval"`        // Bar interval, e.g. "1h"
	Range          string `toml:"range"`           // Lookback range, e.g. "2d"
	RateLimit      int    `toml:"rate_limit"`      // Requests per second
	SymbolDelayMS  int    `toml:"symbol_delay_ms"` // Pause between sequential symbol fetches
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MinCloses      int    `toml:"min_closes"`    // Valid closes required before volatility/momentum compute
	SMAPeriod      int    `toml:"sma_period"`    // Momentum moving-average window
	CloseWindow    int    `toml:"close_window"`  // Closes considered per snapshot
	VolumeWindow   int    `toml:"volume_window"` // Volumes considered per snapshot
}

// ContentConfig drives strategy selection, generation and novelty filtering.
type ContentConfig struct {
	Mode                string  `toml:"mode" validate:"oneof=template generative"` // Generation mode
	MaxDailyPosts       int     `toml:"max_daily_posts" validate:"min=1"`
	MaxLength           int     `toml:"max_length"`           // Platform hard character limit
	NoveltyThreshold    int     `toml:"novelty_threshold"`    // Max shared significant words
	MinWordLength       int     `toml:"min_word_length"`      // Words at or below this length are ignored
	AttemptBudget       int     `toml:"attempt_budget"`       // Regeneration attempts before relaxation
	LookbackDays        int     `toml:"lookback_days"`        // Novelty and bias read-back window
	CatalystThreshold   float64 `toml:"catalyst_threshold"`   // Relevance needed for override eligibility
	CatalystProbability float64 `toml:"catalyst_probability"` // Chance the override fires when eligible
	MinBiasSamples      int     `toml:"min_bias_samples"`     // Engagement samples before bias applies
	Persona             string  `toml:"persona"`              // Persona description for generative prompts
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

// LLMConfig selects the generation provider.
type LLMConfig struct {
	Provider string `toml:"provider" validate:"oneof=claude gemini"` // "claude" or "gemini"
}

// PublisherConfig configures the social publish step.
type PublisherConfig struct {
	Mode           string `toml:"mode" validate:"oneof=dryrun live"` // "dryrun" or "live"
	BaseURL        string `toml:"base_url"`
	AccessToken    string `toml:"access_token"` // OAuth2 user-context token
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ScheduleConfig holds the cron trigger slots. Slot schedules use standard
// five-field cron syntax in local time.
type ScheduleConfig struct {
	PostSlots     []string `toml:"post_slots"`
	ResetSchedule string   `toml:"reset_schedule"` // Daily counter reset
	PruneSchedule string   `toml:"prune_schedule"` // Ledger retention sweep
}

// NewDefaultConfig returns the built-in configuration. Values mirror the
// agent's production profile: four futures contracts, ten posting slots
// spread across the trading day, and template-mode generation.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Quotes: QuotesConfig{
			BaseURL:        "https://query1.finance.yahoo.com",
			Interval:       "1h",
			Range:          "2d",
			RateLimit:      2,
			SymbolDelayMS:  300,
			TimeoutSeconds: 30,
			MinCloses:      10,
			SMAPeriod:      10,
			CloseWindow:    24,
			VolumeWindow:   10,
		},
		Content: ContentConfig{
			Mode:                "template",
			MaxDailyPosts:       10,
			MaxLength:           280,
			NoveltyThreshold:    2,
			MinWordLength:       4,
			AttemptBudget:       5,
			LookbackDays:        30,
			CatalystThreshold:   0.8,
			CatalystProbability: 0.3,
			MinBiasSamples:      3,
			Persona: "Professional futures day trader specializing in NQ, ES, GC and CL. " +
				"Direct, data-driven, no-bullshit educational insights on risk management, " +
				"trading psychology and market structure.",
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Timeout:     "60s",
			Temperature: 0.9,
			MaxTokens:   1024,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Timeout:     "60s",
			Temperature: 0.9,
		},
		LLM: LLMConfig{
			Provider: "claude",
		},
		Publisher: PublisherConfig{
			Mode:           "dryrun",
			BaseURL:        "https://api.twitter.com",
			TimeoutSeconds: 30,
		},
		Schedule: ScheduleConfig{
			PostSlots: []string{
				"0 6 * * *",   // Pre-market insight
				"30 7 * * *",  // Market open prep
				"0 9 * * *",   // Morning psychology
				"30 10 * * *", // Risk management
				"0 12 * * *",  // Midday technical tip
				"30 13 * * *", // Statistics insight
				"0 15 * * *",  // Market structure
				"30 16 * * *", // Psychology check
				"0 18 * * *",  // Day wrap insights
				"0 20 * * *",  // Tomorrow prep
			},
			ResetSchedule: "0 0 * * *",
			PruneSchedule: "5 0 * * *",
		},
		Contracts: []models.Contract{
			{Symbol: "NQ", Name: "NASDAQ", QuoteCode: "NQ=F", Multiplier: 20, TickSize: 0.25},
			{Symbol: "ES", Name: "E-mini S&P 500", QuoteCode: "ES=F", Multiplier: 50, TickSize: 0.25},
			{Symbol: "GC", Name: "Gold", QuoteCode: "GC=F", Multiplier: 100, TickSize: 0.10},
			{Symbol: "CL", Name: "Crude Oil", QuoteCode: "CL=F", Multiplier: 1000, TickSize: 0.01},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2
// -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TRADER_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("TRADER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("TRADER_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("TRADER_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if provider := os.Getenv("TRADER_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}

	if mode := os.Getenv("TRADER_CONTENT_MODE"); mode != "" {
		config.Content.Mode = mode
	}
	if maxPosts := os.Getenv("TRADER_MAX_DAILY_POSTS"); maxPosts != "" {
		if n, err := strconv.Atoi(maxPosts); err == nil {
			config.Content.MaxDailyPosts = n
		}
	}

	if mode := os.Getenv("TRADER_PUBLISH_MODE"); mode != "" {
		config.Publisher.Mode = mode
	}
	if token := os.Getenv("TWITTER_ACCESS_TOKEN"); token != "" {
		config.Publisher.AccessToken = token
	}
}

// Validate checks structural constraints and every cron schedule.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, slot := range c.Schedule.PostSlots {
		if err := ValidateSchedule(slot); err != nil {
			return fmt.Errorf("invalid post slot %q: %w", slot, err)
		}
	}
	if err := ValidateSchedule(c.Schedule.ResetSchedule); err != nil {
		return fmt.Errorf("invalid reset schedule: %w", err)
	}
	if err := ValidateSchedule(c.Schedule.PruneSchedule); err != nil {
		return fmt.Errorf("invalid prune schedule: %w", err)
	}

	if c.Publisher.Mode == "live" && c.Publisher.AccessToken == "" {
		return fmt.Errorf("publisher.access_token is required in live mode")
	}

	return nil
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("schedule is empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("failed to parse cron expression: %w", err)
	}
	return nil
}

// IsProduction returns true when running with a production profile.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
