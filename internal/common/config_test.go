package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig_Valid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "template", config.Content.Mode)
	assert.Equal(t, 10, config.Content.MaxDailyPosts)
	assert.Equal(t, "dryrun", config.Publisher.Mode)
	assert.Len(t, config.Schedule.PostSlots, 10)
	assert.Len(t, config.Contracts, 4)
}

func TestLoadFromFiles_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trader-agent.toml")
	data := `
environment = "production"

[content]
mode = "generative"
max_daily_posts = 5

[publisher]
mode = "dryrun"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, "generative", config.Content.Mode)
	assert.Equal(t, 5, config.Content.MaxDailyPosts)
	// Untouched sections keep their defaults.
	assert.Equal(t, "1h", config.Quotes.Interval)
	assert.Equal(t, 280, config.Content.MaxLength)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	require.NoError(t, os.WriteFile(first, []byte("[content]\nmax_daily_posts = 3\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("[content]\nmax_daily_posts = 7\n"), 0o644))

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 7, config.Content.MaxDailyPosts)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/trader-agent.toml")
	require.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TRADER_MAX_DAILY_POSTS", "2")
	t.Setenv("TRADER_LOG_LEVEL", "debug")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 2, config.Content.MaxDailyPosts)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "sk-test", config.Claude.APIKey)
}

func TestValidate_RejectsBadCron(t *testing.T) {
	config := NewDefaultConfig()
	config.Schedule.PostSlots = append(config.Schedule.PostSlots, "99 99 * * *")
	require.Error(t, config.Validate())
}

func TestValidate_RejectsBadContentMode(t *testing.T) {
	config := NewDefaultConfig()
	config.Content.Mode = "freestyle"
	require.Error(t, config.Validate())
}

func TestValidate_LiveModeRequiresToken(t *testing.T) {
	config := NewDefaultConfig()
	config.Publisher.Mode = "live"
	require.Error(t, config.Validate())

	config.Publisher.AccessToken = "token"
	require.NoError(t, config.Validate())
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 6 * * *"))
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule(""))
	assert.Error(t, ValidateSchedule("not a cron"))
	assert.Error(t, ValidateSchedule("0 0 * *"))
}
