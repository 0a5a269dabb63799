package content

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// fakeLLM returns canned text or a provider error.
type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return f.text, f.err
}
func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func newTestGenerator(cfg GeneratorConfig, llm interfaces.LLMService) *Generator {
	return NewGenerator(cfg, llm, rand.New(rand.NewSource(11)), arbor.NewLogger())
}

func testMetrics() map[string]models.QuoteMetrics {
	return map[string]models.QuoteMetrics{
		"NQ": {Symbol: "NQ", Price: 20240, ChangePercent: 1.2, Volatility: 28.4, Signal: models.TrendBullish},
	}
}

func TestGenerate_TemplateModeDrawsFromPool(t *testing.T) {
	gen := newTestGenerator(GeneratorConfig{Mode: ModeTemplate, MaxLength: 280}, nil)

	sel := Selection{Strategy: models.StrategyRealityCheck}
	candidate := gen.Generate(context.Background(), sel, testMetrics())

	// Output must be one of the known pool members (the draw itself is
	// intentionally non-deterministic).
	pool := TemplatePool(models.StrategyRealityCheck)
	found := false
	for _, entry := range pool {
		if candidate.Text == interpolate(entry, testMetrics(), nil) {
			found = true
			break
		}
	}
	assert.True(t, found, "candidate %q not in strategy pool", candidate.Text)
	assert.Equal(t, models.StrategyRealityCheck, candidate.Strategy)
}

func TestGenerate_TruncatesAtLimit(t *testing.T) {
	raw := strings.Repeat("a", 301)
	gen := newTestGenerator(GeneratorConfig{Mode: ModeGenerative, MaxLength: 280}, &fakeLLM{text: raw})

	candidate := gen.Generate(context.Background(), Selection{Strategy: models.StrategyTradingWisdom}, nil)

	require.Len(t, candidate.Text, 280)
	assert.True(t, strings.HasSuffix(candidate.Text, "..."))
	assert.Equal(t, raw[:277]+"...", candidate.Text)
}

func TestGenerate_MultiByteTextCountsCharacters(t *testing.T) {
	// 100 chars but 400 bytes: well under the character limit, so no
	// truncation may occur.
	raw := strings.Repeat("📈", 100)
	gen := newTestGenerator(GeneratorConfig{Mode: ModeGenerative, MaxLength: 280}, &fakeLLM{text: raw})

	candidate := gen.Generate(context.Background(), Selection{Strategy: models.StrategyTradingWisdom}, nil)
	assert.Equal(t, raw, candidate.Text)
	assert.True(t, utf8.ValidString(candidate.Text))
}

func TestGenerate_MultiByteTruncationKeepsRuneBoundary(t *testing.T) {
	raw := strings.Repeat("📈", 300)
	gen := newTestGenerator(GeneratorConfig{Mode: ModeGenerative, MaxLength: 280}, &fakeLLM{text: raw})

	candidate := gen.Generate(context.Background(), Selection{Strategy: models.StrategyTradingWisdom}, nil)

	assert.Equal(t, 280, utf8.RuneCountInString(candidate.Text))
	assert.True(t, strings.HasSuffix(candidate.Text, "..."))
	assert.True(t, utf8.ValidString(candidate.Text))
	assert.Equal(t, strings.Repeat("📈", 277)+"...", candidate.Text)
}

func TestGenerate_AllCandidatesWithinLimit(t *testing.T) {
	gen := newTestGenerator(GeneratorConfig{Mode: ModeTemplate, MaxLength: 280}, nil)

	for _, strategy := range []models.Strategy{
		models.StrategyPsychologyTruth,
		models.StrategyEducationalThread,
		models.StrategyMindsetShift,
		models.StrategyRealityCheck,
		models.StrategyTradingWisdom,
	} {
		for i := 0; i < 50; i++ {
			c := gen.Generate(context.Background(), Selection{Strategy: strategy}, testMetrics())
			assert.LessOrEqual(t, len(c.Text), 280, "strategy %s", strategy)
		}
	}
}

func TestGenerate_ProviderErrorFallsBackToTemplate(t *testing.T) {
	gen := newTestGenerator(
		GeneratorConfig{Mode: ModeGenerative, MaxLength: 280},
		&fakeLLM{err: fmt.Errorf("provider unavailable")},
	)

	candidate := gen.Generate(context.Background(), Selection{Strategy: models.StrategyMindsetShift}, testMetrics())

	require.NotEmpty(t, candidate.Text)
	pool := TemplatePool(models.StrategyMindsetShift)
	found := false
	for _, entry := range pool {
		if candidate.Text == interpolate(entry, testMetrics(), nil) {
			found = true
			break
		}
	}
	assert.True(t, found, "fallback candidate must come from the template pool")
}

func TestGenerate_StripsWrappingQuotes(t *testing.T) {
	gen := newTestGenerator(GeneratorConfig{Mode: ModeGenerative, MaxLength: 280}, &fakeLLM{text: "\"Quoted post text\""})

	candidate := gen.Generate(context.Background(), Selection{Strategy: models.StrategyTradingWisdom}, nil)
	assert.Equal(t, "Quoted post text", candidate.Text)
}

func TestBuildPrompt_IncludesMarketContext(t *testing.T) {
	gen := newTestGenerator(GeneratorConfig{Mode: ModeGenerative, MaxLength: 280, Persona: "pro trader"}, nil)

	prompt := gen.buildPrompt(Selection{Strategy: models.StrategyRealityCheck}, testMetrics())
	assert.Contains(t, prompt, "NQ: $20240.00 (up +1.20%")
	assert.Contains(t, prompt, "Keep the post under 280 characters")
}

func TestGenerate_InterpolatesLiveMetrics(t *testing.T) {
	text := interpolate("NQ at {NQ_PRICE} ({NQ_CHANGE}%)", testMetrics(), nil)
	assert.Equal(t, "NQ at 20240.00 (+1.20%)", text)
}

func TestGenerate_UnresolvedTokensNeverLeak(t *testing.T) {
	text := interpolate("Gold volatility at {GC_VOL}% today", testMetrics(), nil)
	assert.NotContains(t, text, "{")
	assert.Contains(t, text, "n/a")
}

func TestClassifyFormat(t *testing.T) {
	assert.Equal(t, models.FormatShort, classifyFormat(strings.Repeat("x", 80)))
	assert.Equal(t, models.FormatMedium, classifyFormat(strings.Repeat("x", 150)))
	assert.Equal(t, models.FormatLong, classifyFormat(strings.Repeat("x", 250)))
}
