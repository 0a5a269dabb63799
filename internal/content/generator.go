package content

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// Mode selects how candidates are produced.
type Mode string

const (
	// ModeTemplate draws uniformly from the static strategy pools.
	ModeTemplate Mode = "template"
	// ModeGenerative builds a persona prompt and calls the LLM, falling back
	// to template mode on provider failure.
	ModeGenerative Mode = "generative"
)

// GeneratorConfig tunes candidate production.
type GeneratorConfig struct {
	Mode      Mode
	MaxLength int    // Platform hard character limit
	Persona   string // Persona description embedded in generative prompts
}

// Generator renders a candidate message for a chosen strategy.
type Generator struct {
	cfg    GeneratorConfig
	llm    interfaces.LLMService // Nil in template-only deployments
	rng    *rand.Rand
	logger arbor.ILogger
}

// NewGenerator creates a content generator. llm may be nil when cfg.Mode is
// ModeTemplate.
func NewGenerator(cfg GeneratorConfig, llm interfaces.LLMService, rng *rand.Rand, logger arbor.ILogger) *Generator {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 280
	}
	return &Generator{
		cfg:    cfg,
		llm:    llm,
		rng:    rng,
		logger: logger,
	}
}

// Generate produces a candidate for the selection. Generation failure is
// never fatal: generative-mode provider errors fall back to the template
// pool for the cycle.
func (g *Generator) Generate(ctx context.Context, sel Selection, metrics map[string]models.QuoteMetrics) models.Candidate {
	var text string

	if g.cfg.Mode == ModeGenerative && g.llm != nil {
		generated, err := g.generateWithLLM(ctx, sel, metrics)
		if err != nil {
			g.logger.Warn().Err(err).
				Str("strategy", string(sel.Strategy)).
				Msg("LLM generation failed, falling back to template pool")
		} else {
			text = generated
		}
	}

	if text == "" {
		text = g.fromTemplate(sel, metrics)
	}

	text = g.postProcess(text)

	return models.Candidate{
		Text:     text,
		Strategy: sel.Strategy,
		Format:   classifyFormat(text),
		Catalyst: sel.Catalyst,
		Metrics:  metrics,
	}
}

// fromTemplate draws uniformly from the strategy's pool and interpolates
// live metric values. The draw is intentionally non-deterministic.
func (g *Generator) fromTemplate(sel Selection, metrics map[string]models.QuoteMetrics) string {
	pool := TemplatePool(sel.Strategy)
	raw := pool[g.rng.Intn(len(pool))]
	return interpolate(raw, metrics, sel.Catalyst)
}

// generateWithLLM builds the persona prompt and performs one generation call.
func (g *Generator) generateWithLLM(ctx context.Context, sel Selection, metrics map[string]models.QuoteMetrics) (string, error) {
	prompt := g.buildPrompt(sel, metrics)

	text, err := g.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: g.cfg.Persona},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("generation returned empty text")
	}
	return text, nil
}

// buildPrompt embeds the current metrics summary and strategy-specific
// instructions.
func (g *Generator) buildPrompt(sel Selection, metrics map[string]models.QuoteMetrics) string {
	var b strings.Builder

	b.WriteString("Current market context:\n")
	symbols := make([]string, 0, len(metrics))
	for s := range metrics {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		m := metrics[s]
		fmt.Fprintf(&b, "%s: $%.2f (%s %+.2f%%, vol: %.1f%%, momentum: %+.2f%%, signal: %s)\n",
			s, m.Price, m.Direction(), m.ChangePercent, m.Volatility, m.Momentum, m.Signal)
	}

	if sel.Catalyst != nil {
		fmt.Fprintf(&b, "\nActive catalyst: %s - %s (impact: %s)\n",
			sel.Catalyst.Title, sel.Catalyst.Description, sel.Catalyst.Impact)
	}

	b.WriteString("\n")
	b.WriteString(strategyInstruction(sel.Strategy))
	fmt.Fprintf(&b, " Keep the post under %d characters. Return only the post text.", g.cfg.MaxLength)

	return b.String()
}

func strategyInstruction(strategy models.Strategy) string {
	switch strategy {
	case models.StrategyPsychologyTruth:
		return "Write a trading psychology reality check that challenges how retail futures traders think about emotions and discipline."
	case models.StrategyEducationalThread:
		return "Write the opening post of an educational thread teaching one transformational concept about risk management or position sizing, with specific numbers."
	case models.StrategyMindsetShift:
		return "Write a post that challenges conventional trading thinking and offers a sharper professional framing."
	case models.StrategyRealityCheck:
		return "Write a hard truth about futures trading backed by a specific statistic or percentage."
	case models.StrategyCatalystReaction:
		return "Write a reaction to the active catalyst explaining what it means for the affected futures contracts."
	default:
		return "Write a professional futures trading insight grounded in the market context above."
	}
}

// postProcess strips wrapping quotes and enforces the hard length cap, with
// an ellipsis marker on truncation. The cap counts characters, not bytes,
// so multi-byte output is never cut mid-rune.
func (g *Generator) postProcess(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\"'")

	if utf8.RuneCountInString(text) > g.cfg.MaxLength {
		runes := []rune(text)
		text = string(runes[:g.cfg.MaxLength-3]) + "..."
	}
	return text
}

// classifyFormat buckets a post into its length class.
func classifyFormat(text string) models.Format {
	switch n := utf8.RuneCountInString(text); {
	case n <= 100:
		return models.FormatShort
	case n <= 200:
		return models.FormatMedium
	default:
		return models.FormatLong
	}
}
