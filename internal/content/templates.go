package content

import (
	"fmt"
	"strings"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// Template pools per strategy. Entries may carry {SYMBOL_FIELD} tokens
// (e.g. {NQ_CHANGE}, {GC_VOL}) that are interpolated with live metric values
// when a snapshot for that symbol is present; tokens without data are left
// for neutral rewriting by stripUnresolved.
var templatePools = map[models.Strategy][]string{
	models.StrategyPsychologyTruth: {
		"Trading psychology tip: fear and greed are your biggest enemies in futures. The market rewards patience and discipline. #FuturesTrading #TradingPsychology",
		"Before you risk your capital, risk your ego. Losing trades are part of the game. Focus on process over profits. #NQ #ES #TradingMindset",
		"If you're checking your P&L every 5 minutes, you're trading with your emotions, not your strategy. Step back and trust your plan. #FuturesTrader",
		"Your biggest losses will come from revenge trading. When you're emotional, step away. The market will be here tomorrow. #RiskManagement #Futures",
		"Winners focus on risk management. Losers focus on being right. Which trader are you? #ES #NQ #TradingPsychology",
	},
	models.StrategyEducationalThread: {
		"Thread: position sizing reality. Most retail traders risk 5-10% per trade and wonder why they blow up. Professionals risk 0.25-0.5%. 20 losses at 5% risk = -64% account. At 0.5% = -9.5%. #RiskManagement #PositionSizing",
		"Thread: volume confirms price action. A breakout without volume is usually a fake-out. Watch the participation before you commit capital. #VolumeAnalysis #Futures",
		"Thread: expectancy formula. (Win% x avg win) - (loss% x avg loss) = your edge. If it's negative, stop trading immediately and go back to testing. #Expectancy #Futures",
	},
	models.StrategyMindsetShift: {
		"Stop trying to catch every move. Master one setup, one timeframe, one market first. Depth over breadth always wins. #FuturesTrading",
		"The best traders don't predict the market - they react to it. Stay flexible and adapt as conditions change. #GC #CL #TradingWisdom",
		"Your gut feeling is worth exactly $0. Your backtested data is worth everything. Trust the numbers, not emotions. #DataDriven #CL",
	},
	models.StrategyRealityCheck: {
		"Reality check: 90% of futures traders lose money. The 10% who win have a tested strategy and stick to it. #TradingStatistics #Futures",
		"If you can't handle a 5% drawdown, you're not ready for futures. Build your risk tolerance before building your account. #MES #MNQ",
		"It takes months to build an account and minutes to blow it up. Protect your capital like your survival depends on it, because it does. #Futures #ES #NQ",
		"60% win rate with avg loss > avg win still loses money. Mathematics runs the markets, not hope. #TradingMath #NQ #ES",
	},
	models.StrategyTradingWisdom: {
		"NQ at {NQ_PRICE} ({NQ_CHANGE}%). NQ and ES often diverge at key levels. Smart money knows which one to follow. Do you? #NQ #ES #MarketStructure",
		"Gold volatility at {GC_VOL}% vs normal 15-20%. High vol environments favor mean reversion over trend following. Context matters. #GC #VolatilityTrading",
		"Crude ({CL_CHANGE}%) is the most emotional futures market. News drives price more than technicals. Trade accordingly. #CL #MCL #Crude",
		"Watch the overnight session in futures. The real moves often happen while retail traders are sleeping. #FuturesTrading #Overnight",
		"Micro contracts let you trade with proper position sizing. Size matters more than ego. #MicroFutures #RiskManagement",
	},
	models.StrategyCatalystReaction: {
		"{CATALYST_TITLE}: {CATALYST_SYMBOLS} traders, this changes the game. {CATALYST_IMPLICATION}",
		"Catalyst watch - {CATALYST_TITLE}. {CATALYST_IMPLICATION} Position accordingly. #Futures",
	},
}

// TemplatePool returns the pool for a strategy, falling back to the default
// strategy's pool for unknown tags.
func TemplatePool(strategy models.Strategy) []string {
	if pool, ok := templatePools[strategy]; ok {
		return pool
	}
	return templatePools[DefaultStrategy]
}

// interpolate replaces {SYMBOL_FIELD} tokens with live metric values and
// catalyst fields when available.
func interpolate(text string, metrics map[string]models.QuoteMetrics, catalyst *models.Catalyst) string {
	var pairs []string
	for symbol, m := range metrics {
		pairs = append(pairs,
			"{"+symbol+"_PRICE}", fmt.Sprintf("%.2f", m.Price),
			"{"+symbol+"_CHANGE}", fmt.Sprintf("%+.2f", m.ChangePercent),
			"{"+symbol+"_VOL}", fmt.Sprintf("%.1f", m.Volatility),
			"{"+symbol+"_MOMENTUM}", fmt.Sprintf("%+.2f", m.Momentum),
		)
	}
	if catalyst != nil {
		pairs = append(pairs,
			"{CATALYST_TITLE}", catalyst.Title,
			"{CATALYST_SYMBOLS}", strings.Join(catalyst.Symbols, "/"),
			"{CATALYST_IMPLICATION}", catalyst.Description,
		)
	}
	if len(pairs) == 0 {
		return stripUnresolved(text)
	}
	return stripUnresolved(strings.NewReplacer(pairs...).Replace(text))
}

// stripUnresolved rewrites any leftover {TOKEN} markers to a neutral "n/a"
// so missing symbols never leak raw placeholders into a post.
func stripUnresolved(text string) string {
	for {
		start := strings.IndexByte(text, '{')
		if start < 0 {
			return text
		}
		end := strings.IndexByte(text[start:], '}')
		if end < 0 {
			return text
		}
		text = text[:start] + "n/a" + text[start+end+1:]
	}
}
