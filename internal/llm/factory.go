package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/common"
	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
)

// NewService creates the configured LLM service. The provider is chosen by
// llm.provider in config ("claude" or "gemini").
func NewService(config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch config.LLM.Provider {
	case "claude", "":
		return NewClaudeService(&config.Claude, logger)
	case "gemini":
		return NewGeminiService(&config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.LLM.Provider)
	}
}
