package content

import (
	"strings"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// NoveltyConfig bounds the lexical-overlap duplicate check.
type NoveltyConfig struct {
	OverlapThreshold int // Reject above this many shared significant words
	MinWordLength    int // Words at or below this length are ignored
}

// DefaultNoveltyConfig matches the agent's production strictness.
func DefaultNoveltyConfig() NoveltyConfig {
	return NoveltyConfig{
		OverlapThreshold: 2,
		MinWordLength:    4,
	}
}

// NoveltyFilter rejects candidates that are near-duplicates of recently
// posted messages.
type NoveltyFilter struct {
	cfg NoveltyConfig
}

// NewNoveltyFilter creates a filter with the given bounds.
func NewNoveltyFilter(cfg NoveltyConfig) *NoveltyFilter {
	if cfg.OverlapThreshold <= 0 {
		cfg = DefaultNoveltyConfig()
	}
	return &NoveltyFilter{cfg: cfg}
}

// Accept reports whether the candidate is sufficiently novel against every
// record in the lookback window. A single over-threshold overlap rejects.
func (f *NoveltyFilter) Accept(candidate models.Candidate, recent []*models.PostRecord) bool {
	candidateWords := significantWords(candidate.Text, f.cfg.MinWordLength)

	for _, record := range recent {
		overlap := 0
		for word := range significantWords(record.Content, f.cfg.MinWordLength) {
			if _, ok := candidateWords[word]; ok {
				overlap++
				if overlap > f.cfg.OverlapThreshold {
					return false
				}
			}
		}
	}
	return true
}

// significantWords tokenizes into a lowercase set, keeping only words longer
// than the minimum length so stop-words don't count toward overlap.
func significantWords(text string, minLen int) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?:;\"'()#")
		if len(w) > minLen {
			words[w] = struct{}{}
		}
	}
	return words
}
