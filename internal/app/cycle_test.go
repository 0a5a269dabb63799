package app

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/catalysts"
	"github.com/JDLondon7/twitter-trading-bot/internal/content"
	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/market"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
	"github.com/JDLondon7/twitter-trading-bot/internal/quotes"
	"github.com/JDLondon7/twitter-trading-bot/internal/scheduler"
)

// memoryStorage is an in-memory PostStorage for pipeline tests.
type memoryStorage struct {
	records map[string]*models.PostRecord
	seq     int
	saveErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{records: make(map[string]*models.PostRecord)}
}

func (m *memoryStorage) SavePost(record *models.PostRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if record.ID == "" {
		m.seq++
		record.ID = fmt.Sprintf("post_%d", m.seq)
	}
	if record.PostedAt.IsZero() {
		record.PostedAt = time.Now()
	}
	m.records[record.ID] = record
	return nil
}

func (m *memoryStorage) GetPost(id string) (*models.PostRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("post not found: %s", id)
	}
	return r, nil
}

func (m *memoryStorage) AttachExternalID(id, externalID string) error {
	r, err := m.GetPost(id)
	if err != nil {
		return err
	}
	r.ExternalID = externalID
	return nil
}

func (m *memoryStorage) UpdateEngagement(id string, rate float64, viralScore int) error {
	r, err := m.GetPost(id)
	if err != nil {
		return err
	}
	r.EngagementRate = rate
	r.ViralScore = viralScore
	return nil
}

func (m *memoryStorage) RecentPosts(window time.Duration) ([]*models.PostRecord, error) {
	var out []*models.PostRecord
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostedAt.After(out[j].PostedAt) })
	return out, nil
}

func (m *memoryStorage) RecentCount(n int) ([]*models.PostRecord, error) {
	out, _ := m.RecentPosts(0)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *memoryStorage) StrategyPerformance(window time.Duration) ([]models.StrategyStats, error) {
	return nil, nil
}

func (m *memoryStorage) Prune(now time.Time) (int, error) { return 0, nil }

// fakeQuotes serves canned series per quote code, failing listed codes.
type fakeQuotes struct {
	failing map[string]bool
	calls   int
}

func (f *fakeQuotes) GetChart(ctx context.Context, quoteCode string) (*interfaces.QuoteSeries, error) {
	f.calls++
	if f.failing[quoteCode] {
		return nil, &quotes.DataUnavailableError{Symbol: quoteCode, Message: "down"}
	}
	series := &interfaces.QuoteSeries{
		Symbol:        quoteCode,
		CurrentPrice:  20240,
		PreviousClose: 20000,
	}
	for i := 0; i < 24; i++ {
		series.Bars = append(series.Bars, models.Bar{Close: 20000 + float64(i)*10, Volume: 1000})
	}
	return series, nil
}

// fakePublisher records publishes and optionally fails.
type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.published = append(f.published, text)
	return fmt.Sprintf("ext_%d", len(f.published)), nil
}

func (f *fakePublisher) Mode() interfaces.PublishMode { return interfaces.PublishModeDryRun }

func testContracts() []models.Contract {
	return []models.Contract{
		{Symbol: "NQ", Name: "NASDAQ", QuoteCode: "NQ=F"},
		{Symbol: "ES", Name: "E-mini S&P 500", QuoteCode: "ES=F"},
	}
}

func newTestCycle(storage interfaces.PostStorage, q interfaces.QuoteProvider, pub interfaces.Publisher, state *scheduler.State, budget int) *Cycle {
	logger := arbor.NewLogger()
	rng := rand.New(rand.NewSource(5))

	return NewCycle(CycleOptions{
		Contracts:     testContracts(),
		SnapshotCfg:   market.DefaultSnapshotConfig(),
		AttemptBudget: budget,
		Quotes:        q,
		Catalysts:     catalysts.NewService(nil, logger),
		Selector: content.NewSelector(models.DefaultStrategyTable(), content.SelectorConfig{
			CatalystThreshold:   0.8,
			CatalystProbability: 0.3,
			MinBiasSamples:      3,
		}, rng, logger),
		Generator: content.NewGenerator(content.GeneratorConfig{
			Mode:      content.ModeTemplate,
			MaxLength: 280,
		}, nil, rng, logger),
		Filter:    content.NewNoveltyFilter(content.DefaultNoveltyConfig()),
		Storage:   storage,
		Publisher: pub,
		State:     state,
		Logger:    logger,
	})
}

func TestCycle_HappyPath(t *testing.T) {
	storage := newMemoryStorage()
	pub := &fakePublisher{}
	state := scheduler.NewState(10)

	cycle := newTestCycle(storage, &fakeQuotes{}, pub, state, 5)
	cycle.Run(context.Background())

	require.Len(t, pub.published, 1)
	assert.LessOrEqual(t, len(pub.published[0]), 280)
	assert.Equal(t, 1, state.DailyCount())

	require.Len(t, storage.records, 1)
	for _, r := range storage.records {
		assert.Equal(t, "ext_1", r.ExternalID, "external id attached after publish")
		assert.NotEmpty(t, r.MarketContext)
	}
}

func TestCycle_DailyCapBlocksAppend(t *testing.T) {
	storage := newMemoryStorage()
	pub := &fakePublisher{}
	state := scheduler.NewState(1)

	cycle := newTestCycle(storage, &fakeQuotes{}, pub, state, 5)
	cycle.Run(context.Background())
	cycle.Run(context.Background()) // Cap reached, must be a no-op

	assert.Len(t, storage.records, 1)
	assert.Len(t, pub.published, 1)
	assert.Equal(t, 1, state.DailyCount())

	state.Reset()
	cycle.Run(context.Background())
	assert.Len(t, storage.records, 2, "posting resumes after reset")
}

func TestCycle_SkipsFailedSymbols(t *testing.T) {
	storage := newMemoryStorage()
	pub := &fakePublisher{}
	state := scheduler.NewState(10)
	q := &fakeQuotes{failing: map[string]bool{"NQ=F": true}}

	cycle := newTestCycle(storage, q, pub, state, 5)
	cycle.Run(context.Background())

	// One symbol down still produces a post.
	assert.Len(t, pub.published, 1)
	assert.Equal(t, 2, q.calls, "both symbols attempted")
}

func TestCycle_AllQuotesDownStillPosts(t *testing.T) {
	storage := newMemoryStorage()
	pub := &fakePublisher{}
	state := scheduler.NewState(10)
	q := &fakeQuotes{failing: map[string]bool{"NQ=F": true, "ES=F": true}}

	cycle := newTestCycle(storage, q, pub, state, 5)
	cycle.Run(context.Background())

	assert.Len(t, pub.published, 1, "template content works without market data")
}

func TestCycle_PublishFailureLeavesExternalIDUnset(t *testing.T) {
	storage := newMemoryStorage()
	pub := &fakePublisher{err: fmt.Errorf("network down")}
	state := scheduler.NewState(10)

	cycle := newTestCycle(storage, &fakeQuotes{}, pub, state, 5)
	cycle.Run(context.Background())

	require.Len(t, storage.records, 1)
	for _, r := range storage.records {
		assert.Empty(t, r.ExternalID)
	}
	// The record is ledgered and counted even though the publish failed.
	assert.Equal(t, 1, state.DailyCount())
}

func TestCycle_StorageFailureDoesNotAbort(t *testing.T) {
	storage := newMemoryStorage()
	storage.saveErr = fmt.Errorf("disk full")
	pub := &fakePublisher{}
	state := scheduler.NewState(10)

	cycle := newTestCycle(storage, &fakeQuotes{}, pub, state, 5)
	cycle.Run(context.Background())

	// Publish still happened despite the ledger write failing.
	assert.Len(t, pub.published, 1)
}

func TestCycle_NoveltyExhaustionAcceptsLastCandidate(t *testing.T) {
	storage := newMemoryStorage()
	pub := &fakePublisher{}
	state := scheduler.NewState(20)

	// Seed the ledger with every template of every strategy so any draw is
	// rejected by the novelty filter.
	for _, strategy := range []models.Strategy{
		models.StrategyPsychologyTruth,
		models.StrategyEducationalThread,
		models.StrategyMindsetShift,
		models.StrategyRealityCheck,
		models.StrategyTradingWisdom,
	} {
		for _, tmpl := range content.TemplatePool(strategy) {
			require.NoError(t, storage.SavePost(&models.PostRecord{Content: tmpl, Strategy: strategy}))
		}
	}
	seeded := len(storage.records)

	cycle := newTestCycle(storage, &fakeQuotes{}, pub, state, 3)
	cycle.Run(context.Background())

	// The relaxation keeps the pipeline live: exactly one post was produced
	// within the bounded attempt budget.
	assert.Len(t, pub.published, 1)
	assert.Equal(t, seeded+1, len(storage.records))
}
