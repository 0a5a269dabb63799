package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/JDLondon7/twitter-trading-bot/internal/common"
	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// RetentionPeriod is the fixed offset from creation to expiry.
const RetentionPeriod = 30 * 24 * time.Hour

// PostStorage implements the PostStorage interface for Badger
type PostStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPostStorage creates a new PostStorage instance
func NewPostStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PostStorage {
	return &PostStorage{
		db:     db,
		logger: logger,
	}
}

// SavePost appends a record to the ledger. A missing id is generated, and
// missing timestamps default to now / now+30d.
func (s *PostStorage) SavePost(record *models.PostRecord) error {
	if record.ID == "" {
		record.ID = common.NewPostID()
	}

	now := time.Now()
	if record.PostedAt.IsZero() {
		record.PostedAt = now
	}
	if record.ExpiresAt.IsZero() {
		record.ExpiresAt = record.PostedAt.Add(RetentionPeriod)
	}

	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

// GetPost fetches a single record by id.
func (s *PostStorage) GetPost(id string) (*models.PostRecord, error) {
	var record models.PostRecord
	if err := s.db.Store().Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("post not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &record, nil
}

// AttachExternalID records the platform message id after a successful
// publish. Not required for pipeline correctness: the record already exists
// without it.
func (s *PostStorage) AttachExternalID(id, externalID string) error {
	record, err := s.GetPost(id)
	if err != nil {
		return err
	}
	record.ExternalID = externalID
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to attach external id: %w", err)
	}
	return nil
}

// UpdateEngagement writes engagement metrics onto an existing record.
func (s *PostStorage) UpdateEngagement(id string, rate float64, viralScore int) error {
	record, err := s.GetPost(id)
	if err != nil {
		return err
	}
	record.EngagementRate = rate
	record.ViralScore = viralScore
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to update engagement: %w", err)
	}
	return nil
}

// RecentPosts returns records posted within the window, newest first.
func (s *PostStorage) RecentPosts(window time.Duration) ([]*models.PostRecord, error) {
	cutoff := time.Now().Add(-window)

	var records []models.PostRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("PostedAt").Ge(cutoff)); err != nil {
		return nil, fmt.Errorf("failed to query recent posts: %w", err)
	}

	return sortNewestFirst(records), nil
}

// RecentCount returns the n most recent records, newest first.
func (s *PostStorage) RecentCount(n int) ([]*models.PostRecord, error) {
	var records []models.PostRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("ID").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	out := sortNewestFirst(records)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// StrategyPerformance aggregates engagement per strategy over the window.
// Records with zero engagement still count toward the sample size but not
// toward the average, so an unpopulated ledger keeps the bias inert.
func (s *PostStorage) StrategyPerformance(window time.Duration) ([]models.StrategyStats, error) {
	records, err := s.RecentPosts(window)
	if err != nil {
		return nil, err
	}

	type acc struct {
		count int
		sum   float64
	}
	byStrategy := make(map[models.Strategy]*acc)
	for _, r := range records {
		a, ok := byStrategy[r.Strategy]
		if !ok {
			a = &acc{}
			byStrategy[r.Strategy] = a
		}
		a.count++
		a.sum += r.EngagementRate
	}

	stats := make([]models.StrategyStats, 0, len(byStrategy))
	for strategy, a := range byStrategy {
		stats = append(stats, models.StrategyStats{
			Strategy:      strategy,
			SampleSize:    a.count,
			AvgEngagement: a.sum / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].AvgEngagement > stats[j].AvgEngagement
	})
	return stats, nil
}

// Prune deletes all records past their expiry. Invoked at startup and on the
// daily schedule, never mid-cycle.
func (s *PostStorage) Prune(now time.Time) (int, error) {
	var expired []models.PostRecord
	if err := s.db.Store().Find(&expired, badgerhold.Where("ExpiresAt").Lt(now)); err != nil {
		return 0, fmt.Errorf("failed to find expired posts: %w", err)
	}

	deleted := 0
	for i := range expired {
		if err := s.db.Store().Delete(expired[i].ID, &models.PostRecord{}); err != nil {
			s.logger.Warn().Err(err).Str("id", expired[i].ID).Msg("Failed to delete expired post")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info().Int("deleted", deleted).Msg("Pruned expired posts")
	}
	return deleted, nil
}

func sortNewestFirst(records []models.PostRecord) []*models.PostRecord {
	sort.Slice(records, func(i, j int) bool {
		return records[i].PostedAt.After(records[j].PostedAt)
	})
	out := make([]*models.PostRecord, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out
}
