package interfaces

import (
	"time"

	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

// PostStorage is the append-only posting ledger. Reads are ordered
// newest-first. Write failures are logged by callers and never abort a cycle.
type PostStorage interface {
	SavePost(record *models.PostRecord) error
	GetPost(id string) (*models.PostRecord, error)
	AttachExternalID(id, externalID string) error
	UpdateEngagement(id string, rate float64, viralScore int) error
	RecentPosts(window time.Duration) ([]*models.PostRecord, error)
	RecentCount(n int) ([]*models.PostRecord, error)
	StrategyPerformance(window time.Duration) ([]models.StrategyStats, error)
	Prune(now time.Time) (int, error)
}

// StorageManager owns the database connection and the storage interfaces
// hanging off it.
type StorageManager interface {
	PostStorage() PostStorage
	Close() error
}
