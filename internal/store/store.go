package store

import (
	"context"
	"time"

	"github.com/reez/ackamoto/internal/models"
)

// Run records bookkeeping for one scan invocation. Verdicts themselves are
// never persisted; every run recomputes state from the raw data.
type Run struct {
	ID           string
	Repo         string
	Mode         string
	PRCount      int
	CommentCount int
	VerdictCount int
	WarningCount int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// CacheStats summarizes the raw-data cache contents.
type CacheStats struct {
	PullRequests int
	Comments     int
	Runs         int
	LastFetched  time.Time
}

// Store is the persistence interface for the raw-data fetch cache.
type Store interface {
	// Raw fetched data
	UpsertPullRequests(ctx context.Context, repo string, prs []models.PRMeta) error
	ListPullRequests(ctx context.Context, repo string) ([]models.PRMeta, error)
	UpsertComments(ctx context.Context, repo string, comments []models.RawComment) error
	ListComments(ctx context.Context, repo string, prNumber int) ([]models.RawComment, error)

	// Run bookkeeping
	RecordRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// Maintenance
	Stats(ctx context.Context) (*CacheStats, error)
	Clear(ctx context.Context) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
