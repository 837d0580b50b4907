// Package storage defines the persistence interface for analyses and the
// score cache.
package storage

import (
	"context"
	"errors"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// ErrNotFound is returned when a requested analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// Storage defines analysis persistence and score cache operations.
type Storage interface {
	// Analysis operations
	SaveAnalysis(ctx context.Context, analysis *models.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, offset, limit int) ([]*models.Analysis, error)
	DeleteAnalysis(ctx context.Context, id string) error
	CountAnalyses(ctx context.Context) (int64, error)

	// Score cache operations. Keys cover both resume content and job
	// description, so a changed job never reuses a stale score.
	GetCachedScore(ctx context.Context, key string) (*models.ScoreReport, bool, error)
	PutCachedScore(ctx context.Context, key string, report *models.ScoreReport) error
	ClearScoreCache(ctx context.Context) (int64, error)

	Close() error
}
