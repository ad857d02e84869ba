package repository

import (
	"context"
	"time"

	"github.com/wicara/warungpos-api/internal/domain/entity"
)

// DailySummaryRepository defines the interface for the precomputed rollup
// rows. Upsert replaces the row for the summary's date when one exists, so
// recomputing a day is safe to repeat.
type DailySummaryRepository interface {
	Upsert(ctx context.Context, summary *entity.DailySummary) error
	GetByDate(ctx context.Context, date time.Time) (*entity.DailySummary, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.DailySummary, error)
}
