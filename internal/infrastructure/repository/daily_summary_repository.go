package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wicara/warungpos-api/internal/domain/entity"
	domainRepo "github.com/wicara/warungpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type dailySummaryRepository struct {
	db *gorm.DB
}

// NewDailySummaryRepository creates a new daily summary repository
func NewDailySummaryRepository(db *gorm.DB) domainRepo.DailySummaryRepository {
	return &dailySummaryRepository{db: db}
}

func (r *dailySummaryRepository) Upsert(ctx context.Context, summary *entity.DailySummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "summary_date"}},
			UpdateAll: true,
		}).
		Create(summary).Error
}

func (r *dailySummaryRepository) GetByDate(ctx context.Context, date time.Time) (*entity.DailySummary, error) {
	var summary entity.DailySummary
	err := r.db.WithContext(ctx).First(&summary, "summary_date = ?", date.Format("2006-01-02")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &summary, err
}

func (r *dailySummaryRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.DailySummary, error) {
	var summaries []entity.DailySummary
	err := r.db.WithContext(ctx).
		Where("summary_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("summary_date ASC").
		Find(&summaries).Error
	return summaries, err
}
