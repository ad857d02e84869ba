package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	domainRepo "github.com/wicara/warungpos-api/internal/domain/repository"
	"github.com/wicara/warungpos-api/pkg/apperror"
	"github.com/wicara/warungpos-api/pkg/pagination"
	"gorm.io/gorm"
)

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *gorm.DB) domainRepo.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *entity.Shift) error {
	err := r.db.WithContext(ctx).Create(shift).Error
	// The partial unique index on active status trips when a second shift
	// is opened concurrently.
	if err != nil && strings.Contains(err.Error(), "idx_shifts_single_active") {
		return apperror.ErrShiftAlreadyActive
	}
	return err
}

func (r *shiftRepository) Update(ctx context.Context, shift *entity.Shift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	var shift entity.Shift
	err := r.db.WithContext(ctx).First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) GetActive(ctx context.Context) (*entity.Shift, error) {
	var shift entity.Shift
	err := r.db.WithContext(ctx).First(&shift, "status = ?", enum.ShiftStatusActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Shift, int64, error) {
	var shifts []entity.Shift
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Shift{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&shifts).Error

	return shifts, total, err
}
