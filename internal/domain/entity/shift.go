package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Shift is one cashier drawer session. At most one shift is active at any
// time; a partial unique index at the storage layer backs that invariant.
// The close transition is terminal: a closed shift is never reopened.
type Shift struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OpenedAt       time.Time        `gorm:"not null" json:"opened_at"`
	OpeningCash    int64            `gorm:"not null" json:"-"` // cents
	Status         enum.ShiftStatus `gorm:"default:0;index" json:"status"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	ClosingCash    *int64           `json:"-"`
	ExpectedCash   *int64           `json:"-"`
	CashDifference *int64           `json:"-"`
	Notes          *string          `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// MarshalJSON converts cent fields to decimal for API responses
func (s Shift) MarshalJSON() ([]byte, error) {
	type Alias Shift
	out := &struct {
		Alias
		OpeningCash    float64  `json:"opening_cash"`
		ClosingCash    *float64 `json:"closing_cash,omitempty"`
		ExpectedCash   *float64 `json:"expected_cash,omitempty"`
		CashDifference *float64 `json:"cash_difference,omitempty"`
	}{
		Alias:       Alias(s),
		OpeningCash: float64(s.OpeningCash) / 100,
	}
	if s.ClosingCash != nil {
		v := float64(*s.ClosingCash) / 100
		out.ClosingCash = &v
	}
	if s.ExpectedCash != nil {
		v := float64(*s.ExpectedCash) / 100
		out.ExpectedCash = &v
	}
	if s.CashDifference != nil {
		v := float64(*s.CashDifference) / 100
		out.CashDifference = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before inserting a new shift
func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shift model
func (Shift) TableName() string {
	return "shifts"
}

// IsActive reports whether the shift is still open
func (s *Shift) IsActive() bool {
	return s.Status == enum.ShiftStatusActive
}
