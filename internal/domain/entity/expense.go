package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is money taken out of the business, optionally tied to the shift
// that was active when it was recorded.
type Expense struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ShiftID     *uuid.UUID `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	Amount      int64      `gorm:"not null" json:"-"` // cents
	Category    string     `gorm:"size:100;not null" json:"category"`
	Description string     `gorm:"size:255" json:"description,omitempty"`
	ExpenseDate time.Time  `gorm:"not null;index" json:"expense_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MarshalJSON converts the amount from cents to decimal for API responses
func (e Expense) MarshalJSON() ([]byte, error) {
	type Alias Expense
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before inserting a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
