package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// TransactionItem is one frozen line of a committed sale. The list order is
// the cart's insertion order; it matters for display, never for totals.
type TransactionItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"-"` // cents
}

// MarshalJSON converts the price from cents to decimal for API responses
func (i TransactionItem) MarshalJSON() ([]byte, error) {
	type Alias TransactionItem
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(i),
		Price: float64(i.Price) / 100,
	})
}

// TransactionItemList stores the item snapshot as a JSONB column. Prices are
// kept in cents on the wire to the database.
type TransactionItemList []TransactionItem

type transactionItemRow struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

func (l TransactionItemList) Value() (driver.Value, error) {
	rows := make([]transactionItemRow, len(l))
	for i, item := range l {
		rows[i] = transactionItemRow(item)
	}
	return json.Marshal(rows)
}

func (l *TransactionItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("transaction items: unsupported column type")
	}
	var rows []transactionItemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	items := make(TransactionItemList, len(rows))
	for i, r := range rows {
		items[i] = TransactionItem(r)
	}
	*l = items
	return nil
}

// Transaction is an immutable committed sale. It is created once by the
// committer and never mutated or deleted afterwards.
type Transaction struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	ShiftID         *uuid.UUID          `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	Items           TransactionItemList `gorm:"type:jsonb;not null" json:"items"`
	SubTotal        int64               `gorm:"not null" json:"-"` // cents
	Tax             int64               `gorm:"default:0" json:"-"`
	Total           int64               `gorm:"not null" json:"-"`
	PaymentMethod   enum.PaymentMethod  `gorm:"default:0;index" json:"payment_method"`
	PaymentReceived *int64              `json:"-"` // cents, Cash only
	ChangeGiven     *int64              `json:"-"` // cents, Cash only
	TransactionDate time.Time           `gorm:"not null;index" json:"transaction_date"`
	CreatedAt       time.Time           `json:"created_at"`
}

// MarshalJSON converts cent fields to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	out := &struct {
		Alias
		SubTotal        float64  `json:"sub_total"`
		Tax             float64  `json:"tax"`
		Total           float64  `json:"total"`
		PaymentReceived *float64 `json:"payment_received,omitempty"`
		ChangeGiven     *float64 `json:"change_given,omitempty"`
	}{
		Alias:    Alias(t),
		SubTotal: float64(t.SubTotal) / 100,
		Tax:      float64(t.Tax) / 100,
		Total:    float64(t.Total) / 100,
	}
	if t.PaymentReceived != nil {
		v := float64(*t.PaymentReceived) / 100
		out.PaymentReceived = &v
	}
	if t.ChangeGiven != nil {
		v := float64(*t.ChangeGiven) / 100
		out.ChangeGiven = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before inserting a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
