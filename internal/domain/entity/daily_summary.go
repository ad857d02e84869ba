package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TopItem is one entry of a daily summary's top-selling list.
type TopItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"-"` // cents
}

// MarshalJSON converts revenue from cents to decimal for API responses
func (t TopItem) MarshalJSON() ([]byte, error) {
	type Alias TopItem
	return json.Marshal(&struct {
		Alias
		Revenue float64 `json:"revenue"`
	}{
		Alias:   Alias(t),
		Revenue: float64(t.Revenue) / 100,
	})
}

// TopItemList stores top-selling items as a JSONB column, cents on the wire.
type TopItemList []TopItem

type topItemRow struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

func (l TopItemList) Value() (driver.Value, error) {
	rows := make([]topItemRow, len(l))
	for i, item := range l {
		rows[i] = topItemRow(item)
	}
	return json.Marshal(rows)
}

func (l *TopItemList) Scan(value interface{}) error {
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
		return errors.New("top items: unsupported column type")
	}
	var rows []topItemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	items := make(TopItemList, len(rows))
	for i, r := range rows {
		items[i] = TopItem(r)
	}
	*l = items
	return nil
}

// DailySummary is the precomputed rollup for one calendar date. It is always
// a pure function of that date's transactions and expenses at recompute time,
// upserted by date and never hand-edited.
type DailySummary struct {
	ID               uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	SummaryDate      time.Time   `gorm:"type:date;uniqueIndex;not null" json:"summary_date"`
	TotalSales       int64       `gorm:"default:0" json:"-"` // cents
	TotalExpenses    int64       `gorm:"default:0" json:"-"`
	NetProfit        int64       `gorm:"default:0" json:"-"`
	TransactionCount int         `gorm:"default:0" json:"transaction_count"`
	CashPayments     int64       `gorm:"default:0" json:"-"`
	CardPayments     int64       `gorm:"default:0" json:"-"`
	EwalletPayments  int64       `gorm:"default:0" json:"-"`
	QrPayPayments    int64       `gorm:"default:0" json:"-"`
	TopSellingItems  TopItemList `gorm:"type:jsonb" json:"top_selling_items"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// MarshalJSON converts cent fields to decimal for API responses
func (d DailySummary) MarshalJSON() ([]byte, error) {
	type Alias DailySummary
	return json.Marshal(&struct {
		Alias
		SummaryDate     string  `json:"summary_date"`
		TotalSales      float64 `json:"total_sales"`
		TotalExpenses   float64 `json:"total_expenses"`
		NetProfit       float64 `json:"net_profit"`
		CashPayments    float64 `json:"cash_payments"`
		CardPayments    float64 `json:"card_payments"`
		EwalletPayments float64 `json:"ewallet_payments"`
		QrPayPayments   float64 `json:"qr_pay_payments"`
	}{
		Alias:           Alias(d),
		SummaryDate:     d.SummaryDate.Format("2006-01-02"),
		TotalSales:      float64(d.TotalSales) / 100,
		TotalExpenses:   float64(d.TotalExpenses) / 100,
		NetProfit:       float64(d.NetProfit) / 100,
		CashPayments:    float64(d.CashPayments) / 100,
		CardPayments:    float64(d.CardPayments) / 100,
		EwalletPayments: float64(d.EwalletPayments) / 100,
		QrPayPayments:   float64(d.QrPayPayments) / 100,
	})
}

// BeforeCreate generates a UUID before inserting a new summary row
func (d *DailySummary) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DailySummary model
func (DailySummary) TableName() string {
	return "daily_summaries"
}
