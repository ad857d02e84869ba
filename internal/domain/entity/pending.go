package entity

import (
	"encoding/json"

	"github.com/wicara/warungpos-api/internal/domain/enum"
)

// PendingQuantityItem is an extracted item whose quantity was vague ("a lot",
// "some") or missing, awaiting human confirmation before it can proceed.
// Session-scoped only; never persisted.
type PendingQuantityItem struct {
	Name              string `json:"name"`
	SuggestedQuantity int    `json:"suggested_quantity"`
	OriginalPhrase    string `json:"original_phrase"`
	Reason            string `json:"reason"`
}

// PendingPriceItem is an item with a confirmed quantity but no usable price,
// awaiting human confirmation. The suggested price comes from the price
// historian and is never auto-accepted.
type PendingPriceItem struct {
	Name           string               `json:"name"`
	Quantity       int                  `json:"quantity"`
	SuggestedPrice *int64               `json:"-"` // cents
	Confidence     enum.PriceConfidence `json:"confidence"`
}

// MarshalJSON converts the suggested price from cents to decimal
func (p PendingPriceItem) MarshalJSON() ([]byte, error) {
	type Alias PendingPriceItem
	var suggested *float64
	if p.SuggestedPrice != nil {
		v := float64(*p.SuggestedPrice) / 100
		suggested = &v
	}
	return json.Marshal(&struct {
		Alias
		SuggestedPrice *float64 `json:"suggested_price"`
	}{
		Alias:          Alias(p),
		SuggestedPrice: suggested,
	})
}
