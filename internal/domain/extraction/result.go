// Package extraction models the output of the external natural-language
// extractor. The extractor is an untrusted collaborator: anything in its
// payload may be missing, empty, or malformed, so the raw wire shape is
// normalized into a closed set of typed variants before the rest of the
// system sees it.
package extraction

import (
	"math"
	"strings"
)

// Item is one candidate order item from the extractor. Price is in cents and
// nil when the extractor produced none.
type Item struct {
	Name     string
	Quantity int
	Price    *int64
}

// QuantityFlag marks an item whose spoken quantity was vague or absent.
type QuantityFlag struct {
	Name              string
	SuggestedQuantity int
	OriginalPhrase    string
	Reason            string
}

// PriceFlag marks an item the extractor could not price.
type PriceFlag struct {
	Name     string
	Quantity int
}

// Payload is the closed set of shapes an extraction result can take. Exactly
// one variant is produced per result, which is what enforces the rule that a
// structured action set and a flat item list are never both applied.
type Payload interface {
	isPayload()
}

// FlatItems is a plain list of items to merge with increment-or-insert
// semantics.
type FlatItems []Item

// ActionSet is a structured add/update/remove instruction set. When present
// it takes precedence over any flat item list in the same raw result.
type ActionSet struct {
	Add    []Item
	Update []Item
	Remove []Item
}

// Ambiguous means the extractor could not interpret the utterance at all and
// carries the query it wants clarified. Nothing is merged.
type Ambiguous struct {
	Query string
}

func (FlatItems) isPayload() {}
func (ActionSet) isPayload() {}
func (Ambiguous) isPayload() {}

// Result is a normalized extraction result.
type Result struct {
	Payload       Payload
	NeedsQuantity []QuantityFlag
	NeedsPrice    []PriceFlag
}

// IsEmpty reports whether the result carries nothing to act on.
func (r Result) IsEmpty() bool {
	if len(r.NeedsQuantity) > 0 || len(r.NeedsPrice) > 0 {
		return false
	}
	switch p := r.Payload.(type) {
	case FlatItems:
		return len(p) == 0
	case ActionSet:
		return len(p.Add) == 0 && len(p.Update) == 0 && len(p.Remove) == 0
	case Ambiguous:
		return false
	}
	return true
}

// RawItem is the wire shape of an extractor item. Price is decimal currency.
type RawItem struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price"`
}

// RawActions is the wire shape of the structured action set.
type RawActions struct {
	Add    []RawItem `json:"add"`
	Update []RawItem `json:"update"`
	Remove []RawItem `json:"remove"`
}

// RawQuantityFlag is the wire shape of a vague-quantity flag.
type RawQuantityFlag struct {
	Name              string `json:"name"`
	SuggestedQuantity int    `json:"suggestedQuantity"`
	OriginalPhrase    string `json:"originalPhrase"`
	Reason            string `json:"reason"`
}

// RawPriceFlag is the wire shape of a missing-price flag.
type RawPriceFlag struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// RawResult is the extractor's response exactly as it arrives. Every field
// is optional and untrusted.
type RawResult struct {
	Items          []RawItem         `json:"items"`
	Actions        *RawActions       `json:"actions"`
	NeedsQuantity  []RawQuantityFlag `json:"needsQuantityConfirmation"`
	NeedsPrice     []RawPriceFlag    `json:"needsPriceSuggestion"`
	Ambiguous      bool              `json:"ambiguous"`
	AmbiguousQuery string            `json:"ambiguousQuery"`
}

// Normalize converts a raw result into a typed Result, selecting exactly one
// payload variant. A non-empty action set wins over the flat item list;
// entries with blank names are discarded; negative prices are treated as
// absent.
func Normalize(raw RawResult) Result {
	result := Result{
		NeedsQuantity: normalizeQuantityFlags(raw.NeedsQuantity),
		NeedsPrice:    normalizePriceFlags(raw.NeedsPrice),
	}

	if raw.Ambiguous {
		result.Payload = Ambiguous{Query: strings.TrimSpace(raw.AmbiguousQuery)}
		return result
	}

	if raw.Actions != nil {
		actions := ActionSet{
			Add:    normalizeItems(raw.Actions.Add),
			Update: normalizeItems(raw.Actions.Update),
			Remove: normalizeItems(raw.Actions.Remove),
		}
		if len(actions.Add)+len(actions.Update)+len(actions.Remove) > 0 {
			result.Payload = actions
			return result
		}
	}

	result.Payload = FlatItems(normalizeItems(raw.Items))
	return result
}

func normalizeItems(raw []RawItem) []Item {
	var items []Item
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		items = append(items, Item{
			Name:     name,
			Quantity: r.Quantity,
			Price:    centsFromDecimal(r.Price),
		})
	}
	return items
}

func normalizeQuantityFlags(raw []RawQuantityFlag) []QuantityFlag {
	var flags []QuantityFlag
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		suggested := r.SuggestedQuantity
		if suggested < 1 {
			suggested = 1
		}
		flags = append(flags, QuantityFlag{
			Name:              name,
			SuggestedQuantity: suggested,
			OriginalPhrase:    r.OriginalPhrase,
			Reason:            r.Reason,
		})
	}
	return flags
}

func normalizePriceFlags(raw []RawPriceFlag) []PriceFlag {
	var flags []PriceFlag
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		qty := r.Quantity
		if qty < 1 {
			qty = 1
		}
		flags = append(flags, PriceFlag{Name: name, Quantity: qty})
	}
	return flags
}

func centsFromDecimal(price *float64) *int64 {
	if price == nil || *price < 0 || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return nil
	}
	cents := int64(math.Round(*price * 100))
	return &cents
}
