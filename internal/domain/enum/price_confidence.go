package enum

import "encoding/json"

// PriceConfidence is the confidence tier of a historical price suggestion
type PriceConfidence int

const (
	PriceConfidenceNone PriceConfidence = iota
	PriceConfidenceLow
	PriceConfidenceMedium
	PriceConfidenceHigh
)

func (c PriceConfidence) String() string {
	return [...]string{"none", "low", "medium", "high"}[c]
}

func (c PriceConfidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *PriceConfidence) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "low":
		*c = PriceConfidenceLow
	case "medium":
		*c = PriceConfidenceMedium
	case "high":
		*c = PriceConfidenceHigh
	default:
		*c = PriceConfidenceNone
	}
	return nil
}
