package enum

import "encoding/json"

// ItemSource records how a cart line entered the order
type ItemSource int

const (
	ItemSourceVoice ItemSource = iota
	ItemSourceManual
)

func (s ItemSource) String() string {
	return [...]string{"voice", "manual"}[s]
}

func (s ItemSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ItemSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "manual" {
		*s = ItemSourceManual
	} else {
		*s = ItemSourceVoice
	}
	return nil
}
