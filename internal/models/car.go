package models

import (
	"encoding/json"
	"strings"
)

// FlexStrings represents a catalog attribute that the source dataset stores
// either as a single string or as an ordered list of strings. Both forms
// normalize through the same methods.
type FlexStrings []string

// UnmarshalJSON accepts a string, a list of strings, a number, or null.
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		values := make([]string, 0, len(list))
		for _, raw := range list {
			s, err := scalarToString(raw)
			if err != nil {
				return err
			}
			values = append(values, s)
		}
		*f = values
		return nil
	}

	s, err := scalarToString(data)
	if err != nil {
		return err
	}
	*f = FlexStrings{s}
	return nil
}

// MarshalJSON preserves the scalar form for single values so round-tripped
// catalog documents stay compatible with the original dataset.
func (f FlexStrings) MarshalJSON() ([]byte, error) {
	switch len(f) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(f[0])
	default:
		return json.Marshal([]string(f))
	}
}

// scalarToString converts a JSON scalar (string, number, bool, null) to a string
func scalarToString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// IsEmpty reports whether no usable value is present
func (f FlexStrings) IsEmpty() bool {
	for _, v := range f {
		if v != "" {
			return false
		}
	}
	return true
}

// Join filters out empty elements and joins the rest with ", "
func (f FlexStrings) Join() string {
	values := make([]string, 0, len(f))
	for _, v := range f {
		if v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, ", ")
}

// GameRegion is one reveal region: a rectangle over a stored image that
// stays visible for the matching attempt step
type GameRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ImgURL string  `json:"imgUrl"`
}

// Note is a free-text annotation shown after game completion
type Note struct {
	Notes string `json:"notes"`
}

// Car represents one catalog entry. Index is the stable join key between
// the catalog and the daily game record; it never changes once assigned.
type Car struct {
	ID               int64        `json:"-"`
	Index            int          `json:"index"`
	CarID            string       `json:"id"`
	Make             string       `json:"make"`
	Model            string       `json:"model"`
	Year             string       `json:"year"`
	Cylinders        FlexStrings  `json:"cylinders,omitempty"`
	Displacement     FlexStrings  `json:"displacement,omitempty"`
	Drive            FlexStrings  `json:"drive,omitempty"`
	EngDesc          FlexStrings  `json:"engDesc,omitempty"`
	EngID            FlexStrings  `json:"engId,omitempty"`
	ForcedInduction  FlexStrings  `json:"forcedInduction,omitempty"`
	FuelType         FlexStrings  `json:"fuelType,omitempty"`
	Transmission     FlexStrings  `json:"transmission,omitempty"`
	TransmissionDesc FlexStrings  `json:"transmissionDesc,omitempty"`
	VClass           FlexStrings  `json:"vClass,omitempty"`
	GameData         []GameRegion `json:"gameData,omitempty"`
	Notes            []Note       `json:"notes,omitempty"`
}

// Eligible reports whether the car can be picked as a daily game
func (c *Car) Eligible() bool {
	return len(c.GameData) > 0
}

// AttemptBudget is the maximum number of guesses for this car: one fewer
// than the number of reveal images
func (c *Car) AttemptBudget() int {
	if len(c.GameData) == 0 {
		return 0
	}
	return len(c.GameData) - 1
}
