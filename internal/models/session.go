package models

import (
	"errors"
	"strings"
	"time"
)

// AttemptSeparator joins year/make/model in the stored attempt encoding.
// It is reserved: free-text guesses never contain it.
const AttemptSeparator = "_"

// SkippedMarker is the stored sentinel for a skipped attempt
const SkippedMarker = "skipped"

// ErrMalformedAttempt is returned when a stored attempt string cannot be parsed
var ErrMalformedAttempt = errors.New("malformed attempt")

// Attempt is one guess in a game session: either the skipped sentinel or a
// structured year/make/model triple
type Attempt struct {
	Skipped bool   `json:"skipped,omitempty"`
	Year    string `json:"year,omitempty"`
	Make    string `json:"make,omitempty"`
	Model   string `json:"model,omitempty"`
}

// Encode renders the attempt in the year_make_model storage format
func (a Attempt) Encode() string {
	if a.Skipped {
		return SkippedMarker
	}
	return strings.Join([]string{a.Year, a.Make, a.Model}, AttemptSeparator)
}

// ParseAttempt decodes the stored attempt format. Extra separators are
// folded into the model field so older records with underscores in model
// names still parse.
func ParseAttempt(s string) (Attempt, error) {
	if s == SkippedMarker {
		return Attempt{Skipped: true}, nil
	}
	parts := strings.SplitN(s, AttemptSeparator, 3)
	if len(parts) != 3 {
		return Attempt{}, ErrMalformedAttempt
	}
	return Attempt{Year: parts[0], Make: parts[1], Model: parts[2]}, nil
}

// GameSession tracks one player's progress against one daily car.
// The whole struct is persisted as a unit on every transition.
type GameSession struct {
	ID          int64
	PlayerToken string
	CarIndex    int
	Day         time.Time
	Attempts    []Attempt
	InProgress  bool
	Win         bool
	WinStep     int
	UpdatedAt   time.Time
}

// AllSkipped reports whether every recorded attempt was a skip
func (s *GameSession) AllSkipped() bool {
	if len(s.Attempts) == 0 {
		return false
	}
	for _, a := range s.Attempts {
		if !a.Skipped {
			return false
		}
	}
	return true
}

// EncodeAttempts renders all attempts in the storage format
func (s *GameSession) EncodeAttempts() []string {
	encoded := make([]string, len(s.Attempts))
	for i, a := range s.Attempts {
		encoded[i] = a.Encode()
	}
	return encoded
}
