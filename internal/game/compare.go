package game

import (
	"strconv"
	"strings"
)

// Rules holds the tunable comparison constants. The zero value is not
// usable; construct with DefaultRules.
type Rules struct {
	// YearCorrection is the band (in years, either side) within which a
	// lenient year guess still counts as a match.
	YearCorrection int
	// YearLeniency is the wider band used only for the "close" display
	// classification. It never affects win computation.
	YearLeniency int
	// MinYear bounds the guessable year range.
	MinYear int
	// RequireBothFields treats a guess with only one of make/model filled
	// in as unevaluated, the same as an empty guess.
	RequireBothFields bool
}

// DefaultRules returns the production comparison constants
func DefaultRules() Rules {
	return Rules{
		YearCorrection:    5,
		YearLeniency:      10,
		MinYear:           1900,
		RequireBothFields: false,
	}
}

// CompareText decides whether a guess matches the answer. Strict mode
// requires exact case-insensitive equality. Lenient mode matches when the
// answer contains the guess as a case-insensitive substring; the guess is
// always the needle, never the haystack. An empty guess never matches.
func CompareText(answer, guess string, strict bool) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	guess = strings.ToLower(strings.TrimSpace(guess))
	if answer == "" || guess == "" {
		return false
	}
	if strict {
		return answer == guess
	}
	return strings.Contains(answer, guess)
}

// CompareYear decides whether a year guess matches. Strict mode requires
// exact equality; lenient mode accepts anything within the correction band.
func (r Rules) CompareYear(answer, guess int, strict bool) bool {
	if strict {
		return answer == guess
	}
	return guess >= answer-r.YearCorrection && guess <= answer+r.YearCorrection
}

// GuessClass is the display classification of one guessed field
type GuessClass int

const (
	ClassSkipped GuessClass = iota
	ClassCorrect
	ClassClose
	ClassIncorrect
)

// ClassifyText maps a make/model guess to its display class. In strict
// mode a substring hit that is not an exact match renders as close.
func ClassifyText(answer, guess string, strict bool) GuessClass {
	if strings.TrimSpace(guess) == "" {
		return ClassSkipped
	}
	if strict {
		if CompareText(answer, guess, true) {
			return ClassCorrect
		}
		if CompareText(answer, guess, false) {
			return ClassClose
		}
		return ClassIncorrect
	}
	if CompareText(answer, guess, false) {
		return ClassCorrect
	}
	return ClassIncorrect
}

// ClassifyYear maps a year guess to its display tri-state: correct within
// the correction band, close within the leniency band, incorrect outside.
// This is derived for rendering only and never stored.
func (r Rules) ClassifyYear(answer, guess int, strict bool) GuessClass {
	if strict {
		if answer == guess {
			return ClassCorrect
		}
		return ClassIncorrect
	}
	if r.CompareYear(answer, guess, false) {
		return ClassCorrect
	}
	if guess >= answer-r.YearLeniency && guess <= answer+r.YearLeniency {
		return ClassClose
	}
	return ClassIncorrect
}

// ParseYear converts a string-typed year to an int, 0 when absent or malformed
func ParseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}
