package game

import (
	"fmt"
	"strings"
	"time"

	"cardle/internal/models"
)

// Result glyphs used in the shareable summary
const (
	GlyphCorrect   = "\U0001F7E9" // green square
	GlyphClose     = "\U0001F7E8" // yellow square
	GlyphIncorrect = "\U0001F7E5" // red square
	GlyphSkipped   = "\U0001F7E7" // orange square
)

// Glyph renders a guess class as its share glyph
func (c GuessClass) Glyph() string {
	switch c {
	case ClassCorrect:
		return GlyphCorrect
	case ClassClose:
		return GlyphClose
	case ClassIncorrect:
		return GlyphIncorrect
	default:
		return GlyphSkipped
	}
}

// UpdateStreakOnWin applies a win on the given day to the persisted
// counters. Same-day replays never double-count: the counters only move
// once a real day transition is observed.
func UpdateStreakOnWin(stats *models.PlayerStats, day time.Time) {
	day = startOfDay(day)
	if stats.LastPlayedDay != nil {
		last := startOfDay(*stats.LastPlayedDay)
		switch {
		case last.Equal(day):
			return
		case last.AddDate(0, 0, 1).Equal(day):
			stats.CurrentStreak++
		default:
			// Gap of more than one day: the streak restarts at this win
			stats.CurrentStreak = 1
		}
	} else {
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.MaxStreak {
		stats.MaxStreak = stats.CurrentStreak
	}
	stats.LastPlayedDay = &day
}

// UpdateStreakOnLoss records a finished losing day. The streak breaks but
// the recorded maximum stays.
func UpdateStreakOnLoss(stats *models.PlayerStats, day time.Time) {
	day = startOfDay(day)
	if stats.LastPlayedDay != nil && startOfDay(*stats.LastPlayedDay).Equal(day) && stats.CurrentStreak == 0 {
		return
	}
	stats.CurrentStreak = 0
	stats.LastPlayedDay = &day
}

// Summarize derives the aggregate view from a player's completed sessions
// plus the persisted streak counters
func Summarize(sessions []models.GameSession, stats models.PlayerStats) models.StatsSummary {
	summary := models.StatsSummary{
		CurrentStreak:  stats.CurrentStreak,
		MaxStreak:      stats.MaxStreak,
		GuessHistogram: make(map[int]int),
	}

	for _, sess := range sessions {
		if sess.InProgress {
			continue
		}
		summary.GamesPlayed++
		if sess.Win {
			summary.GamesWon++
			if sess.WinStep > 0 {
				summary.GuessHistogram[sess.WinStep]++
			}
			if sess.WinStep <= 1 {
				summary.SuspiciousWins++
			}
		}
	}

	if summary.GamesPlayed > 0 {
		summary.WinRate = summary.GamesWon * 100 / summary.GamesPlayed
	}
	return summary
}

// ShareText renders the plain-text shareable summary: a header line and
// one row of three glyphs (year, make, model) per attempt.
func (e *Engine) ShareText(car *models.Car, sess *models.GameSession, hardMode bool) string {
	if car == nil || sess == nil {
		return ""
	}

	mode := "Easy"
	if hardMode {
		mode = "Hard"
	}

	answerYear := ParseYear(car.Year)
	rows := make([]string, 0, len(sess.Attempts))
	for _, attempt := range sess.Attempts {
		if attempt.Skipped {
			rows = append(rows, strings.Repeat(GlyphSkipped, 3))
			continue
		}
		row := e.rules.ClassifyYear(answerYear, ParseYear(attempt.Year), hardMode).Glyph() +
			ClassifyText(car.Make, attempt.Make, hardMode).Glyph() +
			ClassifyText(car.Model, attempt.Model, hardMode).Glyph()
		rows = append(rows, row)
	}

	return fmt.Sprintf("%s Cardle results for %s, %d/%d:\n\n%s",
		mode,
		sess.Day.Format("02/01/2006"),
		len(sess.Attempts),
		len(car.GameData),
		strings.Join(rows, "\n"),
	)
}
