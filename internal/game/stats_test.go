package game

import (
	"strings"
	"testing"
	"time"

	"cardle/internal/models"
)

func day(offset int) time.Time {
	now := time.Now()
	year, month, d := now.Date()
	return time.Date(year, month, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, offset)
}

func TestUpdateStreakOnWin(t *testing.T) {
	t.Run("three consecutive wins", func(t *testing.T) {
		stats := models.PlayerStats{}
		UpdateStreakOnWin(&stats, day(-2))
		UpdateStreakOnWin(&stats, day(-1))
		UpdateStreakOnWin(&stats, day(0))
		if stats.CurrentStreak != 3 {
			t.Errorf("CurrentStreak = %d, want 3", stats.CurrentStreak)
		}
		if stats.MaxStreak != 3 {
			t.Errorf("MaxStreak = %d, want 3", stats.MaxStreak)
		}
	})

	t.Run("older gap does not break a recent run", func(t *testing.T) {
		stats := models.PlayerStats{}
		UpdateStreakOnWin(&stats, day(-5))
		UpdateStreakOnWin(&stats, day(-2))
		UpdateStreakOnWin(&stats, day(-1))
		UpdateStreakOnWin(&stats, day(0))
		if stats.CurrentStreak != 3 {
			t.Errorf("CurrentStreak = %d, want 3 (computed from contiguous recent days)", stats.CurrentStreak)
		}
	})

	t.Run("same-day replay does not double-count", func(t *testing.T) {
		stats := models.PlayerStats{}
		UpdateStreakOnWin(&stats, day(0))
		UpdateStreakOnWin(&stats, day(0))
		if stats.CurrentStreak != 1 {
			t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
		}
	})

	t.Run("gap resets then restarts at one", func(t *testing.T) {
		stats := models.PlayerStats{CurrentStreak: 4, MaxStreak: 4}
		last := day(-3)
		stats.LastPlayedDay = &last
		UpdateStreakOnWin(&stats, day(0))
		if stats.CurrentStreak != 1 {
			t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
		}
		if stats.MaxStreak != 4 {
			t.Errorf("MaxStreak = %d, want 4", stats.MaxStreak)
		}
	})
}

func TestUpdateStreakOnLoss(t *testing.T) {
	stats := models.PlayerStats{CurrentStreak: 3, MaxStreak: 5}
	last := day(-1)
	stats.LastPlayedDay = &last

	UpdateStreakOnLoss(&stats, day(0))
	if stats.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", stats.CurrentStreak)
	}
	if stats.MaxStreak != 5 {
		t.Errorf("MaxStreak = %d, want 5 (loss keeps the maximum)", stats.MaxStreak)
	}
}

func TestSummarize(t *testing.T) {
	sessions := []models.GameSession{
		{Win: true, WinStep: 2},
		{Win: true, WinStep: 2},
		{Win: true, WinStep: 1},
		{Win: false},
		{InProgress: true},
	}

	summary := Summarize(sessions, models.PlayerStats{CurrentStreak: 2, MaxStreak: 4})

	if summary.GamesPlayed != 4 {
		t.Errorf("GamesPlayed = %d, want 4 (in-progress excluded)", summary.GamesPlayed)
	}
	if summary.GamesWon != 3 {
		t.Errorf("GamesWon = %d, want 3", summary.GamesWon)
	}
	if summary.WinRate != 75 {
		t.Errorf("WinRate = %d, want 75", summary.WinRate)
	}
	if summary.GuessHistogram[2] != 2 {
		t.Errorf("histogram[2] = %d, want 2", summary.GuessHistogram[2])
	}
	if summary.GuessHistogram[1] != 1 {
		t.Errorf("histogram[1] = %d, want 1 (first-attempt wins stay in the histogram)", summary.GuessHistogram[1])
	}
	if summary.SuspiciousWins != 1 {
		t.Errorf("SuspiciousWins = %d, want 1", summary.SuspiciousWins)
	}
	if summary.CurrentStreak != 2 || summary.MaxStreak != 4 {
		t.Errorf("streaks not carried over: %+v", summary)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, models.PlayerStats{})
	if summary.WinRate != 0 {
		t.Errorf("WinRate with no games = %d, want 0", summary.WinRate)
	}
}

func TestShareText(t *testing.T) {
	engine := NewEngine(DefaultRules())
	car := testCar()
	sess := NewSession("player", car, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	engine.SubmitGuess(car, sess, Guess{Skipped: true})
	engine.SubmitGuess(car, sess, Guess{Year: 1977, Make: "Ford", Model: "Capri"})
	engine.SubmitGuess(car, sess, Guess{Year: 1969, Make: "Ford", Model: "Mustang"})

	text := engine.ShareText(car, sess, false)

	if !strings.HasPrefix(text, "Easy Cardle results for 29/08/2026, 3/5:") {
		t.Errorf("unexpected header: %q", text)
	}

	lines := strings.Split(text, "\n")
	rows := lines[2:]
	if len(rows) != 3 {
		t.Fatalf("expected 3 glyph rows, got %d", len(rows))
	}
	if rows[0] != strings.Repeat(GlyphSkipped, 3) {
		t.Errorf("skipped row = %q", rows[0])
	}
	// 1977 is outside the correction band but inside leniency: close
	if rows[1] != GlyphClose+GlyphCorrect+GlyphIncorrect {
		t.Errorf("middle row = %q", rows[1])
	}
	if rows[2] != strings.Repeat(GlyphCorrect, 3) {
		t.Errorf("winning row = %q", rows[2])
	}
}
