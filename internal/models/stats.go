package models

import "time"

// PlayerStats holds the persisted streak counters for one player
type PlayerStats struct {
	PlayerToken   string
	CurrentStreak int
	MaxStreak     int
	LastPlayedDay *time.Time
	UpdatedAt     time.Time
}

// StatsSummary is the derived aggregate returned to clients
type StatsSummary struct {
	GamesPlayed    int         `json:"gamesPlayed"`
	GamesWon       int         `json:"gamesWon"`
	WinRate        int         `json:"winRate"` // percentage, floored
	CurrentStreak  int         `json:"currentStreak"`
	MaxStreak      int         `json:"maxStreak"`
	GuessHistogram map[int]int `json:"guessHistogram"` // attempts used -> games
	SuspiciousWins int         `json:"suspiciousWins"` // wins on the very first reveal
}
