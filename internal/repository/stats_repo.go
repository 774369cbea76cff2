package repository

import (
	"database/sql"
	"time"

	"cardle/internal/database"
	"cardle/internal/models"
)

// StatsRepository handles persisted player streak counters
type StatsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get returns the player's streak counters, nil when the player has none
func (r *StatsRepository) Get(playerToken string) (*models.PlayerStats, error) {
	stats := &models.PlayerStats{}
	var lastPlayed sql.NullTime

	err := r.db.QueryRow(`
		SELECT player_token, current_streak, max_streak, last_played_day, updated_at
		FROM player_stats
		WHERE player_token = ?`,
		playerToken,
	).Scan(&stats.PlayerToken, &stats.CurrentStreak, &stats.MaxStreak, &lastPlayed, &stats.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastPlayed.Valid {
		t := lastPlayed.Time
		stats.LastPlayedDay = &t
	}
	return stats, nil
}

// Save upserts the player's streak counters
func (r *StatsRepository) Save(stats *models.PlayerStats) error {
	now := time.Now()

	var lastPlayed interface{}
	if stats.LastPlayedDay != nil {
		lastPlayed = *stats.LastPlayedDay
	}

	result, err := r.db.Exec(`
		UPDATE player_stats
		SET current_streak = ?, max_streak = ?, last_played_day = ?, updated_at = ?
		WHERE player_token = ?`,
		stats.CurrentStreak, stats.MaxStreak, lastPlayed, now, stats.PlayerToken,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		_, err = r.db.Exec(`
			INSERT INTO player_stats (player_token, current_streak, max_streak, last_played_day, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			stats.PlayerToken, stats.CurrentStreak, stats.MaxStreak, lastPlayed, now,
		)
		if err != nil {
			return err
		}
	}

	stats.UpdatedAt = now
	return nil
}
