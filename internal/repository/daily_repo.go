package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"cardle/internal/database"
	"cardle/internal/models"
)

// ErrDayAlreadySet signals that another writer assigned the day's game
// between the caller's check and its insert
var ErrDayAlreadySet = errors.New("daily game already set for day")

// DayKeyFormat is the canonical date key used to enforce one game per day
const DayKeyFormat = "2006-01-02"

// DailyRepository handles daily game assignments
type DailyRepository struct {
	db *database.DB
}

// NewDailyRepository creates a new daily game repository
func NewDailyRepository(db *database.DB) *DailyRepository {
	return &DailyRepository{db: db}
}

// FindForDay returns the assignment for the given day, nil when none exists
func (r *DailyRepository) FindForDay(day time.Time) (*models.DailyGame, error) {
	game := &models.DailyGame{}
	err := r.db.QueryRow(
		"SELECT id, day, car_index FROM daily_games WHERE day_key = ?",
		day.Format(DayKeyFormat),
	).Scan(&game.ID, &game.Day, &game.CarIndex)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}

// FindByCarIndex returns the assignment that used the given car, nil when
// the car has never been a daily game
func (r *DailyRepository) FindByCarIndex(carIndex int) (*models.DailyGame, error) {
	game := &models.DailyGame{}
	err := r.db.QueryRow(
		"SELECT id, day, car_index FROM daily_games WHERE car_index = ?",
		carIndex,
	).Scan(&game.ID, &game.Day, &game.CarIndex)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}

// Insert assigns a car to a day. The insert runs in a transaction with a
// re-check so concurrent selectors settle on a single assignment; the
// unique constraints on day_key and car_index back the check up.
func (r *DailyRepository) Insert(day time.Time, carIndex int) (*models.DailyGame, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	dayKey := day.Format(DayKeyFormat)

	var existing int
	err = tx.QueryRow("SELECT COUNT(*) FROM daily_games WHERE day_key = ?", dayKey).Scan(&existing)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrDayAlreadySet
	}

	id, err := tx.ExecReturningID(
		"INSERT INTO daily_games (day, day_key, car_index) VALUES (?, ?, ?)",
		day, dayKey, carIndex,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDayAlreadySet
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.DailyGame{ID: id, Day: day, CarIndex: carIndex}, nil
}

// History returns all assignments ordered by day, newest first
func (r *DailyRepository) History() ([]models.DailyGame, error) {
	rows, err := r.db.Query("SELECT id, day, car_index FROM daily_games ORDER BY day DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.DailyGame
	for rows.Next() {
		var game models.DailyGame
		if err := rows.Scan(&game.ID, &game.Day, &game.CarIndex); err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// isUniqueViolation matches the constraint error text of all three drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
