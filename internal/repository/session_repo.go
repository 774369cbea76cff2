package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"cardle/internal/database"
	"cardle/internal/models"
)

// SessionRepository handles persisted game sessions
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Find returns the player's session for a car. A missing row or a row
// whose attempts no longer decode returns nil, so corrupt state falls
// back to a fresh game instead of failing the request.
func (r *SessionRepository) Find(playerToken string, carIndex int) (*models.GameSession, error) {
	sess := &models.GameSession{}
	var attempts string
	var inProgress, win string

	err := r.db.QueryRow(`
		SELECT id, player_token, car_index, day, attempts, in_progress, win, win_step, updated_at
		FROM game_sessions
		WHERE player_token = ? AND car_index = ?`,
		playerToken, carIndex,
	).Scan(&sess.ID, &sess.PlayerToken, &sess.CarIndex, &sess.Day,
		&attempts, &inProgress, &win, &sess.WinStep, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess.InProgress = inProgress == "1" || inProgress == "true"
	sess.Win = win == "1" || win == "true"

	decoded, ok := decodeAttempts(attempts)
	if !ok {
		return nil, nil
	}
	sess.Attempts = decoded

	return sess, nil
}

// ListByPlayer returns all of a player's sessions ordered by day, oldest
// first. Sessions with undecodable attempts are skipped.
func (r *SessionRepository) ListByPlayer(playerToken string) ([]models.GameSession, error) {
	rows, err := r.db.Query(`
		SELECT id, player_token, car_index, day, attempts, in_progress, win, win_step, updated_at
		FROM game_sessions
		WHERE player_token = ?
		ORDER BY day ASC`,
		playerToken,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.GameSession
	for rows.Next() {
		var sess models.GameSession
		var attempts string
		var inProgress, win string
		err := rows.Scan(&sess.ID, &sess.PlayerToken, &sess.CarIndex, &sess.Day,
			&attempts, &inProgress, &win, &sess.WinStep, &sess.UpdatedAt)
		if err != nil {
			return nil, err
		}
		sess.InProgress = inProgress == "1" || inProgress == "true"
		sess.Win = win == "1" || win == "true"

		decoded, ok := decodeAttempts(attempts)
		if !ok {
			continue
		}
		sess.Attempts = decoded
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Save writes the full session snapshot. The update and the fallback
// insert run in one transaction so readers never see a partial state.
func (r *SessionRepository) Save(sess *models.GameSession) error {
	encoded, err := json.Marshal(sess.EncodeAttempts())
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dialect := tx.GetDialect()
	now := time.Now()

	result, err := tx.Exec(`
		UPDATE game_sessions
		SET day = ?, attempts = ?, in_progress = ?, win = ?, win_step = ?, updated_at = ?
		WHERE player_token = ? AND car_index = ?`,
		sess.Day, string(encoded),
		dialect.BoolValue(sess.InProgress), dialect.BoolValue(sess.Win),
		sess.WinStep, now,
		sess.PlayerToken, sess.CarIndex,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		id, err := tx.ExecReturningID(`
			INSERT INTO game_sessions (player_token, car_index, day, attempts, in_progress, win, win_step, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.PlayerToken, sess.CarIndex, sess.Day, string(encoded),
			dialect.BoolValue(sess.InProgress), dialect.BoolValue(sess.Win),
			sess.WinStep, now,
		)
		if err != nil {
			return err
		}
		sess.ID = id
	}

	sess.UpdatedAt = now
	return tx.Commit()
}

// decodeAttempts parses the stored JSON array of encoded attempt strings
func decodeAttempts(raw string) ([]models.Attempt, bool) {
	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil {
		return nil, false
	}
	attempts := make([]models.Attempt, 0, len(encoded))
	for _, s := range encoded {
		attempt, err := models.ParseAttempt(s)
		if err != nil {
			return nil, false
		}
		attempts = append(attempts, attempt)
	}
	return attempts, true
}
