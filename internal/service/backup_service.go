package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"cardle/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	DatabaseType string           `json:"database_type"`
	Cars         []CarBackup      `json:"cars"`
	DailyGames   []DailyBackup    `json:"daily_games"`
	Sessions     []SessionBackup  `json:"game_sessions"`
	PlayerStats  []StatsBackup    `json:"player_stats"`
}

// CarBackup represents a catalog entry for backup. The attribute and
// annotation columns carry their stored JSON text verbatim.
type CarBackup struct {
	Index            int    `json:"car_index"`
	CarID            string `json:"car_id"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	Year             string `json:"year"`
	Cylinders        string `json:"cylinders,omitempty"`
	Displacement     string `json:"displacement,omitempty"`
	Drive            string `json:"drive,omitempty"`
	EngDesc          string `json:"eng_desc,omitempty"`
	EngID            string `json:"eng_id,omitempty"`
	ForcedInduction  string `json:"forced_induction,omitempty"`
	FuelType         string `json:"fuel_type,omitempty"`
	Transmission     string `json:"transmission,omitempty"`
	TransmissionDesc string `json:"transmission_desc,omitempty"`
	VClass           string `json:"v_class,omitempty"`
	GameData         string `json:"game_data,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// DailyBackup represents a daily assignment for backup
type DailyBackup struct {
	Day      time.Time `json:"day"`
	DayKey   string    `json:"day_key"`
	CarIndex int       `json:"car_index"`
}

// SessionBackup represents a player session for backup
type SessionBackup struct {
	PlayerToken string    `json:"player_token"`
	CarIndex    int       `json:"car_index"`
	Day         time.Time `json:"day"`
	Attempts    string    `json:"attempts"`
	InProgress  bool      `json:"in_progress"`
	Win         bool      `json:"win"`
	WinStep     int       `json:"win_step"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatsBackup represents a player's streak counters for backup
type StatsBackup struct {
	PlayerToken   string     `json:"player_token"`
	CurrentStreak int        `json:"current_streak"`
	MaxStreak     int        `json:"max_streak"`
	LastPlayedDay *time.Time `json:"last_played_day"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// GetDB returns the database connection for direct queries
func (s *BackupService) GetDB() *database.DB {
	return s.db
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportCars(backup); err != nil {
		return fmt.Errorf("failed to export cars: %w", err)
	}
	if err := s.exportDailyGames(backup); err != nil {
		return fmt.Errorf("failed to export daily games: %w", err)
	}
	if err := s.exportSessions(backup); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	if err := s.exportPlayerStats(backup); err != nil {
		return fmt.Errorf("failed to export player stats: %w", err)
	}

	log.Printf("Exported: %d cars, %d daily games, %d sessions, %d player stats",
		len(backup.Cars), len(backup.DailyGames), len(backup.Sessions), len(backup.PlayerStats))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader (for file uploads)
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if err := s.importCars(backup.Cars); err != nil {
		return fmt.Errorf("failed to import cars: %w", err)
	}
	if err := s.importDailyGames(backup.DailyGames); err != nil {
		return fmt.Errorf("failed to import daily games: %w", err)
	}
	if err := s.importSessions(backup.Sessions); err != nil {
		return fmt.Errorf("failed to import sessions: %w", err)
	}
	if err := s.importPlayerStats(backup.PlayerStats); err != nil {
		return fmt.Errorf("failed to import player stats: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportCars(backup *BackupData) error {
	query := `SELECT car_index, car_id, make, model, year,
		COALESCE(cylinders, ''), COALESCE(displacement, ''), COALESCE(drive, ''),
		COALESCE(eng_desc, ''), COALESCE(eng_id, ''), COALESCE(forced_induction, ''),
		COALESCE(fuel_type, ''), COALESCE(transmission, ''), COALESCE(transmission_desc, ''),
		COALESCE(v_class, ''), COALESCE(game_data, ''), COALESCE(notes, '')
		FROM cars ORDER BY car_index`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CarBackup
		if err := rows.Scan(&c.Index, &c.CarID, &c.Make, &c.Model, &c.Year,
			&c.Cylinders, &c.Displacement, &c.Drive, &c.EngDesc, &c.EngID,
			&c.ForcedInduction, &c.FuelType, &c.Transmission, &c.TransmissionDesc,
			&c.VClass, &c.GameData, &c.Notes); err != nil {
			return err
		}
		backup.Cars = append(backup.Cars, c)
	}
	return rows.Err()
}

func (s *BackupService) exportDailyGames(backup *BackupData) error {
	query := "SELECT day, day_key, car_index FROM daily_games ORDER BY day"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d DailyBackup
		if err := rows.Scan(&d.Day, &d.DayKey, &d.CarIndex); err != nil {
			return err
		}
		backup.DailyGames = append(backup.DailyGames, d)
	}
	return rows.Err()
}

func (s *BackupService) exportSessions(backup *BackupData) error {
	query := `SELECT player_token, car_index, day, attempts, in_progress, win, win_step, updated_at
		FROM game_sessions ORDER BY player_token, day`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sess SessionBackup
		if err := rows.Scan(&sess.PlayerToken, &sess.CarIndex, &sess.Day, &sess.Attempts,
			&sess.InProgress, &sess.Win, &sess.WinStep, &sess.UpdatedAt); err != nil {
			return err
		}
		backup.Sessions = append(backup.Sessions, sess)
	}
	return rows.Err()
}

func (s *BackupService) exportPlayerStats(backup *BackupData) error {
	query := "SELECT player_token, current_streak, max_streak, last_played_day, updated_at FROM player_stats ORDER BY player_token"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st StatsBackup
		var lastPlayed sql.NullTime
		if err := rows.Scan(&st.PlayerToken, &st.CurrentStreak, &st.MaxStreak, &lastPlayed, &st.UpdatedAt); err != nil {
			return err
		}
		if lastPlayed.Valid {
			t := lastPlayed.Time
			st.LastPlayedDay = &t
		}
		backup.PlayerStats = append(backup.PlayerStats, st)
	}
	return rows.Err()
}

func (s *BackupService) importCars(cars []CarBackup) error {
	log.Printf("Importing %d cars...", len(cars))
	for _, c := range cars {
		query := `INSERT INTO cars (car_index, car_id, make, model, year,
			cylinders, displacement, drive, eng_desc, eng_id, forced_induction,
			fuel_type, transmission, transmission_desc, v_class, game_data, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, c.Index, c.CarID, c.Make, c.Model, c.Year,
			nullIfEmpty(c.Cylinders), nullIfEmpty(c.Displacement), nullIfEmpty(c.Drive),
			nullIfEmpty(c.EngDesc), nullIfEmpty(c.EngID), nullIfEmpty(c.ForcedInduction),
			nullIfEmpty(c.FuelType), nullIfEmpty(c.Transmission), nullIfEmpty(c.TransmissionDesc),
			nullIfEmpty(c.VClass), nullIfEmpty(c.GameData), nullIfEmpty(c.Notes))
		if err != nil {
			return fmt.Errorf("failed to import car %d: %w", c.Index, err)
		}
	}
	return nil
}

func (s *BackupService) importDailyGames(games []DailyBackup) error {
	log.Printf("Importing %d daily games...", len(games))
	for _, d := range games {
		query := "INSERT INTO daily_games (day, day_key, car_index) VALUES (?, ?, ?)"
		_, err := s.db.Exec(query, d.Day, d.DayKey, d.CarIndex)
		if err != nil {
			return fmt.Errorf("failed to import daily game %s: %w", d.DayKey, err)
		}
	}
	return nil
}

func (s *BackupService) importSessions(sessions []SessionBackup) error {
	log.Printf("Importing %d sessions...", len(sessions))
	for _, sess := range sessions {
		query := `INSERT INTO game_sessions (player_token, car_index, day, attempts, in_progress, win, win_step, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		boolValue := s.db.Dialect.BoolValue
		_, err := s.db.Exec(query, sess.PlayerToken, sess.CarIndex, sess.Day, sess.Attempts,
			boolValue(sess.InProgress), boolValue(sess.Win), sess.WinStep, sess.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import session for %s car %d: %w", sess.PlayerToken, sess.CarIndex, err)
		}
	}
	return nil
}

func (s *BackupService) importPlayerStats(stats []StatsBackup) error {
	log.Printf("Importing %d player stats...", len(stats))
	for _, st := range stats {
		var lastPlayed interface{}
		if st.LastPlayedDay != nil {
			lastPlayed = *st.LastPlayedDay
		}
		query := `INSERT INTO player_stats (player_token, current_streak, max_streak, last_played_day, updated_at)
			VALUES (?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, st.PlayerToken, st.CurrentStreak, st.MaxStreak, lastPlayed, st.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import stats for %s: %w", st.PlayerToken, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
