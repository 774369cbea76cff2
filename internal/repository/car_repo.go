package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"cardle/internal/database"
	"cardle/internal/models"
)

// CarRepository handles catalog database operations
type CarRepository struct {
	db *database.DB
}

// NewCarRepository creates a new car repository
func NewCarRepository(db *database.DB) *CarRepository {
	return &CarRepository{db: db}
}

const carColumns = `car_index, car_id, make, model, year, cylinders, displacement,
	       drive, eng_desc, eng_id, forced_induction, fuel_type,
	       transmission, transmission_desc, v_class, game_data, notes`

// ListMakes returns the sorted set of distinct makes
func (r *CarRepository) ListMakes() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT make FROM cars ORDER BY make ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var makes []string
	for rows.Next() {
		var make string
		if err := rows.Scan(&make); err != nil {
			return nil, err
		}
		makes = append(makes, make)
	}
	return makes, rows.Err()
}

// ListModels returns the sorted set of distinct models for a make
func (r *CarRepository) ListModels(make string) ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT model FROM cars WHERE make = ? ORDER BY model ASC", make)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carModels []string
	for rows.Next() {
		var model string
		if err := rows.Scan(&model); err != nil {
			return nil, err
		}
		carModels = append(carModels, model)
	}
	return carModels, rows.Err()
}

// FindByIndex retrieves a car by its catalog index, nil when absent
func (r *CarRepository) FindByIndex(index int) (*models.Car, error) {
	query := "SELECT id, " + carColumns + " FROM cars WHERE car_index = ?"
	car, err := scanCar(r.db.QueryRow(query, index))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

// CountEligible counts cars that carry reveal regions
func (r *CarRepository) CountEligible() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM cars WHERE game_data IS NOT NULL").Scan(&count)
	return count, err
}

// FindEligibleAtOffset returns the n-th eligible car in index order, nil
// when the offset runs past the end
func (r *CarRepository) FindEligibleAtOffset(offset int) (*models.Car, error) {
	query := "SELECT id, " + carColumns + ` FROM cars
		WHERE game_data IS NOT NULL
		ORDER BY car_index ASC
		LIMIT 1 OFFSET ?`
	car, err := scanCar(r.db.QueryRow(query, offset))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

// FindUnannotatedAtOffset returns the n-th car without reveal regions, in
// index order. Feeds the crop tool with entries still needing annotation.
func (r *CarRepository) FindUnannotatedAtOffset(offset int) (*models.Car, error) {
	query := "SELECT id, " + carColumns + ` FROM cars
		WHERE game_data IS NULL
		ORDER BY car_index ASC
		LIMIT 1 OFFSET ?`
	car, err := scanCar(r.db.QueryRow(query, offset))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

// CountUnannotated counts cars without reveal regions
func (r *CarRepository) CountUnannotated() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM cars WHERE game_data IS NULL").Scan(&count)
	return count, err
}

// DeleteDuplicates removes every car sharing make/model/year with an index
// at or above the given one. When none match it falls back to deleting the
// single car at that index. Returns the number of rows removed.
func (r *CarRepository) DeleteDuplicates(index int, make, model, year string) (int64, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM cars WHERE make = ? AND model = ? AND year = ? AND car_index >= ?",
		make, model, year, index,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		result, err := r.db.Exec(
			"DELETE FROM cars WHERE make = ? AND model = ? AND year = ? AND car_index >= ?",
			make, model, year, index,
		)
		if err != nil {
			return 0, err
		}
		return result.RowsAffected()
	}

	result, err := r.db.Exec("DELETE FROM cars WHERE car_index = ?", index)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpsertGameData attaches reveal regions and notes to a car
func (r *CarRepository) UpsertGameData(index int, regions []models.GameRegion, notes []models.Note) error {
	gameData, err := json.Marshal(regions)
	if err != nil {
		return fmt.Errorf("failed to encode game data: %w", err)
	}
	encodedNotes, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	result, err := r.db.Exec(
		"UPDATE cars SET game_data = ?, notes = ? WHERE car_index = ?",
		string(gameData), string(encodedNotes), index,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no car with index %d", index)
	}
	return nil
}

// Insert adds a new catalog entry
func (r *CarRepository) Insert(car *models.Car) error {
	query := `
		INSERT INTO cars (` + carColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		car.Index,
		car.CarID,
		car.Make,
		car.Model,
		car.Year,
		flexToColumn(car.Cylinders),
		flexToColumn(car.Displacement),
		flexToColumn(car.Drive),
		flexToColumn(car.EngDesc),
		flexToColumn(car.EngID),
		flexToColumn(car.ForcedInduction),
		flexToColumn(car.FuelType),
		flexToColumn(car.Transmission),
		flexToColumn(car.TransmissionDesc),
		flexToColumn(car.VClass),
		regionsToColumn(car.GameData),
		notesToColumn(car.Notes),
	)
	if err != nil {
		return err
	}
	car.ID = id
	return nil
}

// Count returns the total number of catalog entries
func (r *CarRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM cars").Scan(&count)
	return count, err
}

// rowScanner matches both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCar(row rowScanner) (*models.Car, error) {
	car := &models.Car{}
	var cylinders, displacement, drive, engDesc, engID sql.NullString
	var forcedInduction, fuelType, transmission, transmissionDesc, vClass sql.NullString
	var gameData, notes sql.NullString

	err := row.Scan(
		&car.ID,
		&car.Index,
		&car.CarID,
		&car.Make,
		&car.Model,
		&car.Year,
		&cylinders,
		&displacement,
		&drive,
		&engDesc,
		&engID,
		&forcedInduction,
		&fuelType,
		&transmission,
		&transmissionDesc,
		&vClass,
		&gameData,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	car.Cylinders = columnToFlex(cylinders)
	car.Displacement = columnToFlex(displacement)
	car.Drive = columnToFlex(drive)
	car.EngDesc = columnToFlex(engDesc)
	car.EngID = columnToFlex(engID)
	car.ForcedInduction = columnToFlex(forcedInduction)
	car.FuelType = columnToFlex(fuelType)
	car.Transmission = columnToFlex(transmission)
	car.TransmissionDesc = columnToFlex(transmissionDesc)
	car.VClass = columnToFlex(vClass)

	if gameData.Valid && gameData.String != "" {
		if err := json.Unmarshal([]byte(gameData.String), &car.GameData); err != nil {
			return nil, fmt.Errorf("corrupt game data for car %d: %w", car.Index, err)
		}
	}
	if notes.Valid && notes.String != "" {
		if err := json.Unmarshal([]byte(notes.String), &car.Notes); err != nil {
			return nil, fmt.Errorf("corrupt notes for car %d: %w", car.Index, err)
		}
	}

	return car, nil
}

// flexToColumn serializes a scalar-or-list attribute, NULL when absent
func flexToColumn(f models.FlexStrings) interface{} {
	if len(f) == 0 {
		return nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return string(data)
}

func columnToFlex(column sql.NullString) models.FlexStrings {
	if !column.Valid || column.String == "" {
		return nil
	}
	var f models.FlexStrings
	if err := json.Unmarshal([]byte(column.String), &f); err != nil {
		return nil
	}
	return f
}

// regionsToColumn serializes reveal regions, NULL when none so eligibility
// stays a simple IS NOT NULL check
func regionsToColumn(regions []models.GameRegion) interface{} {
	if len(regions) == 0 {
		return nil
	}
	data, err := json.Marshal(regions)
	if err != nil {
		return nil
	}
	return string(data)
}

func notesToColumn(notes []models.Note) interface{} {
	if len(notes) == 0 {
		return nil
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return nil
	}
	return string(data)
}
