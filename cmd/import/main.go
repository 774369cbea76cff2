package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"cardle/internal/config"
	"cardle/internal/database"
	"cardle/internal/models"
	"cardle/internal/repository"
)

// Catalog importer: loads a vehicle dataset JSON file into the cars
// table. Entries without an index get the next free one so repeated
// imports can grow the catalog.
func main() {
	input := flag.String("input", "", "Vehicle dataset JSON file (required)")
	flag.Parse()

	if *input == "" {
		fmt.Println("Error: -input flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cars, err := loadDataset(*input)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d vehicles from %s", len(cars), *input)

	repo := repository.NewCarRepository(db)

	existing, err := repo.Count()
	if err != nil {
		log.Fatalf("Failed to count existing cars: %v", err)
	}
	nextIndex := existing + 1

	imported, skipped := 0, 0
	for _, car := range cars {
		if car.Make == "" || car.Model == "" || car.Year == "" {
			skipped++
			continue
		}
		if car.Index == 0 {
			car.Index = nextIndex
			nextIndex++
		}
		if err := repo.Insert(car); err != nil {
			log.Printf("Skipping car %d (%s %s %s): %v", car.Index, car.Year, car.Make, car.Model, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

// loadDataset reads the vehicle file, accepting both a bare array and a
// wrapper object with a docs list
func loadDataset(path string) ([]*models.Car, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cars []*models.Car
	if err := json.Unmarshal(data, &cars); err == nil {
		return cars, nil
	}

	var wrapper struct {
		Docs []*models.Car `json:"docs"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("unrecognized dataset format: %w", err)
	}
	return wrapper.Docs, nil
}
