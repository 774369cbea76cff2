package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cardle/internal/database"
	"cardle/internal/models"
	"cardle/internal/repository"
)

func setupServiceDB(t *testing.T) *database.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func disabledAlerts(t *testing.T) *AlertService {
	t.Helper()
	alerts, err := NewAlertService("eu-west-1", "", "")
	if err != nil {
		t.Fatalf("Failed to create alert service: %v", err)
	}
	return alerts
}

func seedEligibleCar(t *testing.T, cars *repository.CarRepository, index int, model string) {
	t.Helper()
	car := &models.Car{
		Index: index,
		Make:  "Ford",
		Model: model,
		Year:  "1969",
		GameData: []models.GameRegion{
			{X: 0, Y: 0, Width: 10, Height: 10, ImgURL: "/imgs/a.jpg"},
			{X: 0, Y: 0, Width: 20, Height: 20, ImgURL: "/imgs/b.jpg"},
		},
	}
	if err := cars.Insert(car); err != nil {
		t.Fatalf("Failed to seed car %d: %v", index, err)
	}
}

func TestDailySelectionIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupServiceDB(t)
	cars := repository.NewCarRepository(db)
	daily := repository.NewDailyRepository(db)
	seedEligibleCar(t, cars, 1, "Mustang")
	seedEligibleCar(t, cars, 2, "Escort")
	seedEligibleCar(t, cars, 3, "Capri")

	svc := NewDailyService(cars, daily, disabledAlerts(t), 32, time.Minute)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.EnsureFor(context.Background(), day)
	if err != nil {
		t.Fatalf("First selection failed: %v", err)
	}

	second, err := svc.EnsureFor(context.Background(), day)
	if err != nil {
		t.Fatalf("Second selection failed: %v", err)
	}
	if second.CarIndex != first.CarIndex {
		t.Errorf("Selection not idempotent: %d then %d", first.CarIndex, second.CarIndex)
	}
}

func TestDailySelectionConcurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupServiceDB(t)
	cars := repository.NewCarRepository(db)
	daily := repository.NewDailyRepository(db)
	for i := 1; i <= 10; i++ {
		seedEligibleCar(t, cars, i, "Model"+string(rune('A'+i)))
	}

	svc := NewDailyService(cars, daily, disabledAlerts(t), 32, time.Minute)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// However many selectors race, the day settles on one car
	var wg sync.WaitGroup
	results := make([]int, 8)
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			game, err := svc.EnsureFor(context.Background(), day)
			if err != nil {
				errs[n] = err
				return
			}
			results[n] = game.CarIndex
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Concurrent selection %d failed: %v", i, err)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("Concurrent selectors disagree: %v", results)
			break
		}
	}
}

func TestDailySelectionNeverRepeatsCar(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupServiceDB(t)
	cars := repository.NewCarRepository(db)
	daily := repository.NewDailyRepository(db)
	seedEligibleCar(t, cars, 1, "Mustang")
	seedEligibleCar(t, cars, 2, "Escort")
	seedEligibleCar(t, cars, 3, "Capri")

	svc := NewDailyService(cars, daily, disabledAlerts(t), 32, time.Minute)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	used := make(map[int]bool)
	for i := 0; i < 3; i++ {
		game, err := svc.EnsureFor(context.Background(), start.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("Selection for day %d failed: %v", i, err)
		}
		if used[game.CarIndex] {
			t.Errorf("Car %d selected twice", game.CarIndex)
		}
		used[game.CarIndex] = true
	}

	// With the whole catalog used the selector gives up within its bound
	_, err := svc.EnsureFor(context.Background(), start.AddDate(0, 0, 3))
	if err != ErrNoEligibleCar {
		t.Errorf("Expected ErrNoEligibleCar with exhausted catalog, got %v", err)
	}
}

func TestDailySelectionEmptyCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupServiceDB(t)
	cars := repository.NewCarRepository(db)
	daily := repository.NewDailyRepository(db)

	svc := NewDailyService(cars, daily, disabledAlerts(t), 32, time.Minute)

	_, err := svc.EnsureFor(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != ErrNoEligibleCar {
		t.Errorf("Expected ErrNoEligibleCar for empty catalog, got %v", err)
	}
}

func TestStartOfDay(t *testing.T) {
	evening := time.Date(2024, 6, 1, 23, 45, 12, 999, time.UTC)
	got := StartOfDay(evening)
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay(%v) = %v, want %v", evening, got, want)
	}
}
