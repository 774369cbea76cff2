package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"cardle/internal/models"
	"cardle/internal/repository"
)

// ErrNoEligibleCar signals that the selector ran out of attempts without
// finding an unused car with reveal regions
var ErrNoEligibleCar = errors.New("no eligible car available for daily game")

// lowCatalogThreshold is the number of remaining eligible cars below
// which the operator gets a heads-up alert
const lowCatalogThreshold = 14

// DailyService assigns one car per day. Selection is idempotent: however
// many callers race, a day ends up with exactly one assignment and every
// caller sees it.
type DailyService struct {
	cars   *repository.CarRepository
	daily  *repository.DailyRepository
	alerts *AlertService

	maxRetries int
	interval   time.Duration
	stop       chan struct{}
}

// NewDailyService creates a new daily selection service
func NewDailyService(cars *repository.CarRepository, daily *repository.DailyRepository, alerts *AlertService, maxRetries int, interval time.Duration) *DailyService {
	if maxRetries <= 0 {
		maxRetries = 32
	}
	return &DailyService{
		cars:       cars,
		daily:      daily,
		alerts:     alerts,
		maxRetries: maxRetries,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

// Today returns the current day truncated to local midnight
func (s *DailyService) Today() time.Time {
	return StartOfDay(time.Now())
}

// EnsureToday returns today's assignment, creating it if needed
func (s *DailyService) EnsureToday(ctx context.Context) (*models.DailyGame, error) {
	return s.EnsureFor(ctx, s.Today())
}

// EnsureFor returns the assignment for the given day, picking a car when
// none exists yet. Each attempt re-checks the day first, so a concurrent
// winner's assignment is returned instead of a duplicate.
func (s *DailyService) EnsureFor(ctx context.Context, day time.Time) (*models.DailyGame, error) {
	day = StartOfDay(day)

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		existing, err := s.daily.FindForDay(day)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		count, err := s.cars.CountEligible()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			break
		}

		car, err := s.cars.FindEligibleAtOffset(rand.Intn(count))
		if err != nil {
			return nil, err
		}
		if car == nil {
			continue
		}

		// Cars already used on an earlier day stay in the catalog, so
		// a random draw can land on one. Draw again.
		used, err := s.daily.FindByCarIndex(car.Index)
		if err != nil {
			return nil, err
		}
		if used != nil {
			continue
		}

		game, err := s.daily.Insert(day, car.Index)
		if err == repository.ErrDayAlreadySet {
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Printf("Daily game for %s: car %d (%s %s %s)",
			day.Format(repository.DayKeyFormat), car.Index, car.Year, car.Make, car.Model)
		s.checkCatalogLevel(ctx, count)
		return game, nil
	}

	if err := s.alerts.SendSelectionFailure(ctx, day, s.maxRetries, ErrNoEligibleCar); err != nil {
		log.Printf("Failed to send selection failure alert: %v", err)
	}
	return nil, ErrNoEligibleCar
}

// checkCatalogLevel alerts the operator when few unused eligible cars remain
func (s *DailyService) checkCatalogLevel(ctx context.Context, eligible int) {
	history, err := s.daily.History()
	if err != nil {
		log.Printf("Failed to check catalog level: %v", err)
		return
	}
	remaining := eligible - len(history)
	if remaining > lowCatalogThreshold {
		return
	}
	if err := s.alerts.SendCatalogLow(ctx, remaining); err != nil {
		log.Printf("Failed to send low catalog alert: %v", err)
	}
}

// Start runs the selector immediately and then on a fixed schedule until
// Stop is called. The schedule covers day rollover while the server runs.
func (s *DailyService) Start() {
	go func() {
		s.runOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stop:
				return
			}
		}
	}()
	log.Printf("Daily selector started (every %s)", s.interval)
}

// Stop halts the selection schedule
func (s *DailyService) Stop() {
	close(s.stop)
}

func (s *DailyService) runOnce() {
	if _, err := s.EnsureToday(context.Background()); err != nil {
		log.Printf("Daily selection failed: %v", err)
	}
}

// StartOfDay truncates a timestamp to local midnight
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
