package service

import (
	"context"
	"errors"
	"log"

	"cardle/internal/game"
	"cardle/internal/models"
	"cardle/internal/repository"
)

// ErrNoDailyGame signals that no car is assigned for today and none could
// be assigned on demand
var ErrNoDailyGame = errors.New("no daily game available")

// GameService orchestrates play: it loads today's car, replays persisted
// sessions, routes guesses through the engine and persists the outcome.
type GameService struct {
	engine   *game.Engine
	cars     *repository.CarRepository
	sessions *repository.SessionRepository
	stats    *repository.StatsRepository
	daily    *DailyService
}

// NewGameService creates a new game service. Streak bookkeeping hangs off
// the engine's transition hooks so every win and loss settles the
// player's counters exactly once.
func NewGameService(engine *game.Engine, cars *repository.CarRepository, sessions *repository.SessionRepository, stats *repository.StatsRepository, daily *DailyService) *GameService {
	s := &GameService{
		engine:   engine,
		cars:     cars,
		sessions: sessions,
		stats:    stats,
		daily:    daily,
	}
	engine.OnWin(s.settleWin)
	engine.OnLoss(s.settleLoss)
	engine.OnAllSkipped(func(sess *models.GameSession) {
		log.Printf("Player %s skipped every attempt for car %d", sess.PlayerToken, sess.CarIndex)
	})
	return s
}

// TodaysCar returns the car assigned to today, assigning one on demand
// when the schedule has not run yet
func (s *GameService) TodaysCar(ctx context.Context) (*models.Car, error) {
	assignment, err := s.daily.EnsureToday(ctx)
	if err != nil {
		if err == ErrNoEligibleCar {
			return nil, ErrNoDailyGame
		}
		return nil, err
	}

	car, err := s.cars.FindByIndex(assignment.CarIndex)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNoDailyGame
	}
	return car, nil
}

// Session returns the player's session for today's car, starting a fresh
// one when none is persisted. A fresh session is not stored until the
// first guess comes in.
func (s *GameService) Session(ctx context.Context, playerToken string) (*models.Car, *models.GameSession, error) {
	car, err := s.TodaysCar(ctx)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Find(playerToken, car.Index)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		sess = game.NewSession(playerToken, car, s.daily.Today())
	}
	return car, sess, nil
}

// SubmitGuess plays one guess against today's car and persists the full
// session snapshot
func (s *GameService) SubmitGuess(ctx context.Context, playerToken string, guess game.Guess) (*models.Car, *models.GameSession, game.ValidAnswers, error) {
	car, sess, err := s.Session(ctx, playerToken)
	if err != nil {
		return nil, nil, game.ValidAnswers{}, err
	}

	answers := s.engine.SubmitGuess(car, sess, guess)

	if err := s.sessions.Save(sess); err != nil {
		return nil, nil, game.ValidAnswers{}, err
	}
	return car, sess, answers, nil
}

// Stats returns the player's aggregate view across all completed sessions
func (s *GameService) Stats(playerToken string) (models.StatsSummary, error) {
	sessions, err := s.sessions.ListByPlayer(playerToken)
	if err != nil {
		return models.StatsSummary{}, err
	}

	counters, err := s.stats.Get(playerToken)
	if err != nil {
		return models.StatsSummary{}, err
	}
	if counters == nil {
		counters = &models.PlayerStats{PlayerToken: playerToken}
	}

	return game.Summarize(sessions, *counters), nil
}

// ShareText renders the player's shareable summary for today's game
func (s *GameService) ShareText(ctx context.Context, playerToken string, hardMode bool) (string, error) {
	car, sess, err := s.Session(ctx, playerToken)
	if err != nil {
		return "", err
	}
	return s.engine.ShareText(car, sess, hardMode), nil
}

func (s *GameService) settleWin(sess *models.GameSession) {
	counters, err := s.stats.Get(sess.PlayerToken)
	if err != nil {
		log.Printf("Failed to load stats for %s: %v", sess.PlayerToken, err)
		return
	}
	if counters == nil {
		counters = &models.PlayerStats{PlayerToken: sess.PlayerToken}
	}
	game.UpdateStreakOnWin(counters, sess.Day)
	if err := s.stats.Save(counters); err != nil {
		log.Printf("Failed to save stats for %s: %v", sess.PlayerToken, err)
	}
}

func (s *GameService) settleLoss(sess *models.GameSession) {
	counters, err := s.stats.Get(sess.PlayerToken)
	if err != nil {
		log.Printf("Failed to load stats for %s: %v", sess.PlayerToken, err)
		return
	}
	if counters == nil {
		counters = &models.PlayerStats{PlayerToken: sess.PlayerToken}
	}
	game.UpdateStreakOnLoss(counters, sess.Day)
	if err := s.stats.Save(counters); err != nil {
		log.Printf("Failed to save stats for %s: %v", sess.PlayerToken, err)
	}
}
