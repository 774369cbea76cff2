package game

import (
	"strconv"
	"strings"
	"time"

	"cardle/internal/models"
)

// ValidAnswers is the per-attempt evaluation result. A nil field means the
// guess was not evaluated this round.
type ValidAnswers struct {
	Make  *bool `json:"make"`
	Model *bool `json:"model"`
	Year  *bool `json:"year"`
}

// Guess is one submitted attempt
type Guess struct {
	Year     int
	Make     string
	Model    string
	Skipped  bool
	HardMode bool
}

// Engine drives game sessions through NotStarted -> InProgress -> Won/Lost.
// Transitions mutate the session in place; callers persist the full
// snapshot after every call. Side effects hang off the observer hooks so
// the transitions themselves stay pure.
type Engine struct {
	rules        Rules
	onWin        []func(*models.GameSession)
	onLoss       []func(*models.GameSession)
	onAllSkipped []func(*models.GameSession)
}

// NewEngine creates a session engine with the given comparison rules
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the engine's comparison rules
func (e *Engine) Rules() Rules {
	return e.rules
}

// OnWin registers a callback fired when a session transitions to Won
func (e *Engine) OnWin(fn func(*models.GameSession)) {
	e.onWin = append(e.onWin, fn)
}

// OnLoss registers a callback fired when a session transitions to Lost
func (e *Engine) OnLoss(fn func(*models.GameSession)) {
	e.onLoss = append(e.onLoss, fn)
}

// OnAllSkipped registers a callback fired when a session ends with every
// attempt skipped
func (e *Engine) OnAllSkipped(fn func(*models.GameSession)) {
	e.onAllSkipped = append(e.onAllSkipped, fn)
}

// NewSession initializes a fresh in-progress session for the day's car
func NewSession(playerToken string, car *models.Car, day time.Time) *models.GameSession {
	return &models.GameSession{
		PlayerToken: playerToken,
		CarIndex:    car.Index,
		Day:         startOfDay(day),
		Attempts:    []models.Attempt{},
		InProgress:  true,
	}
}

// SubmitGuess evaluates one guess against the car and advances the
// session. It is a no-op on a missing car or a session that already left
// InProgress.
func (e *Engine) SubmitGuess(car *models.Car, sess *models.GameSession, g Guess) ValidAnswers {
	if car == nil || sess == nil || !sess.InProgress || sess.Win {
		return ValidAnswers{}
	}

	budget := car.AttemptBudget()
	guessMake := strings.TrimSpace(g.Make)
	guessModel := strings.TrimSpace(g.Model)

	unevaluated := guessMake == "" && guessModel == ""
	if e.rules.RequireBothFields {
		unevaluated = guessMake == "" || guessModel == ""
	}

	if unevaluated {
		attempt := models.Attempt{Skipped: true}
		if !g.Skipped {
			// Raw empty guess, preserved as submitted
			attempt = models.Attempt{Year: strconv.Itoa(g.Year), Make: guessMake, Model: guessModel}
		}
		sess.Attempts = append(sess.Attempts, attempt)
		if len(sess.Attempts) >= budget {
			e.lose(sess)
		}
		return ValidAnswers{}
	}

	answerYear := ParseYear(car.Year)
	makeMatch := CompareText(car.Make, guessMake, g.HardMode)
	modelMatch := CompareText(car.Model, guessModel, g.HardMode)
	yearMatch := e.rules.CompareYear(answerYear, g.Year, g.HardMode)

	// Matched fields snap to the canonical answer so a lenient hit
	// converges on the exact value in the attempt history.
	attempt := models.Attempt{Year: strconv.Itoa(g.Year), Make: guessMake, Model: guessModel}
	if makeMatch {
		attempt.Make = car.Make
	}
	if modelMatch {
		attempt.Model = car.Model
	}
	if yearMatch {
		attempt.Year = car.Year
	}
	sess.Attempts = append(sess.Attempts, attempt)

	if makeMatch && modelMatch && yearMatch {
		sess.Win = true
		sess.WinStep = len(sess.Attempts)
		sess.InProgress = false
		for _, fn := range e.onWin {
			fn(sess)
		}
	} else if len(sess.Attempts) >= budget {
		e.lose(sess)
	}

	return ValidAnswers{Make: &makeMatch, Model: &modelMatch, Year: &yearMatch}
}

func (e *Engine) lose(sess *models.GameSession) {
	sess.InProgress = false
	sess.Win = false
	if sess.AllSkipped() {
		for _, fn := range e.onAllSkipped {
			fn(sess)
		}
	}
	for _, fn := range e.onLoss {
		fn(sess)
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
