package handlers

import (
	"encoding/json"
	"net/http"

	"cardle/internal/game"
	"cardle/internal/models"
	"cardle/internal/service"
)

// GameHandler serves the play endpoints: guessing, skipping, session
// state, aggregate stats and the shareable summary
type GameHandler struct {
	games *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// guessRequest is one submitted attempt. HardMode switches the text
// comparison from substring to exact match.
type guessRequest struct {
	Year     int    `json:"year"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	HardMode bool   `json:"hardMode"`
}

// sessionResponse is the player-facing session snapshot. Attempts use the
// year_make_model wire encoding the clients already store.
type sessionResponse struct {
	Day        string        `json:"day"`
	CarIndex   int           `json:"carIndex"`
	Attempts   []string      `json:"attempts"`
	InProgress bool          `json:"inProgress"`
	Win        bool          `json:"win"`
	WinStep    int           `json:"winStep,omitempty"`
	Budget     int           `json:"budget"`
	Notes      []models.Note `json:"notes,omitempty"`
}

type guessResponse struct {
	ValidAnswers game.ValidAnswers `json:"validAnswers"`
	Session      sessionResponse   `json:"session"`
}

func newSessionResponse(car *models.Car, sess *models.GameSession) sessionResponse {
	resp := sessionResponse{
		Day:        sess.Day.Format("2006-01-02"),
		CarIndex:   sess.CarIndex,
		Attempts:   sess.EncodeAttempts(),
		InProgress: sess.InProgress,
		Win:        sess.Win,
		WinStep:    sess.WinStep,
		Budget:     car.AttemptBudget(),
	}
	if resp.Attempts == nil {
		resp.Attempts = []string{}
	}
	// Annotations stay hidden until the game is over
	if !sess.InProgress {
		resp.Notes = car.Notes
	}
	return resp
}

// SubmitGuess handles POST /api/v1/game/guess
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	h.play(w, r, game.Guess{
		Year:     req.Year,
		Make:     req.Make,
		Model:    req.Model,
		HardMode: req.HardMode,
	})
}

// Skip handles POST /api/v1/game/skip
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.play(w, r, game.Guess{Skipped: true})
}

func (h *GameHandler) play(w http.ResponseWriter, r *http.Request, guess game.Guess) {
	playerToken := GetPlayerToken(r.Context())

	car, sess, answers, err := h.games.SubmitGuess(r.Context(), playerToken, guess)
	if err == service.ErrNoDailyGame {
		respondWithError(w, http.StatusNotFound, ErrNoGameToday, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to submit guess", err)
		return
	}

	respondWithJSON(w, http.StatusOK, guessResponse{
		ValidAnswers: answers,
		Session:      newSessionResponse(car, sess),
	})
}

// Session handles GET /api/v1/game/session
func (h *GameHandler) Session(w http.ResponseWriter, r *http.Request) {
	playerToken := GetPlayerToken(r.Context())

	car, sess, err := h.games.Session(r.Context(), playerToken)
	if err == service.ErrNoDailyGame {
		respondWithError(w, http.StatusNotFound, ErrNoGameToday, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load session", err)
		return
	}

	respondWithJSON(w, http.StatusOK, newSessionResponse(car, sess))
}

// Stats handles GET /api/v1/game/stats
func (h *GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	playerToken := GetPlayerToken(r.Context())

	summary, err := h.games.Stats(playerToken)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// Share handles GET /api/v1/game/share
func (h *GameHandler) Share(w http.ResponseWriter, r *http.Request) {
	playerToken := GetPlayerToken(r.Context())
	hardMode := r.URL.Query().Get("hardMode") == "true"

	text, err := h.games.ShareText(r.Context(), playerToken, hardMode)
	if err == service.ErrNoDailyGame {
		respondWithError(w, http.StatusNotFound, ErrNoGameToday, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to build share text", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"text": text})
}
