package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cardle/internal/game"
	"cardle/internal/models"
	"cardle/internal/repository"
	"cardle/internal/service"
)

// CarsHandler serves the catalog endpoints: make and model lists, the
// daily game payload, image search and the admin annotation workflow
type CarsHandler struct {
	catalog    *service.CatalogService
	cars       *repository.CarRepository
	games      *service.GameService
	imagesPath string
	httpClient *http.Client
}

// NewCarsHandler creates a new cars handler
func NewCarsHandler(catalog *service.CatalogService, cars *repository.CarRepository, games *service.GameService, imagesPath string) *CarsHandler {
	return &CarsHandler{
		catalog:    catalog,
		cars:       cars,
		games:      games,
		imagesPath: imagesPath,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Makes handles GET /api/v1/cars/makes
func (h *CarsHandler) Makes(w http.ResponseWriter, r *http.Request) {
	makes, err := h.catalog.Makes()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list makes", err)
		return
	}
	if makes == nil {
		makes = []string{}
	}
	respondWithJSON(w, http.StatusOK, makes)
}

// Models handles GET /api/v1/cars/models/{make}
func (h *CarsHandler) Models(w http.ResponseWriter, r *http.Request) {
	carMake := r.PathValue("make")
	if carMake == "" {
		respondWithError(w, http.StatusBadRequest, "Make is required", "", nil)
		return
	}

	carModels, err := h.catalog.Models(carMake)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list models", err)
		return
	}
	if carModels == nil {
		carModels = []string{}
	}
	respondWithJSON(w, http.StatusOK, carModels)
}

// todaysGameResponse is the public daily game payload. The answer fields
// never appear here; guesses are evaluated server side.
type todaysGameResponse struct {
	Day         string              `json:"day"`
	GameData    []models.GameRegion `json:"gameData"`
	Budget      int                 `json:"budget"`
	Hints       map[string]string   `json:"hints"`
	ResetRegion string              `json:"resetRegion"`
}

// TodaysGame handles GET /api/v1/cars/todaysGame
func (h *CarsHandler) TodaysGame(w http.ResponseWriter, r *http.Request) {
	car, err := h.games.TodaysCar(r.Context())
	if err == service.ErrNoDailyGame {
		respondWithError(w, http.StatusNotFound, ErrNoGameToday, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load daily game", err)
		return
	}

	respondWithJSON(w, http.StatusOK, todaysGameResponse{
		Day:         time.Now().Format("2006-01-02"),
		GameData:    car.GameData,
		Budget:      car.AttemptBudget(),
		Hints:       game.Hints(car),
		ResetRegion: resetRegion(),
	})
}

// resetRegion names the timezone whose midnight rolls the game over
func resetRegion() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	return time.Now().Location().String()
}

// SearchImages handles GET /api/v1/cars/getImages/{query}
func (h *CarsHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Search query is required", "", nil)
		return
	}

	urls, err := h.catalog.SearchImages(r.Context(), query)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Image search failed", "Image search failed", err)
		return
	}
	if urls == nil {
		urls = []string{}
	}
	respondWithJSON(w, http.StatusOK, urls)
}

// Unannotated handles GET /api/v1/cars/unannotated. It feeds the crop
// tool a random catalog entry that still lacks reveal regions.
func (h *CarsHandler) Unannotated(w http.ResponseWriter, r *http.Request) {
	count, err := h.cars.CountUnannotated()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to count cars", err)
		return
	}
	if count == 0 {
		respondWithError(w, http.StatusNotFound, "No unannotated cars left", "", nil)
		return
	}

	car, err := h.cars.FindUnannotatedAtOffset(rand.Intn(count))
	if err != nil || car == nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load car", err)
		return
	}
	respondWithJSON(w, http.StatusOK, car)
}

// deleteRequest identifies the duplicate group to remove
type deleteRequest struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  string `json:"year"`
}

// Delete handles DELETE /api/v1/cars/{index}. Every entry sharing the
// given make, model and year from the index upward goes; with no match
// only the single entry at the index is removed.
func (h *CarsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid car index", "", err)
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	removed, err := h.cars.DeleteDuplicates(index, req.Make, req.Model, req.Year)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to delete cars", err)
		return
	}

	h.catalog.Invalidate()
	log.Printf("Admin %s deleted %d cars (index %d, %s %s %s)",
		GetAdminUser(r.Context()), removed, index, req.Year, req.Make, req.Model)
	respondWithJSON(w, http.StatusOK, map[string]int64{"deleted": removed})
}

// regionUpload is one uploaded annotation. Entries with a width are
// reveal regions; entries carrying only text are completion notes.
type regionUpload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ImgURL string  `json:"imgUrl"`
	Notes  string  `json:"notes"`
}

// Annotate handles POST /api/v1/cars/{index}. Region images are fetched
// from their source URL and stored locally under a fresh name; regions
// whose image cannot be fetched are dropped rather than failing the
// whole upload.
func (h *CarsHandler) Annotate(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid car index", "", err)
		return
	}

	var uploads []regionUpload
	if err := json.NewDecoder(r.Body).Decode(&uploads); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	var regions []models.GameRegion
	var notes []models.Note
	for _, u := range uploads {
		if u.Width == 0 && u.ImgURL == "" {
			if u.Notes != "" {
				notes = append(notes, models.Note{Notes: u.Notes})
			}
			continue
		}

		localURL, err := h.downloadImage(u.ImgURL)
		if err != nil {
			log.Printf("Skipping region for car %d: %v", index, err)
			continue
		}
		regions = append(regions, models.GameRegion{
			X: u.X, Y: u.Y, Width: u.Width, Height: u.Height,
			ImgURL: localURL,
		})
	}

	if len(regions) == 0 {
		respondWithError(w, http.StatusBadRequest, "No usable regions in upload", "", nil)
		return
	}

	if err := h.cars.UpsertGameData(index, regions, notes); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to store game data", err)
		return
	}

	log.Printf("Admin %s annotated car %d: %d regions, %d notes",
		GetAdminUser(r.Context()), index, len(regions), len(notes))
	respondWithJSON(w, http.StatusOK, map[string]int{"regions": len(regions), "notes": len(notes)})
}

// downloadImage fetches a region image and stores it under the images
// directory with a generated name, returning the serving path
func (h *CarsHandler) downloadImage(srcURL string) (string, error) {
	if srcURL == "" {
		return "", fmt.Errorf("empty image URL")
	}

	resp, err := h.httpClient.Get(srcURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", srcURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status %d", srcURL, resp.StatusCode)
	}

	ext := path.Ext(srcURL)
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	filename := uuid.New().String() + ext

	if err := os.MkdirAll(h.imagesPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	file, err := os.Create(filepath.Join(h.imagesPath, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, io.LimitReader(resp.Body, 20<<20)); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return "/imgs/" + filename, nil
}
