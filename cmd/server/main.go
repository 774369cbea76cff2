package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardle/internal/config"
	"cardle/internal/database"
	"cardle/internal/game"
	"cardle/internal/handlers"
	"cardle/internal/repository"
	"cardle/internal/security"
	"cardle/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	carRepo := repository.NewCarRepository(db)
	dailyRepo := repository.NewDailyRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize services
	alertService, err := service.NewAlertService(cfg.AWSRegion, cfg.AlertFromEmail, cfg.AlertToEmail)
	if err != nil {
		log.Fatalf("Failed to initialize alert service: %v", err)
	}
	dailyService := service.NewDailyService(carRepo, dailyRepo, alertService, cfg.SelectMaxRetries, cfg.SelectInterval)
	catalogService := service.NewCatalogService(carRepo)
	backupService := service.NewBackupService(db)

	engine := game.NewEngine(game.DefaultRules())
	gameService := service.NewGameService(engine, carRepo, sessionRepo, statsRepo, dailyService)

	// Initialize handlers
	limiter := security.NewRateLimiter(60, time.Minute)
	middleware := handlers.NewMiddleware(cfg.JWTSecret, limiter)
	carsHandler := handlers.NewCarsHandler(catalogService, carRepo, gameService, cfg.ImagesPath)
	gameHandler := handlers.NewGameHandler(gameService)
	authHandler := handlers.NewAuthHandler(cfg, backupService)

	// Setup routes
	mux := http.NewServeMux()

	// Reveal images
	mux.Handle("GET /imgs/", http.StripPrefix("/imgs/", http.FileServer(http.Dir(cfg.ImagesPath))))

	// Catalog routes
	mux.HandleFunc("GET /api/v1/cars/makes", carsHandler.Makes)
	mux.HandleFunc("GET /api/v1/cars/models/{make}", carsHandler.Models)
	mux.HandleFunc("GET /api/v1/cars/todaysGame", carsHandler.TodaysGame)

	// Play routes
	mux.HandleFunc("POST /api/v1/game/guess", middleware.RateLimit(middleware.WithPlayer(gameHandler.SubmitGuess)))
	mux.HandleFunc("POST /api/v1/game/skip", middleware.RateLimit(middleware.WithPlayer(gameHandler.Skip)))
	mux.HandleFunc("GET /api/v1/game/session", middleware.WithPlayer(gameHandler.Session))
	mux.HandleFunc("GET /api/v1/game/stats", middleware.WithPlayer(gameHandler.Stats))
	mux.HandleFunc("GET /api/v1/game/share", middleware.WithPlayer(gameHandler.Share))

	// Admin routes
	mux.HandleFunc("POST /api/v1/admin/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/v1/cars/getImages/{query}", middleware.RequireAdmin(carsHandler.SearchImages))
	mux.HandleFunc("GET /api/v1/cars/unannotated", middleware.RequireAdmin(carsHandler.Unannotated))
	mux.HandleFunc("POST /api/v1/cars/{index}", middleware.RequireAdmin(carsHandler.Annotate))
	mux.HandleFunc("DELETE /api/v1/cars/{index}", middleware.RequireAdmin(carsHandler.Delete))
	mux.HandleFunc("GET /api/v1/admin/backup", middleware.RequireAdmin(authHandler.ExportBackup))
	mux.HandleFunc("POST /api/v1/admin/restore", middleware.RequireAdmin(authHandler.ImportBackup))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Pick today's car now and keep the schedule running for rollover
	dailyService.Start()
	defer dailyService.Stop()

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
