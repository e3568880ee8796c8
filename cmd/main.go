package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/dropzone-gg/warzone-tournaments/config"
	"github.com/dropzone-gg/warzone-tournaments/db"
	"github.com/dropzone-gg/warzone-tournaments/handlers"
	"github.com/dropzone-gg/warzone-tournaments/live"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
	api "github.com/dropzone-gg/warzone-tournaments/routes"
	"github.com/dropzone-gg/warzone-tournaments/services"
	"github.com/dropzone-gg/warzone-tournaments/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Evidence storage is optional: without R2 credentials the upload
	// endpoint answers 503 and everything else keeps working.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2Bucket,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2Bucket))
	} else {
		logger.Warn("R2 credentials not configured, evidence uploads disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	adjustmentRepo := repositories.NewPostgresAdjustmentRepository(dbConn)
	playerStatRepo := repositories.NewPostgresPlayerStatRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)
	txRunner := repositories.NewSQLTxRunner(dbConn)

	authService := services.NewAuthService(userRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, auditRepo, logger)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, adjustmentRepo, auditRepo)
	leaderboardService := services.NewLeaderboardService(tournamentRepo, teamRepo, matchRepo, adjustmentRepo)
	notifier := live.NewLeaderboardBroadcaster(wsHub, leaderboardService, logger)
	matchService := services.NewMatchService(
		txRunner,
		matchRepo,
		teamRepo,
		tournamentRepo,
		playerStatRepo,
		auditRepo,
		notifier,
		logger,
	)
	logger.Info("services initialized")

	jwtSecret := []byte(cfg.JWTSecretKey)
	router := api.SetupRoutes(api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, jwtSecret),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Team:        handlers.NewTeamHandler(teamService),
		Match:       handlers.NewMatchHandler(matchService, teamService, uploader),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		WebSocket:   handlers.NewWebSocketHandler(wsHub, tournamentService, logger),
	}, jwtSecret)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
