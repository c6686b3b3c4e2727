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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/mkcho/worldcup-backend/auth"
	"github.com/mkcho/worldcup-backend/config"
	"github.com/mkcho/worldcup-backend/db"
	"github.com/mkcho/worldcup-backend/handlers"
	"github.com/mkcho/worldcup-backend/live"
	"github.com/mkcho/worldcup-backend/ratelimit"
	"github.com/mkcho/worldcup-backend/repositories"
	api "github.com/mkcho/worldcup-backend/routes"
	"github.com/mkcho/worldcup-backend/services"
	"github.com/mkcho/worldcup-backend/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("env", cfg.Env))

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

	if err := db.Migrate(dbConn, cfg.MigrationsDir); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := live.NewHub(logger)
	go hub.Run()

	// Репозитории
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	imageRepo := repositories.NewPostgresImageRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	commentRepo := repositories.NewPostgresCommentRepository(dbConn)
	txRunner := repositories.NewTxRunner(dbConn)

	// Admission control: у результатов и комментариев независимые лимитеры.
	resultLimiter := ratelimit.New(ratelimit.ThreeWindows(
		cfg.ResultLimits.PerMinute, cfg.ResultLimits.PerHour, cfg.ResultLimits.PerDay,
	))
	commentLimiter := ratelimit.New(ratelimit.ThreeWindows(
		cfg.CommentLimits.PerMinute, cfg.CommentLimits.PerHour, cfg.CommentLimits.PerDay,
	))

	// Сервисы
	sessions := auth.NewMemorySessionStore()
	verifier := auth.NewJWTVerifier(cfg.AuthJWTSecret)
	resolver := services.NewShortIDResolver(tournamentRepo, logger)

	adminService := services.NewAdminService(verifier, sessions, cfg.AdminEmails, cfg.AdminPasswordHash, logger)
	tournamentService := services.NewTournamentService(txRunner, tournamentRepo, imageRepo, resolver, logger)
	resultService := services.NewResultService(resolver, resultRepo, imageRepo, resultLimiter, hub, logger)
	commentService := services.NewCommentService(resolver, commentRepo, resultRepo, commentLimiter, services.CommentLimits{
		MaxContentLength:  cfg.CommentMaxLength,
		MaxNicknameLength: cfg.NicknameMaxLength,
	}, hub, logger)

	// Обработчики
	adminHandler := handlers.NewAdminHandler(adminService, tournamentService, uploader, cfg.IsProduction())
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	resultHandler := handlers.NewResultHandler(resultService)
	commentHandler := handlers.NewCommentHandler(commentService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, resolver, cfg.FrontendOrigin, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.FrontendOrigin,
		sessions,
		adminHandler,
		tournamentHandler,
		resultHandler,
		commentHandler,
		webSocketHandler,
	)
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
}
