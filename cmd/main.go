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

	"github.com/Dosada05/ranked-hc/auth"
	"github.com/Dosada05/ranked-hc/config"
	"github.com/Dosada05/ranked-hc/db"
	"github.com/Dosada05/ranked-hc/handlers"
	"github.com/Dosada05/ranked-hc/hub"
	"github.com/Dosada05/ranked-hc/mailer"
	"github.com/Dosada05/ranked-hc/repositories"
	api "github.com/Dosada05/ranked-hc/routes"
	"github.com/Dosada05/ranked-hc/services"
	"github.com/Dosada05/ranked-hc/storage"
	"github.com/go-chi/chi/v5"
	"github.com/itbasis/go-clock"
)

// @title Ranked Handcricket API
// @version 1.0
// @description ELO leaderboard for Handcricket players and teams with an admin surface.
// @BasePath /
func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.Migrate(ctx, dbConn); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	clk := clock.New()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	transactor := repositories.NewPostgresTransactor(dbConn)

	// Admin gate
	var secret auth.SecretVerifier
	if cfg.AdminSecretHash != "" {
		secret = auth.NewHashedSecret(cfg.AdminSecretHash)
	} else {
		secret = auth.NewPlainSecret(cfg.AdminSecret)
	}
	gateCfg := auth.GateConfig{
		Secret:       secret,
		SigningKey:   []byte(cfg.JWTSecretKey),
		RememberTTL:  cfg.RememberTTL,
		OTPTTL:       cfg.OTPTTL,
		AllowedEmail: cfg.AdminEmails,
		Sessions:     auth.NewSessionStore(cfg.SessionIdleTTL, clk),
		Clock:        clk,
		Logger:       logger,
	}
	switch cfg.MailDriver {
	case "resend":
		gateCfg.Mailer = mailer.NewResendMailer(cfg.ResendKey, cfg.MailFrom, cfg.OTPTTL)
	case "smtp":
		gateCfg.Mailer = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.MailFrom,
		}, cfg.OTPTTL)
	}
	gate := auth.NewGate(gateCfg)
	logger.Info("admin gate initialized", slog.Bool("otp_enabled", gate.OTPEnabled()), slog.String("mail_driver", cfg.MailDriver))

	// Инициализация загрузчика файлов (Cloudflare R2), без него экспорт отключён
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
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
	}

	// Инициализация WebSocket Hub
	wsHub := hub.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	leaderboardService := services.NewLeaderboardService(playerRepo, teamRepo, logger)
	rosterDeps := services.RosterServiceDeps{
		PlayerRepo:  playerRepo,
		TeamRepo:    teamRepo,
		Transactor:  transactor,
		Authorizer:  gate,
		Broadcaster: wsHub,
		Uploader:    uploader,
		Clock:       clk,
		Logger:      logger,
	}
	rosterService := services.NewRosterService(rosterDeps)
	logger.Info("Services initialized")

	authHandler := handlers.NewAuthHandler(gate)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	adminHandler := handlers.NewAdminHandler(rosterService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, cfg.CORSHosts, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Config{
			CORSHosts: cfg.CORSHosts,
			Cookies:   auth.CookieOptions{Secure: cfg.CookieSecure, MaxAge: cfg.RememberTTL},
		},
		gate,
		authHandler,
		leaderboardHandler,
		adminHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		// hijacked websocket-соединения Shutdown не закрывает
		stop()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
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
