package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/botdesk/botdesk/internal/api"
	"github.com/botdesk/botdesk/internal/assistant"
	"github.com/botdesk/botdesk/internal/auth"
	"github.com/botdesk/botdesk/internal/config"
	"github.com/botdesk/botdesk/internal/repository"
	"github.com/botdesk/botdesk/internal/service"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	botRepo := repository.NewBotRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Assistant backend client: constructed once here and injected, it has
	// no lifecycle beyond the process.
	backend := assistant.NewClient(cfg.Assistant.BaseURL, cfg.Assistant.APIKey)

	// Credential verification
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	box := auth.NewSecretBox(cfg.Widget.EncryptionKey)
	verifier := auth.NewVerifier(tokens, box)

	// Initialize services
	accountService := service.NewAccountService(userRepo, tokens, cfg.Auth.BcryptCost, logger)
	botService := service.NewBotService(botRepo, backend, cfg.Assistant, logger)
	widgetService := service.NewWidgetService(botRepo, box, cfg.Server, logger)
	sessionService := service.NewSessionService(sessionRepo, backend, logger)
	runService := service.NewRunService(backend, cfg.Assistant)
	chatService := service.NewChatService(botRepo, sessionService, runService, cfg.Assistant, logger)

	// Setup router
	router := api.SetupRouter(accountService, botService, widgetService, chatService, verifier, api.RouterConfig{
		TokenTTL:     cfg.Auth.TokenTTL,
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server. WriteTimeout stays zero: the chat endpoint holds
	// its connection open for the whole relay loop.
	srv := &http.Server{
		Addr:        cfg.Address(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting botdesk server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
