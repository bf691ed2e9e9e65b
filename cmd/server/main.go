package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cofocus/focusd/internal/auth"
	"github.com/cofocus/focusd/internal/config"
	"github.com/cofocus/focusd/internal/domain/goal"
	"github.com/cofocus/focusd/internal/domain/reflection"
	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/domain/unlock"
	"github.com/cofocus/focusd/internal/event"
	"github.com/cofocus/focusd/internal/sqlite"
	"github.com/cofocus/focusd/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := sqlite.NewUserRepository(db)
	tokenRepo := sqlite.NewTokenRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	participantRepo := sqlite.NewParticipantRepository(db)
	unlockRepo := sqlite.NewUnlockRepository(db)
	goalRepo := sqlite.NewGoalRepository(db)
	reflectionRepo := sqlite.NewReflectionRepository(db)

	bus := event.NewBus()

	authSvc := auth.NewService(userRepo, tokenRepo, logger)
	sessionSvc := session.NewService(sessionRepo, participantRepo, bus, logger)
	unlockSvc := unlock.NewService(unlockRepo, sessionSvc, authSvc, bus, logger)
	goalSvc := goal.NewService(goalRepo, logger)
	reflectionSvc := reflection.NewService(reflectionRepo, logger)

	router := transport.NewRouter(transport.Services{
		Auth:        authSvc,
		Sessions:    sessionSvc,
		Unlock:      unlockSvc,
		Goals:       goalSvc,
		Reflections: reflectionSvc,
	}, bus, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
