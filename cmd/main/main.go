package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	baseLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// A missing .env file is not an error; env vars are optional overrides.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		baseLogger.Warn("Failed to load .env file", "error", err)
	}

	actionChan := make(chan string, 1)

	go func() {
		osSignalChan := make(chan os.Signal, 1)
		signal.Notify(osSignalChan, syscall.SIGINT, syscall.SIGTERM)
		<-osSignalChan // Wait for a signal
		baseLogger.Info("OS signal received, initiating shutdown.")
		actionChan <- actionShutdown
	}()

	for {
		action, err := run(actionChan)
		if err != nil {
			baseLogger.Error("An error occurred during server run, shutting down.", "error", err)
			break
		}

		if action == actionRestart {
			baseLogger.Info("--- Server Restarting ---")
			continue
		} else {
			break
		}
	}

	baseLogger.Info("Nextword has shut down.")
}

// applyEnvOverrides lets deployment environments tweak the loaded config
// without editing config.json.
func applyEnvOverrides(config *Config) {
	if addr := os.Getenv("NEXTWORD_ADDR"); addr != "" {
		config.Server.Addr = addr
	}
	if level := os.Getenv("NEXTWORD_LOG_LEVEL"); level != "" {
		config.Server.LogLevel = level
	}
	if token := os.Getenv("NEXTWORD_ADMIN_TOKEN"); token != "" {
		config.Server.AdminToken = token
	}
}

// run is the main loop that hosts the server, and returns whenever the server is shutdown or restarted
func run(actionChan chan string) (string, error) {

	cm, err := NewConfigManager("./config.json")
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	config := cm.Get()
	applyEnvOverrides(&config)

	var logLevel slog.Level
	switch strings.ToLower(config.Server.LogLevel) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	cm.SetLogger(logger)
	logger.Info("Starting server cycle...")

	if err = os.MkdirAll(config.Server.DataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := initDB(config.Server.StatsDatabasePath)
	if err != nil {
		return "", fmt.Errorf("failed to initialize database: %w", err)
	}

	if err = setupStatsSchema(db); err != nil {
		logger.Error("Failed to setup stats schema", "error", err)
	}

	httpServer := &http.Server{Addr: config.Server.Addr}

	server, err := NewServer(cm, logger, db, actionChan)
	if err != nil {
		_ = db.Close()
		return "", fmt.Errorf("failed to create server object: %w", err)
	}

	httpServer.Handler = server.mux

	go func() {
		logger.Info("Starting Nextword server", "address", httpServer.Addr, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
		}
	}()

	action := <-actionChan // Block here until API or OS signal sends an action.

	logger.Info("Stopping server for " + action + "...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped.")

	logger.Info("Closing database connection.")
	if err = db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	return action, nil
}
