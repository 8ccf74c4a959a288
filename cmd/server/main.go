package main

import (
	"chat-rooms/infrastructure/ws"
	"chat-rooms/moderation"
	"chat-rooms/runtime"
	"chat-rooms/runtime/workers"
	"chat-rooms/services"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation (embedded word lists + Aho-Corasick automaton)
	replacement, err := CharacterRune(config.ModerationCharReplacement)
	if err != nil {
		return err
	}
	data, err := moderation.NewCensoredLoader().LoadAll("censored")
	if err != nil {
		return fmt.Errorf("loading censored words failed: %w", err)
	}
	log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	moderator, err := moderation.NewModerator(data.Words, replacement, log)
	if err != nil {
		return fmt.Errorf("building moderator failed: %w", err)
	}

	// 3. Core wiring: presence registry, transport hub, fanout, router
	presence := runtime.NewPresenceRegistry()
	hub := ws.NewHub(log)
	fanout := runtime.NewFanout(log, hub)
	factory := services.NewMessageFactory(services.WallClock{})
	router := services.NewChatService(log, presence, hub, &moderator, fanout, factory)

	server := ws.NewServer(log, hub, router,
		fmt.Sprintf("%s:%d", config.Host, config.Port), config.ConnectionBufferSize)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background workers under supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewTelemetryWorker(log, presence, config.TelemetryInterval))
	go sup.Run(ctx)

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown incomplete", "err", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
