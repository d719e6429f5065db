package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arch-agent/internal/di"
	"arch-agent/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	cfg := di.Config{
		OpenRouterAPIKey: envService.MustGet("OPENROUTER_API_KEY"),
		OpenRouterModel:  envService.MustGet("OPENROUTER_MODEL_NAME"),
		DiagramsDir:      getOr(envService, "DIAGRAMS_DIR", "diagrams"),
		SolutionsDir:     getOr(envService, "SOLUTIONS_DIR", "solutions"),
		ReadonlyMode:     envService.GetBool("CFN_READONLY", true),
		ToolTimeout:      time.Duration(envService.GetInt("TOOL_TIMEOUT_SECONDS", 120)) * time.Second,
		Debug:            envService.GetBool("DEBUG", false),
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer container.Close()

	connectCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := container.Providers.ConnectAll(connectCtx); err != nil {
		cancel()
		container.Logger.Error("Tool server connection failed", "error", err)
		container.Close()
		os.Exit(1)
	}
	cancel()

	addr := ":" + getOr(envService, "PORT", "8000")
	server := &http.Server{
		Addr:         addr,
		Handler:      container.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute,
	}

	go func() {
		container.Logger.Info("Server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	container.Logger.Info("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Shutdown error", "error", err)
	}
}

func getOr(envService *env.EnvService, key, fallback string) string {
	if v := envService.Get(key); v != "" {
		return v
	}
	return fallback
}
