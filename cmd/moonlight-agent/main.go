package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saaga0h/moonlight/internal/bridge"
	"github.com/saaga0h/moonlight/internal/sky"
	"github.com/saaga0h/moonlight/pkg/climate"
	"github.com/saaga0h/moonlight/pkg/config"
	"github.com/saaga0h/moonlight/pkg/health"
	"github.com/saaga0h/moonlight/pkg/mqtt"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting moonlight agent",
		"version", "1.0",
		"service_name", cfg.ServiceName,
		"mqtt_broker", cfg.MQTTAddress(),
		"simulate", cfg.SimulateEnabled,
		"log_level", cfg.LogLevel)

	var sim *bridge.Simulation
	if cfg.SimulateEnabled {
		var err error
		sim, err = newSimulation(cfg, logger)
		if err != nil {
			logger.Error("Failed to set up sky simulation", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	mqttClient := mqtt.NewClient(cfg, logger)
	agent := bridge.NewAgent(mqttClient, cfg, sim, logger)

	healthChecker := health.NewChecker(mqttClient, agent, logger)
	httpServer := startHealthServer(cfg.HealthPort, healthChecker, logger)

	agentErr := make(chan error, 1)
	go func() {
		if err := agent.Start(ctx); err != nil {
			logger.Error("Agent error", "error", err)
			agentErr <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received (SIGTERM/SIGINT)")
	case err := <-agentErr:
		logger.Error("Agent failed", "error", err)
	}

	logger.Info("Initiating graceful shutdown")
	cancel()

	if err := agent.Stop(); err != nil {
		logger.Error("Error stopping agent", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down health server", "error", err)
	}

	logger.Info("Moonlight agent shutdown complete")
}

// newSimulation loads the configured climate and builds the simulated sky
func newSimulation(cfg *config.Config, logger *slog.Logger) (*bridge.Simulation, error) {
	table := climate.Default()
	if cfg.ClimateFile != "" {
		var err error
		if table, err = climate.LoadTable(cfg.ClimateFile); err != nil {
			return nil, err
		}
	}

	c, err := table.Get(cfg.ClimateName)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, table.Names())
	}

	clock := sky.NewClock(cfg.StartHour, cfg.StartDaysPassed, cfg.TimeScale, logger)
	logger.Info("Sky simulation configured",
		"climate", c.Name,
		"solar", c.Solar,
		"phase_length", c.PhaseLength,
		"sun_color", c.SunColor.Hex(),
		"time_scale", cfg.TimeScale)

	return &bridge.Simulation{
		Sky:   sky.New(clock, c, cfg.Latitude, cfg.Longitude, cfg.Location(), logger),
		Clock: clock,
	}, nil
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HandlerFunc())
	mux.HandleFunc("/health/detailed", checker.DetailedHandlerFunc())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
