package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/saaga0h/moonlight/pkg/mqtt"
)

// FrameStats is implemented by the bridge agent to report its workload
type FrameStats interface {
	HostCount() int
	FramesProcessed() uint64
}

// Checker provides health check functionality for the agent
type Checker struct {
	mqtt   mqtt.Client
	stats  FrameStats
	logger *slog.Logger
}

// NewChecker creates a new health checker with the given dependencies
func NewChecker(mqttClient mqtt.Client, stats FrameStats, logger *slog.Logger) *Checker {
	return &Checker{
		mqtt:   mqttClient,
		stats:  stats,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
	Frames    *Frames   `json:"frames,omitempty"`
}

// Services represents the status of external dependencies
type Services struct {
	MQTT string `json:"mqtt"`
}

// Frames summarises bridge activity
type Frames struct {
	Hosts     int    `json:"hosts"`
	Processed uint64 `json:"processed"`
}

// HandlerFunc returns a liveness handler that does not check dependencies
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.write(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}

// DetailedHandlerFunc returns a handler that reports the MQTT connection
// and frame counters. A disconnected broker yields 503.
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := &Services{MQTT: "disconnected"}
		if h.mqtt != nil && h.mqtt.IsConnected() {
			services.MQTT = "connected"
		}

		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Services:  services,
		}
		if h.stats != nil {
			response.Frames = &Frames{
				Hosts:     h.stats.HostCount(),
				Processed: h.stats.FramesProcessed(),
			}
		}

		statusCode := http.StatusOK
		if services.MQTT == "disconnected" {
			response.Status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		h.write(w, statusCode, response)
	}
}

func (h *Checker) write(w http.ResponseWriter, statusCode int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", "error", err)
	}
}
