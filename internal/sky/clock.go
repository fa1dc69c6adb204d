package sky

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/saaga0h/moonlight/pkg/mqtt"
)

// Clock is a virtual game clock running timeScale game seconds per real second
type Clock struct {
	mu        sync.RWMutex
	realStart time.Time
	startHour float64
	startDays float64
	timeScale float64
	now       func() time.Time
	logger    *slog.Logger
}

// NewClock creates a clock starting at startHour with startDays elapsed
func NewClock(startHour, startDays, timeScale float64, logger *slog.Logger) *Clock {
	return newClockAt(startHour, startDays, timeScale, time.Now, logger)
}

func newClockAt(startHour, startDays, timeScale float64, now func() time.Time, logger *slog.Logger) *Clock {
	return &Clock{
		realStart: now(),
		startHour: startHour,
		startDays: startDays,
		timeScale: timeScale,
		now:       now,
		logger:    logger,
	}
}

// elapsedHours returns game hours since the clock was (re)started
func (c *Clock) elapsedHours() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Sub(c.realStart).Seconds() * c.timeScale / 3600
}

// GameHour returns the current game hour in [0,24)
func (c *Clock) GameHour() float64 {
	elapsed := c.elapsedHours()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return math.Mod(c.startHour+elapsed, 24)
}

// DaysPassed returns cumulative elapsed game days, including the fraction
// of the current day
func (c *Clock) DaysPassed() float64 {
	elapsed := c.elapsedHours()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startDays + elapsed/24
}

// DayIndex returns the number of whole game days since the clock started
func (c *Clock) DayIndex() int {
	elapsed := c.elapsedHours()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(math.Floor((c.startHour + elapsed) / 24))
}

// Reset restarts the clock at the given game time
func (c *Clock) Reset(startHour, startDays, timeScale float64) error {
	if startHour < 0 || startHour >= 24 {
		return fmt.Errorf("game hour %.2f out of range [0, 24)", startHour)
	}
	if startDays < 0 {
		return fmt.Errorf("days passed %.2f must not be negative", startDays)
	}
	if timeScale <= 0 {
		return fmt.Errorf("time scale %.2f must be positive", timeScale)
	}

	c.mu.Lock()
	c.realStart = c.now()
	c.startHour = startHour
	c.startDays = startDays
	c.timeScale = timeScale
	c.mu.Unlock()

	c.logger.Info("Sky clock reset",
		"game_hour", startHour,
		"days_passed", startDays,
		"time_scale", timeScale)
	return nil
}

// ConfigureFromMQTT subscribes to virtual clock reconfiguration
func (c *Clock) ConfigureFromMQTT(mqttClient mqtt.Client) error {
	handler := func(msg mqtt.Message) {
		c.handleTimeConfig(msg.Payload())
	}

	return mqttClient.Subscribe(mqtt.TopicSimTimeConfig, 1, handler)
}

// handleTimeConfig applies a time configuration message. Omitted fields
// keep their current value.
func (c *Clock) handleTimeConfig(payload []byte) {
	var config struct {
		GameHour   *float64 `json:"game_hour"`
		DaysPassed *float64 `json:"days_passed"`
		TimeScale  *float64 `json:"time_scale"`
	}

	if err := json.Unmarshal(payload, &config); err != nil {
		c.logger.Error("Failed to parse time config", "error", err)
		return
	}

	hour, days := c.GameHour(), c.DaysPassed()
	c.mu.RLock()
	scale := c.timeScale
	c.mu.RUnlock()

	if config.GameHour != nil {
		hour = *config.GameHour
	}
	if config.DaysPassed != nil {
		days = *config.DaysPassed
	}
	if config.TimeScale != nil {
		scale = *config.TimeScale
	}

	if err := c.Reset(hour, days, scale); err != nil {
		c.logger.Error("Rejected time config", "error", err)
	}
}
