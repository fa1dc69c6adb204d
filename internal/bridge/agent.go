package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/saaga0h/moonlight/internal/sky"
	"github.com/saaga0h/moonlight/pkg/config"
	"github.com/saaga0h/moonlight/pkg/moonlight"
	"github.com/saaga0h/moonlight/pkg/mqtt"
)

const (
	// Hosts that stop sending frames are forgotten after this long
	hostIdleTimeout = 10 * time.Minute
	cleanupInterval = time.Minute
)

// HostContext is the per-host state kept between frames
type HostContext struct {
	mu           sync.Mutex
	Orchestrator *moonlight.Orchestrator
	LastFrame    uint64
	LastUpdate   time.Time
}

// Simulation is a locally simulated host driven by the agent's frame loop
type Simulation struct {
	Sky   *sky.Sky
	Clock *sky.Clock
}

// Agent bridges remote hosts to the lighting model over MQTT
type Agent struct {
	mqtt   mqtt.Client
	cfg    *config.Config
	logger *slog.Logger

	// State management
	hostMux sync.RWMutex
	hosts   map[string]*HostContext

	rateLimiter     *RateLimiter
	framesProcessed atomic.Uint64

	// Simulated sky, nil unless enabled
	sim             *Simulation
	simMux          sync.Mutex
	simOrchestrator *moonlight.Orchestrator

	stopChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewAgent creates a new bridge agent. sim may be nil.
func NewAgent(mqttClient mqtt.Client, cfg *config.Config, sim *Simulation, logger *slog.Logger) *Agent {
	a := &Agent{
		mqtt:        mqttClient,
		cfg:         cfg,
		logger:      logger,
		hosts:       make(map[string]*HostContext),
		rateLimiter: NewRateLimiter(),
		sim:         sim,
		stopChan:    make(chan struct{}),
		now:         time.Now,
	}
	if sim != nil {
		a.simOrchestrator = moonlight.NewOrchestrator(logger.With("host", "sim:"+sim.Sky.Climate().Name))
	}
	return a
}

// Start connects, subscribes and runs the agent until ctx is cancelled
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting moonlight agent",
		"service_name", a.cfg.ServiceName,
		"telemetry_interval_ms", a.cfg.TelemetryIntervalMs,
		"simulate", a.sim != nil)

	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	if err := a.mqtt.Subscribe(mqtt.TopicHostSky, 0, a.handleSkyMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicHostSky, err)
	}
	a.logger.Info("Subscribed to host sky frames", "topic", mqtt.TopicHostSky)

	if a.sim != nil {
		if err := a.sim.Clock.ConfigureFromMQTT(a.mqtt); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicSimTimeConfig, err)
		}
		a.startFrameLoop()
	}
	a.startCleanupLoop()

	a.logger.Info("Moonlight agent started and ready")

	<-ctx.Done()
	a.logger.Info("Moonlight agent stopping")

	return nil
}

// Stop halts the background loops and disconnects
func (a *Agent) Stop() error {
	a.logger.Info("Stopping moonlight agent")

	a.stopOnce.Do(func() { close(a.stopChan) })
	a.mqtt.Disconnect()

	a.logger.Info("Moonlight agent stopped")
	return nil
}

func (a *Agent) startFrameLoop() {
	interval := time.Duration(a.cfg.FrameIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		a.logger.Info("Starting simulated frame loop",
			"climate", a.sim.Sky.Climate().Name,
			"interval_ms", a.cfg.FrameIntervalMs)
		for {
			select {
			case <-ticker.C:
				if _, err := a.SimulateFrame(); err != nil {
					a.logger.Error("Simulated frame failed", "error", err)
				}
			case <-a.stopChan:
				return
			}
		}
	}()
}

func (a *Agent) startCleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := a.CleanupIdleHosts(hostIdleTimeout); n > 0 {
					a.logger.Debug("Forgot idle hosts", "count", n)
				}
			case <-a.stopChan:
				return
			}
		}
	}()
}

// handleSkyMessage processes a frame from moonlight/host/{host}/sky
func (a *Agent) handleSkyMessage(msg mqtt.Message) {
	host, err := mqtt.HostFromSkyTopic(msg.Topic())
	if err != nil {
		a.logger.Warn("Invalid sky topic format", "topic", msg.Topic())
		return
	}

	var frame SkyFrame
	if err := json.Unmarshal(msg.Payload(), &frame); err != nil {
		a.logger.Error("Failed to parse sky frame",
			"host", host,
			"error", err)
		return
	}

	if _, err := a.ProcessFrame(host, &frame); err != nil {
		a.logger.Error("Failed to process sky frame",
			"host", host,
			"frame", frame.Frame,
			"error", err)
	}
}

// ProcessFrame runs one host frame through that host's orchestrator and
// publishes the resulting light frame
func (a *Agent) ProcessFrame(host string, frame *SkyFrame) (LightFrame, error) {
	hc := a.hostContext(host)

	fh := newFrameHost(frame)
	var state moonlight.HostSkyState = fh
	var rotator *rotatingHost
	if frame.MoonRotation != nil {
		rotator = newRotatingHost(fh)
		state = rotator
	}

	hc.mu.Lock()
	out, lighted := hc.Orchestrator.Frame(state)
	hc.LastFrame = frame.Frame
	hc.LastUpdate = a.now()
	hc.mu.Unlock()

	timestamp := a.now().Format(time.RFC3339)
	reply := lightFrame(frame.Frame, out, lighted, fh.sunColor, fh.moonVisibility, timestamp)
	if rotator != nil && rotator.rotated {
		reply.MoonRotation = &rotator.moonRotation
		reply.LightRotation = &rotator.lightRotation
	}
	a.framesProcessed.Add(1)

	if err := a.mqtt.PublishJSON(mqtt.HostLightTopic(host), 0, false, reply); err != nil {
		return reply, fmt.Errorf("failed to publish light frame: %w", err)
	}

	if lighted && a.rateLimiter.ShouldPublish(host, a.cfg.TelemetryIntervalMs) {
		if err := a.publishSkyContext(host, frame.GameHour, reply); err != nil {
			a.logger.Warn("Failed to publish sky context", "host", host, "error", err)
		}
	}

	return reply, nil
}

// SimulateFrame advances the simulated sky by one frame and publishes it
func (a *Agent) SimulateFrame() (LightFrame, error) {
	if a.sim == nil {
		return LightFrame{}, fmt.Errorf("sky simulation is not enabled")
	}

	a.simMux.Lock()
	a.sim.Sky.BeginFrame()
	gameHour := a.sim.Sky.GameHour()
	out, lighted := a.simOrchestrator.Frame(a.sim.Sky)
	reply := lightFrame(0, out, lighted, a.sim.Sky.SunColor(), a.sim.Sky.MoonVisibility(), a.now().Format(time.RFC3339))
	moonRotation, lightRotation := a.sim.Sky.MoonRotation(), a.sim.Sky.LightRotation()
	reply.MoonRotation = &moonRotation
	reply.LightRotation = &lightRotation
	a.simMux.Unlock()

	a.framesProcessed.Add(1)

	name := a.sim.Sky.Climate().Name
	if err := a.mqtt.PublishJSON(mqtt.SimLightTopic(name), 0, false, reply); err != nil {
		return reply, fmt.Errorf("failed to publish simulated frame: %w", err)
	}

	a.logger.Debug("Simulated frame published",
		"climate", name,
		"game_hour", gameHour,
		"period", reply.Period,
		"sun_hex", reply.SunHex)

	return reply, nil
}

// publishSkyContext publishes the rate-limited telemetry message for a host
func (a *Agent) publishSkyContext(host string, gameHour float64, reply LightFrame) error {
	contextMsg := map[string]interface{}{
		"id":              uuid.New().String(),
		"source":          a.cfg.ServiceName,
		"type":            "sky",
		"host":            host,
		"game_hour":       gameHour,
		"period":          reply.Period,
		"multiplier":      reply.Multiplier,
		"moon_visibility": reply.MoonVisibility,
		"phase":           reply.Phase,
		"sun_hex":         reply.SunHex,
		"timestamp":       reply.Timestamp,
	}

	topic := mqtt.SkyContextTopic(host)
	if err := a.mqtt.PublishJSON(topic, 0, false, contextMsg); err != nil {
		return err
	}

	a.logger.Debug("Published sky context", "topic", topic)
	return nil
}

// hostContext returns the context for host, creating it on first contact
func (a *Agent) hostContext(host string) *HostContext {
	a.hostMux.RLock()
	hc, exists := a.hosts[host]
	a.hostMux.RUnlock()
	if exists {
		return hc
	}

	a.hostMux.Lock()
	defer a.hostMux.Unlock()

	if hc, exists = a.hosts[host]; exists {
		return hc
	}

	hc = &HostContext{
		Orchestrator: moonlight.NewOrchestrator(a.logger.With("host", host)),
		LastUpdate:   a.now(),
	}
	a.hosts[host] = hc
	a.logger.Info("New host connected", "host", host)
	return hc
}

// CleanupIdleHosts forgets hosts with no frame for longer than maxIdle and
// returns how many were removed. A returning host starts from a fresh
// lighting context.
func (a *Agent) CleanupIdleHosts(maxIdle time.Duration) int {
	cutoff := a.now().Add(-maxIdle)

	a.hostMux.Lock()
	defer a.hostMux.Unlock()

	removed := 0
	for host, hc := range a.hosts {
		hc.mu.Lock()
		idle := hc.LastUpdate.Before(cutoff)
		hc.mu.Unlock()

		if idle {
			delete(a.hosts, host)
			a.rateLimiter.Forget(host)
			removed++
		}
	}
	return removed
}

// HostCount returns the number of tracked hosts (for health check)
func (a *Agent) HostCount() int {
	a.hostMux.RLock()
	defer a.hostMux.RUnlock()
	return len(a.hosts)
}

// FramesProcessed returns the number of frames evaluated since start
func (a *Agent) FramesProcessed() uint64 {
	return a.framesProcessed.Load()
}

// Host returns the context for a specific host
func (a *Agent) Host(host string) (*HostContext, bool) {
	a.hostMux.RLock()
	defer a.hostMux.RUnlock()
	hc, exists := a.hosts[host]
	return hc, exists
}
