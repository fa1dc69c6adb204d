package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the configuration for the moonlight agent
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// Bridge configuration
	TelemetryIntervalMs int

	// Sky simulation configuration
	SimulateEnabled bool
	ClimateFile     string
	ClimateName     string
	Latitude        float64
	Longitude       float64
	TimeZone        string
	FrameIntervalMs int
	TimeScale       float64
	StartHour       float64
	StartDaysPassed float64
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:   "localhost",
		MQTTPort:     1883,
		MQTTUser:     "",
		MQTTPassword: "",
		MQTTClientID: "",
		ServiceName:  "moonlight-agent",
		HealthPort:   8080,
		LogLevel:     "info",
		// Bridge defaults
		TelemetryIntervalMs: 1000,
		// Simulation defaults (Mojave coordinates)
		SimulateEnabled: false,
		ClimateFile:     "",
		ClimateName:     "wasteland",
		Latitude:        36.1699,
		Longitude:       -115.1398,
		TimeZone:        "UTC",
		FrameIntervalMs: 1000,
		TimeScale:       30,
		StartHour:       12,
		StartDaysPassed: 1,
	}
}

// LoadFromEnv loads configuration from environment variables with MOONLIGHT_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("MOONLIGHT_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("MOONLIGHT_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("MOONLIGHT_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("MOONLIGHT_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("MOONLIGHT_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Service configuration
	if v := os.Getenv("MOONLIGHT_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("MOONLIGHT_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("MOONLIGHT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Bridge configuration
	if v := os.Getenv("MOONLIGHT_TELEMETRY_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.TelemetryIntervalMs = ms
		}
	}

	// Sky simulation configuration
	if v := os.Getenv("MOONLIGHT_SIMULATE"); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			c.SimulateEnabled = enable
		}
	}
	if v := os.Getenv("MOONLIGHT_CLIMATE_FILE"); v != "" {
		c.ClimateFile = v
	}
	if v := os.Getenv("MOONLIGHT_CLIMATE"); v != "" {
		c.ClimateName = v
	}
	if v := os.Getenv("MOONLIGHT_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("MOONLIGHT_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
	if v := os.Getenv("MOONLIGHT_TIME_ZONE"); v != "" {
		c.TimeZone = v
	}
	if v := os.Getenv("MOONLIGHT_FRAME_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.FrameIntervalMs = ms
		}
	}
	if v := os.Getenv("MOONLIGHT_TIME_SCALE"); v != "" {
		if scale, err := strconv.ParseFloat(v, 64); err == nil {
			c.TimeScale = scale
		}
	}
	if v := os.Getenv("MOONLIGHT_START_HOUR"); v != "" {
		if hour, err := strconv.ParseFloat(v, 64); err == nil {
			c.StartHour = hour
		}
	}
	if v := os.Getenv("MOONLIGHT_START_DAYS_PASSED"); v != "" {
		if days, err := strconv.ParseFloat(v, 64); err == nil {
			c.StartDaysPassed = days
		}
	}
}

// RegisterFlags registers command-line flags on fs, defaulting to current values
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	// MQTT flags
	fs.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	fs.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	fs.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	fs.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	fs.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Service flags
	fs.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	fs.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Bridge flags
	fs.IntVar(&c.TelemetryIntervalMs, "telemetry-interval-ms", c.TelemetryIntervalMs, "Minimum time between sky telemetry messages per host (ms)")

	// Sky simulation flags
	fs.BoolVar(&c.SimulateEnabled, "simulate", c.SimulateEnabled, "Run the simulated sky loop")
	fs.StringVar(&c.ClimateFile, "climate-file", c.ClimateFile, "YAML climate table (built-in table when empty)")
	fs.StringVar(&c.ClimateName, "climate", c.ClimateName, "Climate to simulate")
	fs.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for solar climates")
	fs.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for solar climates")
	fs.StringVar(&c.TimeZone, "time-zone", c.TimeZone, "IANA time zone used to convert sun times to game hours")
	fs.IntVar(&c.FrameIntervalMs, "frame-interval-ms", c.FrameIntervalMs, "Simulated frame interval (ms)")
	fs.Float64Var(&c.TimeScale, "time-scale", c.TimeScale, "Game seconds per real second")
	fs.Float64Var(&c.StartHour, "start-hour", c.StartHour, "Game hour the simulation starts at")
	fs.Float64Var(&c.StartDaysPassed, "start-days-passed", c.StartDaysPassed, "Elapsed game days at simulation start")
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	c.RegisterFlags(pflag.CommandLine)
	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if c.TelemetryIntervalMs < 0 {
		return fmt.Errorf("telemetry interval must not be negative")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return c.ValidateSimulation()
}

// ValidateSimulation checks the sky simulation settings
func (c *Config) ValidateSimulation() error {
	if c.ClimateName == "" {
		return fmt.Errorf("climate name is required")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	if c.FrameIntervalMs <= 0 {
		return fmt.Errorf("frame interval must be positive")
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("time scale must be positive")
	}
	if c.StartHour < 0 || c.StartHour >= 24 {
		return fmt.Errorf("start hour must be in [0, 24)")
	}
	if c.StartDaysPassed < 0 {
		return fmt.Errorf("start days passed must not be negative")
	}
	return nil
}

// Location returns the configured time zone, UTC when it cannot be loaded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}
