package mqtt

import (
	"fmt"
	"strings"
)

// Topic constants for the host bridge and the sky simulator
const (
	// Host adapters publish sky frames here (input)
	TopicHostSky = "moonlight/host/+/sky"

	// Virtual clock reconfiguration for the simulator (input)
	TopicSimTimeConfig = "moonlight/sim/time_config"
)

// HostSkyTopic is where a host adapter publishes its sky frames
// Pattern: moonlight/host/{host}/sky
func HostSkyTopic(host string) string {
	return fmt.Sprintf("moonlight/host/%s/sky", host)
}

// HostLightTopic is where replacement lighting for a host is published
// Pattern: moonlight/host/{host}/light
func HostLightTopic(host string) string {
	return fmt.Sprintf("moonlight/host/%s/light", host)
}

// SkyContextTopic carries rate-limited sky telemetry for observers
// Pattern: moonlight/context/sky/{host}
func SkyContextTopic(host string) string {
	return fmt.Sprintf("moonlight/context/sky/%s", host)
}

// SimLightTopic carries frames produced by the sky simulator
// Pattern: moonlight/sim/{climate}/light
func SimLightTopic(climate string) string {
	return fmt.Sprintf("moonlight/sim/%s/light", climate)
}

// HostFromSkyTopic extracts the host id from moonlight/host/{host}/sky
func HostFromSkyTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "moonlight" || parts[1] != "host" || parts[3] != "sky" || parts[2] == "" {
		return "", fmt.Errorf("invalid host sky topic: %s", topic)
	}
	return parts[2], nil
}
