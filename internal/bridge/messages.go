package bridge

import (
	"math"

	"github.com/saaga0h/moonlight/pkg/colorspace"
	"github.com/saaga0h/moonlight/pkg/geometry"
	"github.com/saaga0h/moonlight/pkg/moonlight"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

// SkyFrame is the sky state a host adapter publishes once per frame
type SkyFrame struct {
	Frame    uint64  `json:"frame"`
	HasMoon  *bool   `json:"has_moon,omitempty"` // defaults to true
	GameHour float64 `json:"game_hour"`
	temporal.TimeWindow
	PhaseLength int            `json:"phase_length"`
	DaysPassed  *float64       `json:"days_passed,omitempty"`
	SunColor    colorspace.RGB `json:"sun_color"`

	// Rotations are row-major 3x3 matrices. Hosts that send a moon rotation
	// get the night orientation of moon and light back.
	MoonRotation  *geometry.Matrix33 `json:"moon_rotation,omitempty"`
	LightRotation *geometry.Matrix33 `json:"light_rotation,omitempty"`
}

// LightFrame is the replacement lighting sent back to the host
type LightFrame struct {
	Frame          uint64         `json:"frame"`
	Lighted        bool           `json:"lighted"`
	SunColor       colorspace.RGB `json:"sun_color"`
	SunHex         string         `json:"sun_hex"`
	MoonVisibility float64        `json:"moon_visibility"`
	Multiplier     float64        `json:"multiplier"`
	Phase          *float64       `json:"phase"` // null when the phase length masks to 0
	Period         string         `json:"period"`
	Timestamp      string         `json:"timestamp"`

	// Set only on frames where the orientation changed
	MoonRotation  *geometry.Matrix33 `json:"moon_rotation,omitempty"`
	LightRotation *geometry.Matrix33 `json:"light_rotation,omitempty"`
}

// frameHost adapts a SkyFrame to moonlight.HostSkyState and records what
// the orchestrator writes back
type frameHost struct {
	frame          *SkyFrame
	sunColor       colorspace.RGB
	moonVisibility float64
}

func newFrameHost(frame *SkyFrame) *frameHost {
	return &frameHost{
		frame:          frame,
		sunColor:       frame.SunColor,
		moonVisibility: 1,
	}
}

func (h *frameHost) HasMoon() bool {
	return h.frame.HasMoon == nil || *h.frame.HasMoon
}

func (h *frameHost) GameHour() float64               { return h.frame.GameHour }
func (h *frameHost) TimeWindow() temporal.TimeWindow { return h.frame.TimeWindow }
func (h *frameHost) PhaseLength() int                { return h.frame.PhaseLength }
func (h *frameHost) SunColor() colorspace.RGB        { return h.sunColor }
func (h *frameHost) SetSunColor(c colorspace.RGB)    { h.sunColor = c }
func (h *frameHost) SetMoonVisibility(v float64)     { h.moonVisibility = v }

func (h *frameHost) DaysPassed() (float64, bool) {
	if h.frame.DaysPassed == nil {
		return 0, false
	}
	return *h.frame.DaysPassed, true
}

// rotatingHost is a frameHost whose frame carried a moon rotation. It adds
// the moon and light rotation capabilities.
type rotatingHost struct {
	*frameHost
	moonRotation  geometry.Matrix33
	lightRotation geometry.Matrix33
	rotated       bool
}

func newRotatingHost(fh *frameHost) *rotatingHost {
	h := &rotatingHost{
		frameHost:     fh,
		moonRotation:  *fh.frame.MoonRotation,
		lightRotation: geometry.Identity(),
	}
	if fh.frame.LightRotation != nil {
		h.lightRotation = *fh.frame.LightRotation
	}
	return h
}

func (h *rotatingHost) MoonRotation() geometry.Matrix33  { return h.moonRotation }
func (h *rotatingHost) LightRotation() geometry.Matrix33 { return h.lightRotation }

func (h *rotatingHost) SetMoonRotation(m geometry.Matrix33) {
	h.moonRotation = m
	h.rotated = true
}

func (h *rotatingHost) SetLightRotation(m geometry.Matrix33) {
	h.lightRotation = m
	h.rotated = true
}

// lightFrame builds the reply for a processed frame
func lightFrame(frame uint64, out moonlight.FrameOutput, lighted bool, sunColor colorspace.RGB, visibility float64, timestamp string) LightFrame {
	return LightFrame{
		Frame:          frame,
		Lighted:        lighted,
		SunColor:       sunColor,
		SunHex:         sunColor.Hex(),
		MoonVisibility: visibility,
		Multiplier:     out.Multiplier,
		Phase:          finite(out.Phase),
		Period:         out.Period.String(),
		Timestamp:      timestamp,
	}
}

// finite returns nil for NaN and infinities, which JSON cannot encode
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
