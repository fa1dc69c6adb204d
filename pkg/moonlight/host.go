package moonlight

import (
	"github.com/saaga0h/moonlight/pkg/colorspace"
	"github.com/saaga0h/moonlight/pkg/geometry"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

// HostSkyState is the capability a host exposes to the orchestrator.
// Implementations read live host state on every call.
type HostSkyState interface {
	// HasMoon reports whether the sky has a moon to light; when false the
	// sun colour is left untouched
	HasMoon() bool

	// GameHour returns the current in-world hour
	GameHour() float64

	// TimeWindow returns the sunrise/sunset boundaries of the current climate
	TimeWindow() temporal.TimeWindow

	// PhaseLength returns the climate moon phase length in days
	PhaseLength() int

	// DaysPassed returns cumulative elapsed days, ok=false when unavailable
	DaysPassed() (float64, bool)

	// SunColor returns the current directional sun colour
	SunColor() colorspace.RGB

	// SetSunColor writes the replacement sun colour
	SetSunColor(colorspace.RGB)

	// SetMoonVisibility hands the moon visibility to the moon renderer
	SetMoonVisibility(float64)
}

// MoonRotator is implemented by hosts whose moon orientation is adjusted at night
type MoonRotator interface {
	MoonRotation() geometry.Matrix33
	SetMoonRotation(geometry.Matrix33)
}

// LightRotator is implemented by hosts whose directional light follows the
// moon at night. Outside the night the light keeps the host's rotation.
type LightRotator interface {
	LightRotation() geometry.Matrix33
	SetLightRotation(geometry.Matrix33)
}

// SkyAligner is implemented by hosts that need the sky rotated to the
// north angle of interiors flagged as exterior
type SkyAligner interface {
	// InteriorNorthAngle returns the north angle in radians, ok=false outdoors
	InteriorNorthAngle() (float64, bool)

	// AlignSky applies rot to the sky and weather roots
	AlignSky(rot geometry.Matrix33)
}
