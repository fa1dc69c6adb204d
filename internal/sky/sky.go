package sky

import (
	"log/slog"
	"math"
	"time"

	"github.com/saaga0h/moonlight/pkg/climate"
	"github.com/saaga0h/moonlight/pkg/colorspace"
	"github.com/saaga0h/moonlight/pkg/geometry"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

// Sky is a simulated host implementing the moon and light rotation
// capabilities. Each frame starts from the climate's base sun
// colour, the way a renderer recomputes it from weather data, and the
// orchestrator then replaces it.
type Sky struct {
	clock   *Clock
	climate *climate.Climate
	lat     float64
	lon     float64
	loc     *time.Location
	day0    time.Time
	logger  *slog.Logger

	sunColor       colorspace.RGB
	moonVisibility float64
	moonRotation   geometry.Matrix33
	lightRotation  geometry.Matrix33
	solarFallback  bool
}

// New creates a simulated sky for c. Solar climates use lat/lon and loc
// to derive their windows; the calendar starts at today's date in loc.
func New(clock *Clock, c *climate.Climate, lat, lon float64, loc *time.Location, logger *slog.Logger) *Sky {
	now := time.Now().In(loc)
	return &Sky{
		clock:          clock,
		climate:        c,
		lat:            lat,
		lon:            lon,
		loc:            loc,
		day0:           time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc),
		logger:         logger,
		sunColor:       c.SunColor.RGB,
		moonVisibility: 1,
		moonRotation:   geometry.Identity(),
		lightRotation:  geometry.Identity(),
	}
}

// Climate returns the simulated climate
func (s *Sky) Climate() *climate.Climate {
	return s.climate
}

// BeginFrame resets the host state the orchestrator overwrites
func (s *Sky) BeginFrame() {
	s.sunColor = s.climate.SunColor.RGB
	// Moon orbits once per game day; the light starts on the opposite side
	// with the sun
	angle := 2 * math.Pi * s.clock.GameHour() / 24
	s.moonRotation = geometry.ZRotation(angle)
	s.lightRotation = geometry.ZRotation(angle + math.Pi)
}

// Date returns the simulated calendar date
func (s *Sky) Date() time.Time {
	return s.day0.AddDate(0, 0, s.clock.DayIndex())
}

// HasMoon is always true for the simulator
func (s *Sky) HasMoon() bool {
	return true
}

func (s *Sky) GameHour() float64 {
	return s.clock.GameHour()
}

// TimeWindow returns the climate window, derived from sun times for solar climates
func (s *Sky) TimeWindow() temporal.TimeWindow {
	if !s.climate.Solar {
		return s.climate.Window
	}

	w, ok := SolarWindow(s.Date(), s.lat, s.lon, s.loc, s.climate.Window)
	if !ok && !s.solarFallback {
		s.logger.Warn("Sun times unavailable, using climate window",
			"climate", s.climate.Name,
			"latitude", s.lat,
			"date", s.Date().Format(time.DateOnly))
	}
	s.solarFallback = !ok
	return w
}

func (s *Sky) PhaseLength() int {
	return s.climate.PhaseLength
}

func (s *Sky) DaysPassed() (float64, bool) {
	return s.clock.DaysPassed(), true
}

func (s *Sky) SunColor() colorspace.RGB {
	return s.sunColor
}

func (s *Sky) SetSunColor(c colorspace.RGB) {
	s.sunColor = c
}

func (s *Sky) SetMoonVisibility(v float64) {
	s.moonVisibility = v
}

// MoonVisibility returns the last visibility written by the orchestrator
func (s *Sky) MoonVisibility() float64 {
	return s.moonVisibility
}

func (s *Sky) MoonRotation() geometry.Matrix33 {
	return s.moonRotation
}

func (s *Sky) SetMoonRotation(m geometry.Matrix33) {
	s.moonRotation = m
}

func (s *Sky) LightRotation() geometry.Matrix33 {
	return s.lightRotation
}

func (s *Sky) SetLightRotation(m geometry.Matrix33) {
	s.lightRotation = m
}

// LightDirection returns the unit direction of the directional light. At
// night it follows the mirrored moon.
func (s *Sky) LightDirection() geometry.Vec3 {
	dir, _ := s.lightRotation.Column(0).Unitize()
	return dir
}
