package moonlight

import (
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/moonlight/pkg/colorspace"
	"github.com/saaga0h/moonlight/pkg/geometry"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

// fakeSky is an in-memory host implementing every capability
type fakeSky struct {
	hasMoon     bool
	gameHour    float64
	window      temporal.TimeWindow
	phaseLength int
	daysPassed  float64
	hasDays     bool
	sunColor    colorspace.RGB

	interior   bool
	northAngle float64

	moonRotation  geometry.Matrix33
	visibility    float64
	sunWrites     int
	alignedSky    *geometry.Matrix33
	rotationWrite bool
	lightRotation geometry.Matrix33
	lightWrite    bool
}

func newFakeSky() *fakeSky {
	return &fakeSky{
		hasMoon:       true,
		window:        temporal.TimeWindow{SunriseStart: 6, SunriseEnd: 8, SunsetStart: 18, SunsetEnd: 20},
		phaseLength:   1,
		daysPassed:    0.7,
		hasDays:       true,
		sunColor:      colorspace.RGB{R: 1},
		moonRotation:  geometry.Matrix33{{0.8, 0, 0}, {0.2, 1, 0}, {0.1, 0, 1}},
		visibility:    -1,
		lightRotation: geometry.ZRotation(0.25),
	}
}

func (f *fakeSky) HasMoon() bool                   { return f.hasMoon }
func (f *fakeSky) GameHour() float64               { return f.gameHour }
func (f *fakeSky) TimeWindow() temporal.TimeWindow { return f.window }
func (f *fakeSky) PhaseLength() int                { return f.phaseLength }
func (f *fakeSky) DaysPassed() (float64, bool)     { return f.daysPassed, f.hasDays }
func (f *fakeSky) SunColor() colorspace.RGB        { return f.sunColor }

func (f *fakeSky) SetSunColor(c colorspace.RGB) {
	f.sunColor = c
	f.sunWrites++
}

func (f *fakeSky) SetMoonVisibility(v float64) { f.visibility = v }

func (f *fakeSky) MoonRotation() geometry.Matrix33 { return f.moonRotation }

func (f *fakeSky) SetMoonRotation(m geometry.Matrix33) {
	f.moonRotation = m
	f.rotationWrite = true
}

func (f *fakeSky) LightRotation() geometry.Matrix33 { return f.lightRotation }

func (f *fakeSky) SetLightRotation(m geometry.Matrix33) {
	f.lightRotation = m
	f.lightWrite = true
}

func (f *fakeSky) InteriorNorthAngle() (float64, bool) { return f.northAngle, f.interior }

func (f *fakeSky) AlignSky(rot geometry.Matrix33) { f.alignedSky = &rot }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFrame_SunsetDimsSun(t *testing.T) {
	sky := newFakeSky()
	sky.gameHour = 19.5

	out, lighted := NewOrchestrator(testLogger()).Frame(sky)

	require.True(t, lighted)
	assert.Equal(t, temporal.PeriodSunset, out.Period)
	assert.InDelta(t, 0.5, out.Multiplier, 1e-9)
	assert.InDelta(t, 0.5, sky.sunColor.R, 1e-9)
	assert.InDelta(t, 0.0, sky.sunColor.G, 1e-9)
	assert.Equal(t, 1.0, sky.visibility)
	assert.False(t, sky.rotationWrite, "moon must not be flipped outside the night")
}

func TestFrame_NightAppliesMoonPhase(t *testing.T) {
	sky := newFakeSky()
	sky.gameHour = 22
	sky.daysPassed = 4.5 // phase length 1 -> phase 4.5, new moon

	out, _ := NewOrchestrator(testLogger()).Frame(sky)

	assert.Equal(t, temporal.PeriodNight, out.Period)
	assert.InDelta(t, 4.5, out.Phase, 1e-9)
	assert.Equal(t, 0.0, sky.visibility)
	assert.InDelta(t, 1.0, sky.sunColor.R, 1e-9, "multiplier 2 clamps to full intensity")

	require.True(t, sky.rotationWrite)
	assert.InDelta(t, -0.4, sky.moonRotation[0][0], 1e-12)
	assert.Equal(t, 0.2, sky.moonRotation[1][0])
}

func TestFrame_NightLightFollowsMoon(t *testing.T) {
	sky := newFakeSky()
	sky.gameHour = 3

	NewOrchestrator(testLogger()).Frame(sky)

	require.True(t, sky.lightWrite)
	assert.Equal(t, sky.moonRotation, sky.lightRotation, "light takes the mirrored moon orientation")
	assert.InDelta(t, -0.4, sky.lightRotation[0][0], 1e-12)
}

func TestFrame_LightKeepsRotationOutsideNight(t *testing.T) {
	for _, hour := range []float64{7, 12, 19} {
		sky := newFakeSky()
		sky.gameHour = hour

		NewOrchestrator(testLogger()).Frame(sky)

		assert.False(t, sky.lightWrite, "hour %v", hour)
		assert.Equal(t, geometry.ZRotation(0.25), sky.lightRotation, "hour %v", hour)
	}
}

func TestFrame_DaysPassedDefaultsToOne(t *testing.T) {
	sky := newFakeSky()
	sky.gameHour = 2
	sky.hasDays = false
	sky.daysPassed = 100
	sky.phaseLength = 8 // 1 day of 8 -> phase 0.125

	out, _ := NewOrchestrator(testLogger()).Frame(sky)

	assert.InDelta(t, 0.125, out.Phase, 1e-9)
	assert.Equal(t, 0.9, sky.visibility)
}

func TestFrame_DaylightKeepsLastMultiplier(t *testing.T) {
	o := NewOrchestrator(testLogger())

	dusk := newFakeSky()
	dusk.gameHour = 19.75
	o.Frame(dusk)

	noon := newFakeSky()
	noon.gameHour = 12
	out, _ := o.Frame(noon)

	assert.Equal(t, temporal.PeriodDay, out.Period)
	assert.InDelta(t, 0.25, out.Multiplier, 1e-9)
	assert.InDelta(t, 0.25, noon.sunColor.R, 1e-9)
	assert.InDelta(t, 0.25, o.Context().Multiplier, 1e-9)
}

func TestFrame_NoMoonLeavesSunAlone(t *testing.T) {
	sky := newFakeSky()
	sky.hasMoon = false
	sky.gameHour = 19.5

	_, lighted := NewOrchestrator(testLogger()).Frame(sky)

	assert.False(t, lighted)
	assert.Equal(t, 0, sky.sunWrites)
	assert.Equal(t, -1.0, sky.visibility)
	require.NotNil(t, sky.alignedSky, "sky alignment runs even without a moon")
	assert.Equal(t, geometry.Identity(), *sky.alignedSky)
}

func TestFrame_InteriorNorthAngle(t *testing.T) {
	sky := newFakeSky()
	sky.gameHour = 12
	sky.interior = true
	sky.northAngle = 0.3

	NewOrchestrator(testLogger()).Frame(sky)

	require.NotNil(t, sky.alignedSky)
	assert.Equal(t, geometry.ZRotation(-0.3), *sky.alignedSky)
}

func TestCompute_MatchesFrame(t *testing.T) {
	in := FrameInput{
		GameHour:    7,
		Window:      temporal.TimeWindow{SunriseStart: 6, SunriseEnd: 8, SunsetStart: 18, SunsetEnd: 20},
		PhaseLength: 1,
		DaysPassed:  1,
		SunColor:    colorspace.RGB{R: 1, G: 0.5, B: 0},
	}

	out := NewOrchestrator(testLogger()).Compute(in)

	assert.Equal(t, temporal.PeriodSunrise, out.Period)
	assert.InDelta(t, 1.0, out.Multiplier, 1e-9)
	assert.InDelta(t, 1.0, out.SunColor.R, 1e-9)
	assert.InDelta(t, 0.5, out.SunColor.G, 1e-9)
	assert.InDelta(t, 100.0, out.HSV.Value, 1e-9)
}

func TestPreviewMoonDirection(t *testing.T) {
	moon := geometry.Matrix33{{0.8, 0, 0}, {0.6, 1, 0}, {0, 0, 1}}

	day := PreviewMoonDirection(geometry.Vec3{X: 0, Y: 2, Z: 0}, moon, false)
	assert.InDelta(t, -1.0, day.Y, 1e-12)

	night := PreviewMoonDirection(geometry.Vec3{X: 5, Y: 5, Z: 5}, moon, true)
	// (-0.4, 0.6, 0) normalised
	length := math.Sqrt(0.4*0.4 + 0.6*0.6)
	assert.InDelta(t, -0.4/length, night.X, 1e-12)
	assert.InDelta(t, 0.6/length, night.Y, 1e-12)
	assert.InDelta(t, 0.0, night.Z, 1e-12)

	zero := PreviewMoonDirection(geometry.Vec3{}, moon, false)
	assert.Equal(t, geometry.Vec3{}, zero)
}
