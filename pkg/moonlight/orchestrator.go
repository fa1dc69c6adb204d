package moonlight

import (
	"context"
	"log/slog"

	"github.com/saaga0h/moonlight/pkg/geometry"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

// Orchestrator binds the lighting model to a host. It owns the lighting
// context, so one orchestrator must not be shared between hosts.
type Orchestrator struct {
	ctx    *temporal.LightingContext
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator with a fresh lighting context
func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		ctx:    temporal.NewLightingContext(),
		logger: logger,
	}
}

// Context returns the lighting context carried between frames
func (o *Orchestrator) Context() *temporal.LightingContext {
	return o.ctx
}

// Compute evaluates a frame against the orchestrator's context
func (o *Orchestrator) Compute(in FrameInput) FrameOutput {
	out := Compute(o.ctx, in)
	o.logFrame(in, out)
	return out
}

// Frame reads the host sky, recolours the sun and publishes moon visibility.
// It returns false when the host has no moon and nothing was recoloured.
func (o *Orchestrator) Frame(host HostSkyState) (FrameOutput, bool) {
	var (
		out     FrameOutput
		lighted bool
	)

	if host.HasMoon() {
		daysPassed, ok := host.DaysPassed()
		if !ok {
			daysPassed = temporal.DefaultDaysPassed
		}

		out = o.Compute(FrameInput{
			GameHour:    host.GameHour(),
			Window:      host.TimeWindow(),
			PhaseLength: host.PhaseLength(),
			DaysPassed:  daysPassed,
			SunColor:    host.SunColor(),
		})

		if out.Period == temporal.PeriodNight {
			o.orientNight(host)
		}

		host.SetSunColor(out.SunColor)
		host.SetMoonVisibility(out.MoonVisibility)
		lighted = true
	}

	o.alignSky(host)

	return out, lighted
}

// orientNight mirrors the moon across the sky and points the directional
// light along the mirrored moon
func (o *Orchestrator) orientNight(host HostSkyState) {
	rotator, ok := host.(MoonRotator)
	if !ok {
		return
	}

	rot := rotator.MoonRotation()
	rot[0][0] = -(rot[0][0] * 0.5)
	rotator.SetMoonRotation(rot)

	if light, ok := host.(LightRotator); ok {
		light.SetLightRotation(rot)
	}
}

// alignSky rotates the sky to the interior north angle. Outdoors the angle is 0.
func (o *Orchestrator) alignSky(host HostSkyState) {
	aligner, ok := host.(SkyAligner)
	if !ok {
		return
	}

	northAngle := 0.0
	if angle, interior := aligner.InteriorNorthAngle(); interior {
		northAngle = -angle
	}
	aligner.AlignSky(geometry.ZRotation(northAngle))
}

func (o *Orchestrator) logFrame(in FrameInput, out FrameOutput) {
	if !o.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	half := ""
	if out.Period == temporal.PeriodNight {
		half = "first"
		if out.SecondHalf {
			half = "second"
		}
	}

	o.logger.Debug("Frame evaluated",
		"game_hour", in.GameHour,
		"days_passed", in.DaysPassed,
		"period", out.Period.String(),
		"night_half", half,
		"multiplier", out.Multiplier,
		"phase", out.Phase,
		"moon_visibility", out.MoonVisibility,
		"sun_hsv", out.HSV.String(),
		"sun_rgb", out.SunColor.String())
}

// PreviewMoonDirection computes the editor preview light direction. The
// incoming position is mirrored on Y; at night the direction follows the
// moon's first rotation column with X halved and negated.
func PreviewMoonDirection(position geometry.Vec3, moonRotation geometry.Matrix33, night bool) geometry.Vec3 {
	position.Y = -position.Y
	if night {
		col := moonRotation.Column(0)
		position = geometry.Vec3{X: -(col.X * 0.5), Y: col.Y, Z: col.Z}
	}

	unit, _ := position.Unitize()
	return unit
}
