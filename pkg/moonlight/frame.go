package moonlight

import (
	"github.com/saaga0h/moonlight/pkg/colorspace"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

// FrameInput is everything the model needs for one frame
type FrameInput struct {
	GameHour    float64
	Window      temporal.TimeWindow
	PhaseLength int
	DaysPassed  float64
	SunColor    colorspace.RGB
}

// FrameOutput is the result of one frame
type FrameOutput struct {
	SunColor       colorspace.RGB
	MoonVisibility float64
	Multiplier     float64
	Phase          float64
	Period         temporal.Period
	SecondHalf     bool

	// HSV is the sun colour after the intensity was applied
	HSV colorspace.HSV
}

// Compute evaluates one frame against lc and derives the sun tint
func Compute(lc *temporal.LightingContext, in FrameInput) FrameOutput {
	phase := temporal.MoonPhase(in.DaysPassed, in.PhaseLength)
	multiplier, visibility := lc.Evaluate(in.GameHour, in.Window, phase)

	hsv := colorspace.RGBToHSV(in.SunColor)
	hsv.Value *= temporal.Intensity(multiplier)

	return FrameOutput{
		SunColor:       colorspace.HSVToRGB(hsv),
		MoonVisibility: visibility,
		Multiplier:     multiplier,
		Phase:          phase,
		Period:         lc.Period,
		SecondHalf:     lc.SecondHalf,
		HSV:            hsv,
	}
}
