package temporal

// LightingContext carries the model state between frames. The multiplier
// keeps its last value through full daylight, where no window sets it.
type LightingContext struct {
	Multiplier     float64
	MoonVisibility float64
	Period         Period

	// SecondHalf is set for night frames between midnight and sunrise start
	SecondHalf bool
}

// NewLightingContext returns a context with multiplier and visibility at 1
func NewLightingContext() *LightingContext {
	return &LightingContext{
		Multiplier:     1,
		MoonVisibility: 1,
		Period:         PeriodDay,
	}
}

// Evaluate advances the context to gameHour and returns the brightness
// multiplier and moon visibility for the frame
func (lc *LightingContext) Evaluate(gameHour float64, w TimeWindow, phase float64) (multiplier, moonVisibility float64) {
	lc.MoonVisibility = 1
	lc.SecondHalf = false
	lc.Period = Classify(gameHour, w)

	switch lc.Period {
	case PeriodNight:
		if v, ok := MoonVisibility(phase); ok {
			lc.MoonVisibility = v
		}

		if gameHour > w.SunsetEnd {
			lc.Multiplier = gameHour - w.SunsetEnd
		} else {
			lc.Multiplier = -(gameHour - w.SunriseStart)
			lc.SecondHalf = true
		}
	case PeriodSunset:
		lc.Multiplier = -(gameHour - w.SunsetEnd)
	case PeriodSunrise:
		lc.Multiplier = gameHour - w.SunriseStart
	}

	return lc.Multiplier, lc.MoonVisibility
}

// Evaluate runs a single evaluation against a fresh context
func Evaluate(gameHour, sunriseStart, sunriseEnd, sunsetStart, sunsetEnd, phase float64) (multiplier, moonVisibility float64) {
	w := TimeWindow{
		SunriseStart: sunriseStart,
		SunriseEnd:   sunriseEnd,
		SunsetStart:  sunsetStart,
		SunsetEnd:    sunsetEnd,
	}
	return NewLightingContext().Evaluate(gameHour, w, phase)
}

// Intensity clamps a multiplier to [0,1]
func Intensity(multiplier float64) float64 {
	return min(max(multiplier, 0), 1)
}
