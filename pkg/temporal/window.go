package temporal

import "fmt"

// TimeWindow holds the sunrise and sunset boundaries in game hours.
// End values may exceed 24 when the host wraps past midnight.
type TimeWindow struct {
	SunriseStart float64 `json:"sunrise_start" yaml:"sunrise_start"`
	SunriseEnd   float64 `json:"sunrise_end" yaml:"sunrise_end"`
	SunsetStart  float64 `json:"sunset_start" yaml:"sunset_start"`
	SunsetEnd    float64 `json:"sunset_end" yaml:"sunset_end"`
}

// Validate checks that the boundaries are in chronological order
func (w TimeWindow) Validate() error {
	if w.SunriseStart > w.SunriseEnd {
		return fmt.Errorf("sunrise start %.2f is after sunrise end %.2f", w.SunriseStart, w.SunriseEnd)
	}
	if w.SunriseEnd > w.SunsetStart {
		return fmt.Errorf("sunrise end %.2f is after sunset start %.2f", w.SunriseEnd, w.SunsetStart)
	}
	if w.SunsetStart > w.SunsetEnd {
		return fmt.Errorf("sunset start %.2f is after sunset end %.2f", w.SunsetStart, w.SunsetEnd)
	}
	return nil
}

// Period is the part of the day a game hour falls into
type Period int

const (
	PeriodDay Period = iota
	PeriodSunrise
	PeriodSunset
	PeriodNight
)

func (p Period) String() string {
	switch p {
	case PeriodDay:
		return "day"
	case PeriodSunrise:
		return "sunrise"
	case PeriodSunset:
		return "sunset"
	case PeriodNight:
		return "night"
	default:
		return "unknown"
	}
}

// Classify returns the period for gameHour. Night is checked first, then
// sunset, then sunrise; anything else is day.
func Classify(gameHour float64, w TimeWindow) Period {
	if gameHour >= w.SunsetEnd || gameHour < w.SunriseStart {
		return PeriodNight
	}
	if gameHour >= w.SunsetStart && gameHour <= w.SunsetEnd {
		return PeriodSunset
	}
	if gameHour >= w.SunriseStart && gameHour <= w.SunriseEnd {
		return PeriodSunrise
	}
	return PeriodDay
}
