package sky

import (
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/saaga0h/moonlight/pkg/temporal"
)

// SolarWindow derives the sunrise/sunset window from real sun times on date
// at the given coordinates. Sunrise runs from civil dawn to the end of the
// morning golden hour, sunset from the evening golden hour to civil dusk.
// It returns fallback and false when the sun does not reach those altitudes
// (polar day or night) or the times are out of order.
func SolarWindow(date time.Time, lat, lon float64, loc *time.Location, fallback temporal.TimeWindow) (temporal.TimeWindow, bool) {
	local := date.In(loc)
	noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)

	times := suncalc.GetTimes(noon, lat, lon)
	return windowFromTimes(times, noon, loc, fallback)
}

func windowFromTimes(times map[suncalc.DayTimeName]suncalc.DayTime, noon time.Time, loc *time.Location, fallback temporal.TimeWindow) (temporal.TimeWindow, bool) {
	midnight := time.Date(noon.Year(), noon.Month(), noon.Day(), 0, 0, 0, 0, loc)

	hours := make(map[suncalc.DayTimeName]float64, 4)
	for _, name := range []suncalc.DayTimeName{suncalc.Dawn, suncalc.GoldenHourEnd, suncalc.GoldenHour, suncalc.Dusk} {
		dt, ok := times[name]
		if !ok || dt.Value.IsZero() {
			return fallback, false
		}

		h := dt.Value.Sub(midnight).Hours()
		// Unreachable altitudes come back as NaN-derived instants far from the date
		if h < -24 || h > 48 {
			return fallback, false
		}
		hours[name] = h
	}

	w := temporal.TimeWindow{
		SunriseStart: hours[suncalc.Dawn],
		SunriseEnd:   hours[suncalc.GoldenHourEnd],
		SunsetStart:  hours[suncalc.GoldenHour],
		SunsetEnd:    hours[suncalc.Dusk],
	}
	if err := w.Validate(); err != nil {
		return fallback, false
	}
	return w, true
}
