package temporal

import "math"

// PhaseLengthMask bounds the climate phase length to 6 bits
const PhaseLengthMask = 0x3f

// DefaultDaysPassed is used when the host cannot report elapsed days
const DefaultDaysPassed = 1.0

// MoonPhase maps elapsed days onto the moon cycle, in eighths of a cycle.
// A masked phase length of 0 yields NaN, which matches no visibility band.
func MoonPhase(daysPassed float64, phaseLength int) float64 {
	length := float64(phaseLength & PhaseLengthMask)
	return math.Mod(daysPassed, length*8) / length
}

type visibilityBand struct {
	ranges     [][2]float64
	below      float64 // also matches phase < below when set
	visibility float64
}

// Bands are tested in order; bounds are exclusive so exact .25 boundaries
// fall through to "no match".
var visibilityBands = []visibilityBand{
	{ranges: [][2]float64{{4.25, 5.25}}, visibility: 0},
	{ranges: [][2]float64{{3.25, 4.25}, {5.25, 6.25}}, visibility: 0.3},
	{ranges: [][2]float64{{2.25, 3.25}, {6.25, 7.25}}, visibility: 0.5},
	{ranges: [][2]float64{{1.25, 2.25}, {7.25, 8.25}}, below: 0.25, visibility: 0.9},
	{ranges: [][2]float64{{0.25, 1.25}}, visibility: 1},
}

// MoonVisibility returns the visibility for a moon phase and whether any
// band matched
func MoonVisibility(phase float64) (float64, bool) {
	for _, band := range visibilityBands {
		for _, r := range band.ranges {
			if phase > r[0] && phase < r[1] {
				return band.visibility, true
			}
		}
		if band.below != 0 && phase < band.below {
			return band.visibility, true
		}
	}
	return 0, false
}
