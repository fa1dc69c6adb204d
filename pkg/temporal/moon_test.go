package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoonPhase(t *testing.T) {
	tests := []struct {
		name        string
		daysPassed  float64
		phaseLength int
		expected    float64
	}{
		{"start of cycle", 0, 3, 0},
		{"one day into 3-day phases", 1, 3, 1.0 / 3},
		{"wraps after full cycle", 24 + 6, 3, 2},
		{"fractional days", 4.5, 1, 4.5},
		{"mask keeps low 6 bits", 10, 64 + 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MoonPhase(tt.daysPassed, tt.phaseLength), 1e-9)
		})
	}
}

func TestMoonPhase_ZeroLength(t *testing.T) {
	phase := MoonPhase(12, 64) // masks to 0
	require.True(t, math.IsNaN(phase))

	_, ok := MoonVisibility(phase)
	assert.False(t, ok)
}

func TestMoonVisibility_NoMatchAtBoundaries(t *testing.T) {
	for _, phase := range []float64{0.25, 1.25, 2.25, 3.25, 5.25, 6.25, 7.25, 8.25} {
		_, ok := MoonVisibility(phase)
		assert.False(t, ok, "phase %.2f", phase)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, PeriodNight, Classify(21, testWindow))
	assert.Equal(t, PeriodNight, Classify(20, testWindow))
	assert.Equal(t, PeriodNight, Classify(5.99, testWindow))
	assert.Equal(t, PeriodSunset, Classify(19, testWindow))
	assert.Equal(t, PeriodSunrise, Classify(6, testWindow))
	assert.Equal(t, PeriodDay, Classify(13, testWindow))
	assert.Equal(t, PeriodDay, Classify(math.NaN(), testWindow))
}

func TestTimeWindow_Validate(t *testing.T) {
	assert.NoError(t, testWindow.Validate())

	bad := testWindow
	bad.SunriseEnd = 19
	assert.Error(t, bad.Validate())

	wrapped := TimeWindow{SunriseStart: 5, SunriseEnd: 7, SunsetStart: 22, SunsetEnd: 25}
	assert.NoError(t, wrapped.Validate())
}
