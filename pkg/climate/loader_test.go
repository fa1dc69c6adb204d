package climate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `
climates:
  - name: wasteland
    description: Mojave default
    phase_length: 3
    sun_color: "#ffd9a6"
    window:
      sunrise_start: 5.5
      sunrise_end: 7.5
      sunset_start: 18.5
      sunset_end: 20.5
  - name: packed
    phase_length: 0x43
    sun_color: 0x0080FF
    solar: true
    window:
      sunrise_start: 6
      sunrise_end: 8
      sunset_start: 18
      sunset_end: 20
  - name: mapped
    phase_length: 8
    sun_color: {r: 0.2, g: 0.4, b: 1.0}
    window:
      sunrise_start: 4
      sunrise_end: 6
      sunset_start: 21
      sunset_end: 25
`

func TestLoadTableFromBytes(t *testing.T) {
	table, err := LoadTableFromBytes([]byte(testTable))
	require.NoError(t, err)

	assert.Equal(t, []string{"wasteland", "packed", "mapped"}, table.Names())

	wasteland, err := table.Get("wasteland")
	require.NoError(t, err)
	assert.Equal(t, 3, wasteland.PhaseLength)
	assert.InDelta(t, 1.0, wasteland.SunColor.R, 1e-9)
	assert.InDelta(t, 0xd9/255.0, wasteland.SunColor.G, 1e-9)
	assert.Equal(t, 20.5, wasteland.Window.SunsetEnd)
	assert.False(t, wasteland.Solar)

	packed, err := table.Get("packed")
	require.NoError(t, err)
	assert.True(t, packed.Solar)
	// 0x0080FF: red is the lowest byte
	assert.InDelta(t, 1.0, packed.SunColor.R, 1e-9)
	assert.InDelta(t, 128/255.0, packed.SunColor.G, 1e-9)
	assert.InDelta(t, 0.0, packed.SunColor.B, 1e-9)
	assert.InDelta(t, 100.0, packed.SunColor.HSV.Value, 1e-9)

	mapped, err := table.Get("mapped")
	require.NoError(t, err)
	assert.Equal(t, 0.4, mapped.SunColor.G)
	assert.InDelta(t, 100.0, mapped.SunColor.HSV.Value, 1e-9)
}

func TestLoadTable_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testTable), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Len(t, table.Climates, 3)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadTable_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty table", `climates: []`},
		{"missing name", `
climates:
  - phase_length: 3
    sun_color: "#ffffff"
    window: {sunrise_start: 6, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
`},
		{"phase length masks to zero", `
climates:
  - name: broken
    phase_length: 64
    sun_color: "#ffffff"
    window: {sunrise_start: 6, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
`},
		{"window out of order", `
climates:
  - name: broken
    phase_length: 3
    sun_color: "#ffffff"
    window: {sunrise_start: 9, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
`},
		{"black sun", `
climates:
  - name: broken
    phase_length: 3
    sun_color: "#000000"
    window: {sunrise_start: 6, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
`},
		{"missing sun colour", `
climates:
  - name: broken
    phase_length: 3
    window: {sunrise_start: 6, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
`},
		{"bad hex", `
climates:
  - name: broken
    phase_length: 3
    sun_color: "orange"
    window: {sunrise_start: 6, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
`},
		{"duplicate", `
climates:
  - name: twin
    phase_length: 3
    sun_color: "#ffffff"
    window: {sunrise_start: 6, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
  - name: twin
    phase_length: 3
    sun_color: "#ffffff"
    window: {sunrise_start: 6, sunrise_end: 8, sunset_start: 18, sunset_end: 20}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTableFromBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	table := Default()

	require.NoError(t, ValidateTable(table))
	_, err := table.Get("wasteland")
	assert.NoError(t, err)

	_, err = table.Get("nowhere")
	assert.Error(t, err)
}
