package climate

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/saaga0h/moonlight/pkg/colorspace"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

// Table is a set of named climates
type Table struct {
	Climates []Climate `yaml:"climates"`
}

// Climate describes the sky parameters a host derives from its current climate
type Climate struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	PhaseLength int                 `yaml:"phase_length"` // days per moon phase, masked to 6 bits
	SunColor    SunColor            `yaml:"sun_color"`
	Window      temporal.TimeWindow `yaml:"window"`

	// Solar derives the window from real sun times at the configured
	// coordinates; Window is the fallback when the sun never reaches the
	// required altitudes
	Solar bool `yaml:"solar"`
}

// SunColor is the base directional sun colour. In YAML it may be a
// "#rrggbb" string, a packed 24-bit integer with red in the lowest byte,
// or an {r, g, b} mapping.
type SunColor struct {
	colorspace.RGB

	// HSV is the colour as the model sees it
	HSV colorspace.HSV
}

// UnmarshalYAML implements yaml.Unmarshaler
func (s *SunColor) UnmarshalYAML(value *yaml.Node) error {
	switch {
	case value.Kind == yaml.ScalarNode && value.Tag == "!!int":
		var packed uint32
		if err := value.Decode(&packed); err != nil {
			return fmt.Errorf("line %d: invalid packed sun colour: %w", value.Line, err)
		}
		s.RGB = colorspace.HexToRGB(packed)
		s.HSV = colorspace.HexToHSV(packed)
	case value.Kind == yaml.ScalarNode:
		rgb, err := colorspace.ParseHex(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		s.RGB = rgb
		s.HSV = colorspace.RGBToHSV(rgb)
	case value.Kind == yaml.MappingNode:
		var rgb colorspace.RGB
		if err := value.Decode(&rgb); err != nil {
			return fmt.Errorf("line %d: invalid sun colour mapping: %w", value.Line, err)
		}
		s.RGB = rgb
		s.HSV = colorspace.RGBToHSV(rgb)
	default:
		return fmt.Errorf("line %d: sun colour must be a hex string, packed integer or {r, g, b} mapping", value.Line)
	}
	return nil
}

// Get returns the climate with the given name
func (t *Table) Get(name string) (*Climate, error) {
	for i := range t.Climates {
		if t.Climates[i].Name == name {
			return &t.Climates[i], nil
		}
	}
	return nil, fmt.Errorf("climate %q not found", name)
}

// Names returns the climate names in table order
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Climates))
	for _, c := range t.Climates {
		names = append(names, c.Name)
	}
	return names
}

// Default returns the built-in climate table used when no file is configured
func Default() *Table {
	warm := colorspace.RGB{R: 1, G: 0.85, B: 0.65}
	return &Table{
		Climates: []Climate{
			{
				Name:        "wasteland",
				Description: "Dry desert climate with long dusks",
				PhaseLength: 3,
				SunColor:    SunColor{RGB: warm, HSV: colorspace.RGBToHSV(warm)},
				Window: temporal.TimeWindow{
					SunriseStart: 5.5,
					SunriseEnd:   7.5,
					SunsetStart:  18.5,
					SunsetEnd:    20.5,
				},
			},
		},
	}
}
