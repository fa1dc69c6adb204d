package colorspace

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a colour with channels normalised to [0,1]
type RGB struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// HSV is a colour with hue in degrees [0,360) and saturation/value as percentages [0,100]
type HSV struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
}

// ParseHex parses a "#rrggbb" string into an RGB colour
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: c.R, G: c.G, B: c.B}, nil
}

// Hex formats the colour as "#rrggbb". Channels outside [0,1] are clamped.
func (c RGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

func (c RGB) String() string {
	return fmt.Sprintf("R %f, G %f, B %f", c.R, c.G, c.B)
}

func (h HSV) String() string {
	return fmt.Sprintf("H %f, S %f, V %f", h.Hue, h.Saturation, h.Value)
}
