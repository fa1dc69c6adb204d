package climate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saaga0h/moonlight/pkg/temporal"
)

// LoadTable loads a climate table from a YAML file
func LoadTable(filepath string) (*Table, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read climate file: %w", err)
	}

	return LoadTableFromBytes(data)
}

// LoadTableFromBytes loads a climate table from YAML data
func LoadTableFromBytes(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse climate YAML: %w", err)
	}

	if err := ValidateTable(&table); err != nil {
		return nil, fmt.Errorf("climate validation failed: %w", err)
	}

	return &table, nil
}

// ValidateTable checks every climate and rejects duplicate names
func ValidateTable(t *Table) error {
	if len(t.Climates) == 0 {
		return fmt.Errorf("at least one climate is required")
	}

	seen := make(map[string]bool, len(t.Climates))
	for i := range t.Climates {
		c := &t.Climates[i]
		if err := ValidateClimate(c); err != nil {
			return fmt.Errorf("climate %d (%s): %w", i, c.Name, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("climate %d: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
	}

	return nil
}

// ValidateClimate checks a single climate
func ValidateClimate(c *Climate) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	if c.PhaseLength&temporal.PhaseLengthMask == 0 {
		return fmt.Errorf("phase_length %d masks to 0", c.PhaseLength)
	}

	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}

	if c.SunColor.HSV.Value <= 0 {
		return fmt.Errorf("sun_color must not be black")
	}

	return nil
}
