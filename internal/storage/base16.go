package storage

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/hueweave/hueweave/internal/shared/color"
)

// Base16Scheme is the interchange YAML format used by the wider
// theming ecosystem. Color values carry no '#' prefix on the wire.
type Base16Scheme struct {
	Scheme string `yaml:"scheme"`
	Author string `yaml:"author,omitempty"`
	Base00 string `yaml:"base00"`
	Base01 string `yaml:"base01"`
	Base02 string `yaml:"base02"`
	Base03 string `yaml:"base03"`
	Base04 string `yaml:"base04"`
	Base05 string `yaml:"base05"`
	Base06 string `yaml:"base06"`
	Base07 string `yaml:"base07"`
	Base08 string `yaml:"base08"`
	Base09 string `yaml:"base09"`
	Base0A string `yaml:"base0A"`
	Base0B string `yaml:"base0B"`
	Base0C string `yaml:"base0C"`
	Base0D string `yaml:"base0D"`
	Base0E string `yaml:"base0E"`
	Base0F string `yaml:"base0F"`
}

// ExportBase16 renders the palette as a Base16 scheme document. Slot i
// maps to base0X in order.
func ExportBase16(name string, p color.Palette) ([]byte, error) {
	scheme := Base16Scheme{Scheme: name}
	for i, c := range p {
		*scheme.slot(i) = strings.TrimPrefix(string(c), "#")
	}
	return yaml.Marshal(scheme)
}

// ImportBase16 parses a Base16 scheme document into a palette.
func ImportBase16(data []byte) (color.Palette, string, error) {
	var scheme Base16Scheme
	if err := yaml.Unmarshal(data, &scheme); err != nil {
		return color.Palette{}, "", fmt.Errorf("parse base16 scheme: %w", err)
	}

	colors := make([]color.Color, color.PaletteSize)
	for i := range colors {
		raw := *scheme.slot(i)
		c, err := color.Parse("#" + strings.TrimPrefix(raw, "#"))
		if err != nil {
			return color.Palette{}, "", fmt.Errorf("base%02X: %w", i, err)
		}
		colors[i] = c
	}

	p, err := color.NewPalette(colors)
	if err != nil {
		return color.Palette{}, "", err
	}
	return p, scheme.Scheme, nil
}

// slot returns the field for palette index i.
func (s *Base16Scheme) slot(i int) *string {
	slots := [color.PaletteSize]*string{
		&s.Base00, &s.Base01, &s.Base02, &s.Base03,
		&s.Base04, &s.Base05, &s.Base06, &s.Base07,
		&s.Base08, &s.Base09, &s.Base0A, &s.Base0B,
		&s.Base0C, &s.Base0D, &s.Base0E, &s.Base0F,
	}
	return slots[i]
}
