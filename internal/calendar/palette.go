package calendar

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Color is the render style for one event category.
type Color struct {
	Background string `yaml:"background" json:"background"`
	Foreground string `yaml:"foreground" json:"foreground"`
	Border     string `yaml:"border" json:"border"`
	Soft       string `yaml:"soft" json:"soft"`
}

// Palette maps event categories to colors. Lookups always succeed: the
// default palette carries an entry for DefaultCategory and For falls back
// to it for unknown categories.
type Palette map[string]Color

// DefaultPalette returns the site's fixed category colors.
func DefaultPalette() Palette {
	return Palette{
		"Academic":       {Background: "#cde36a", Foreground: "#0b1229", Border: "#b4cc55", Soft: "rgba(205,227,106,0.12)"},
		"Administrative": {Background: "#ffd966", Foreground: "#0b1229", Border: "#f2c84f", Soft: "rgba(255,217,102,0.12)"},
		"Holiday":        {Background: "#ff4b4b", Foreground: "#ffffff", Border: "#e14444", Soft: "rgba(255,75,75,0.10)"},
		"Dance":          {Background: "#22c1f1", Foreground: "#0b1229", Border: "#16a7d3", Soft: "rgba(34,193,241,0.12)"},
		"Music":          {Background: "#f2f542", Foreground: "#0b1229", Border: "#dbde34", Soft: "rgba(242,245,66,0.12)"},
		"Trimester":      {Background: "#5dd39e", Foreground: "#0b1229", Border: "#49bb8a", Soft: "rgba(93,211,158,0.12)"},
		DefaultCategory:  {Background: "#cfcfd9", Foreground: "#0b1229", Border: "#bdbdc9", Soft: "rgba(207,207,217,0.12)"},
	}
}

// For returns the color for a category, falling back to the
// DefaultCategory entry when the category is empty or unrecognized.
func (p Palette) For(category string) Color {
	if category != "" {
		if c, ok := p[category]; ok {
			return c
		}
	}
	return p[DefaultCategory]
}

// Categories returns the palette's category names in a stable order, with
// DefaultCategory last. This is the filter-chip order the site shows.
func (p Palette) Categories() []string {
	fixed := []string{"Academic", "Administrative", "Holiday", "Dance", "Music", "Trimester"}
	out := make([]string, 0, len(p))
	for _, name := range fixed {
		if _, ok := p[name]; ok {
			out = append(out, name)
		}
	}
	var extra []string
	for name := range p {
		if name == DefaultCategory || slices.Contains(fixed, name) {
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	out = append(out, extra...)
	if _, ok := p[DefaultCategory]; ok {
		out = append(out, DefaultCategory)
	}
	return out
}

// LoadPalette merges a YAML override file on top of the default palette.
// Categories present in the file replace or extend the defaults; the
// DefaultCategory entry always survives.
func LoadPalette(path string) (Palette, error) {
	base := DefaultPalette()
	if path == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}
	var overrides map[string]Color
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parsing palette file: %w", err)
	}
	for name, c := range overrides {
		base[name] = c
	}
	if _, ok := base[DefaultCategory]; !ok {
		base[DefaultCategory] = DefaultPalette()[DefaultCategory]
	}
	return base, nil
}
