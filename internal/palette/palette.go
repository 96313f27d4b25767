// Package palette resolves user color specs: palette names, CSS color names
// and hex values.
package palette

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Entry is a named palette color.
type Entry struct {
	Name  string
	Color color.NRGBA
}

// Palette is an ordered set of named colors offered by the color chooser.
type Palette struct {
	entries []Entry
}

// Default returns the sixteen basic colors.
func Default() *Palette {
	return &Palette{entries: []Entry{
		{"Black", color.NRGBA{0, 0, 0, 255}},
		{"White", color.NRGBA{255, 255, 255, 255}},
		{"Red", color.NRGBA{255, 0, 0, 255}},
		{"Lime", color.NRGBA{0, 255, 0, 255}},
		{"Blue", color.NRGBA{0, 0, 255, 255}},
		{"Yellow", color.NRGBA{255, 255, 0, 255}},
		{"Cyan", color.NRGBA{0, 255, 255, 255}},
		{"Magenta", color.NRGBA{255, 0, 255, 255}},
		{"Maroon", color.NRGBA{128, 0, 0, 255}},
		{"Green", color.NRGBA{0, 128, 0, 255}},
		{"Navy", color.NRGBA{0, 0, 128, 255}},
		{"Olive", color.NRGBA{128, 128, 0, 255}},
		{"Teal", color.NRGBA{0, 128, 128, 255}},
		{"Purple", color.NRGBA{128, 0, 128, 255}},
		{"Silver", color.NRGBA{192, 192, 192, 255}},
		{"Gray", color.NRGBA{128, 128, 128, 255}},
	}}
}

// Entries returns a copy of the palette in display order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Set adds a named color or replaces the color of an existing name.
func (p *Palette) Set(name string, c color.NRGBA) {
	for i, e := range p.entries {
		if strings.EqualFold(e.Name, name) {
			p.entries[i].Color = c
			return
		}
	}
	p.entries = append(p.entries, Entry{Name: name, Color: c})
}

// Lookup finds a palette color by case-insensitive name.
func (p *Palette) Lookup(name string) (color.NRGBA, bool) {
	for _, e := range p.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Color, true
		}
	}
	return color.NRGBA{}, false
}

// Resolve turns a color spec into a color. Palette names win over CSS names
// from golang.org/x/image/colornames; otherwise the spec must be #RRGGBB or
// #RRGGBBAA.
func (p *Palette) Resolve(spec string) (color.NRGBA, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("color cannot be empty")
	}
	if p != nil {
		if c, ok := p.Lookup(s); ok {
			return c, nil
		}
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	if strings.HasPrefix(s, "#") {
		return ParseHex(s)
	}
	return color.NRGBA{}, fmt.Errorf("invalid color %q", spec)
}

// Names lists every name Resolve accepts besides hex values, sorted.
func (p *Palette) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, e := range p.entries {
		k := strings.ToLower(e.Name)
		if !seen[k] {
			seen[k] = true
			names = append(names, e.Name)
		}
	}
	for _, n := range colornames.Names {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })
	return names
}

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.NRGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return color.NRGBA{uint8(val >> 16), uint8(val >> 8), uint8(val), 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return color.NRGBA{uint8(val >> 24), uint8(val >> 16), uint8(val >> 8), uint8(val)}, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid hex length in %q", s)
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
