package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/palette"
)

// Notify holds notification settings.
type Notify struct {
	Open bool
	Save bool
	Copy bool
}

// Canvas describes the blank canvas created at startup.
type Canvas struct {
	Width      int
	Height     int
	Background color.NRGBA
}

// Brush describes the initial drawing context.
type Brush struct {
	Color  color.NRGBA
	Stroke gg.Stroke
}

// Config holds the application configuration.
type Config struct {
	Format  string
	SaveDir string
	Canvas  Canvas
	Brush   Brush
	Notify  Notify
	// Palette holds extra named colors, keyed by name as written.
	Palette map[string]color.NRGBA
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Format: "png",
		Canvas: Canvas{
			Width:      canvas.DefaultWidth,
			Height:     canvas.DefaultHeight,
			Background: canvas.White,
		},
		Brush: Brush{
			Color:  canvas.Black,
			Stroke: canvas.DefaultStroke(),
		},
		Palette: make(map[string]color.NRGBA),
	}
}

// SurfaceOptions returns the canvas options described by the configuration.
func (c *Config) SurfaceOptions() []canvas.Option {
	return []canvas.Option{
		canvas.WithSize(c.Canvas.Width, c.Canvas.Height),
		canvas.WithBackground(c.Canvas.Background),
		canvas.WithColor(c.Brush.Color),
		canvas.WithStroke(c.Brush.Stroke),
	}
}

// BuildPalette returns the default palette extended with configured colors.
func (c *Config) BuildPalette() *palette.Palette {
	p := palette.Default()
	for _, name := range sortedKeys(c.Palette) {
		p.Set(name, c.Palette[name])
	}
	return p
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Format != "" {
		fmt.Fprintf(&sb, "format = %s\n", c.Format)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "background = %s\n", palette.Hex(c.Canvas.Background))
	sb.WriteString("\n")

	st := c.Brush.Stroke
	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "color = %s\n", palette.Hex(c.Brush.Color))
	fmt.Fprintf(&sb, "width = %g\n", st.Width)
	fmt.Fprintf(&sb, "cap = %s\n", capName(st.Cap))
	fmt.Fprintf(&sb, "join = %s\n", joinName(st.Join))
	if st.IsDashed() {
		parts := make([]string, len(st.Dash.Array))
		for i, v := range st.Dash.Array {
			parts[i] = fmt.Sprintf("%g", v)
		}
		fmt.Fprintf(&sb, "dash = %s\n", strings.Join(parts, ","))
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "open = %v\n", c.Notify.Open)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	if len(c.Palette) > 0 {
		sb.WriteString("\n[palette]\n")
		for _, name := range sortedKeys(c.Palette) {
			fmt.Fprintf(&sb, "%s = %s\n", name, palette.Hex(c.Palette[name]))
		}
	}

	return sb.String()
}

func sortedKeys(m map[string]color.NRGBA) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var capNames = map[gg.LineCap]string{
	gg.LineCapButt:   "butt",
	gg.LineCapRound:  "round",
	gg.LineCapSquare: "square",
}

var joinNames = map[gg.LineJoin]string{
	gg.LineJoinMiter: "miter",
	gg.LineJoinRound: "round",
	gg.LineJoinBevel: "bevel",
}

func capName(c gg.LineCap) string {
	if n, ok := capNames[c]; ok {
		return n
	}
	return "butt"
}

func joinName(j gg.LineJoin) string {
	if n, ok := joinNames[j]; ok {
		return n
	}
	return "miter"
}

// ParseCap parses a line cap name.
func ParseCap(s string) (gg.LineCap, error) {
	for k, v := range capNames {
		if strings.EqualFold(v, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown line cap %q", s)
}

// ParseJoin parses a line join name.
func ParseJoin(s string) (gg.LineJoin, error) {
	for k, v := range joinNames {
		if strings.EqualFold(v, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown line join %q", s)
}
