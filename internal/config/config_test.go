package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gg"
)

func TestParse(t *testing.T) {
	input := `
format = tiff
save_dir = /tmp/pictures

[canvas]
width = 320
height = 200
background = #101010

[brush]
color = red
width = 5
cap = square
join = bevel
dash = 4, 2

[notify]
open = true
save = false
copy = true

[palette]
Brand = #336699
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Format != "tiff" {
		t.Errorf("Expected format 'tiff', got '%s'", cfg.Format)
	}
	if cfg.SaveDir != "/tmp/pictures" {
		t.Errorf("Expected save_dir '/tmp/pictures', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas.Width != 320 || cfg.Canvas.Height != 200 {
		t.Errorf("Unexpected canvas size %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Background != (color.NRGBA{0x10, 0x10, 0x10, 255}) {
		t.Errorf("Unexpected background %v", cfg.Canvas.Background)
	}
	if cfg.Brush.Color != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("Unexpected brush color %v", cfg.Brush.Color)
	}
	st := cfg.Brush.Stroke
	if st.Width != 5 || st.Cap != gg.LineCapSquare || st.Join != gg.LineJoinBevel {
		t.Errorf("Unexpected stroke %+v", st)
	}
	if !st.IsDashed() || len(st.Dash.Array) != 2 || st.Dash.Array[0] != 4 {
		t.Errorf("Unexpected dash %+v", st.Dash)
	}
	if !cfg.Notify.Open || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify settings %+v", cfg.Notify)
	}
	if cfg.Palette["Brand"] != (color.NRGBA{0x33, 0x66, 0x99, 255}) {
		t.Errorf("Unexpected palette entry %v", cfg.Palette["Brand"])
	}
	if c, ok := cfg.BuildPalette().Lookup("brand"); !ok || c != cfg.Palette["Brand"] {
		t.Errorf("palette entry not exposed: %v %v", c, ok)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"format":   "format = jpeg\n",
		"width":    "[canvas]\nwidth = -1\n",
		"color":    "[brush]\ncolor = notacolor\n",
		"cap":      "[brush]\ncap = pointy\n",
		"notify":   "[notify]\nsave = maybe\n",
		"palette":  "[palette]\nx = blue\n",
		"dashjunk": "[brush]\ndash = 1,x\n",
		"huge":     "[canvas]\nwidth = 100000\n",
		"nanwidth": "[brush]\nwidth = NaN\n",
		"infwidth": "[brush]\nwidth = +Inf\n",
		"nandash":  "[brush]\ndash = 4,NaN\n",
		"infdash":  "[brush]\ndash = Inf,2\n",
	}
	for name, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `format = bmp
save_dir = /home/user/pictures

[canvas]
width = 100
height = 50
background = #FFFFFF80

[brush]
color = #00FF00
width = 2.5
cap = butt
join = round
dash = 3,1

[notify]
open = true
save = true
copy = false

[palette]
Sky = #87CEEB
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Format != cfg2.Format || cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("Root mismatch: %q/%q vs %q/%q", cfg.Format, cfg.SaveDir, cfg2.Format, cfg2.SaveDir)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	a, b := cfg.Brush.Stroke, cfg2.Brush.Stroke
	if cfg.Brush.Color != cfg2.Brush.Color || a.Width != b.Width || a.Cap != b.Cap || a.Join != b.Join {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, cfg2.Brush)
	}
	if !b.IsDashed() || b.Dash.Array[0] != 3 || b.Dash.Array[1] != 1 {
		t.Errorf("Dash lost: %+v", b.Dash)
	}
	if cfg2.Palette["Sky"] != cfg.Palette["Sky"] {
		t.Errorf("Palette mismatch")
	}
}

func TestLoaderOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("[canvas]\nwidth = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, path)
	t.Setenv("XDG_CONFIG_HOME", dir)
	l := NewLoader("release", "")
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q, want %q", got, path)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.Width != 12 {
		t.Fatalf("width = %d", cfg.Canvas.Width)
	}
}

func TestLoaderDefaults(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := NewLoader("release", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.Width != 640 || cfg.Format != "png" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
