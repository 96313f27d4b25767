package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/codec"
	"github.com/example/rasterpad/internal/palette"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch currentSection {
		case "":
			err = setRootField(cfg, key, value)
		case "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "palette":
			err = setPaletteField(cfg, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d in section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "format":
		f, err := codec.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.Format = string(f)
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	switch strings.ToLower(key) {
	case "width", "height":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > canvas.MaxSide {
			return fmt.Errorf("invalid %s %q, must be 1..%d", key, value, canvas.MaxSide)
		}
		if strings.EqualFold(key, "width") {
			c.Width = n
		} else {
			c.Height = n
		}
	case "background":
		col, err := palette.ParseHex(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		c.Background = col
	}
	return nil
}

func setBrushField(b *Brush, key, value string) error {
	switch strings.ToLower(key) {
	case "color":
		col, err := palette.Default().Resolve(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		b.Color = col
	case "width":
		w, err := strconv.ParseFloat(value, 64)
		if err != nil || !canvas.ValidWidth(w) {
			return fmt.Errorf("invalid stroke width %q", value)
		}
		b.Stroke = b.Stroke.WithWidth(w)
	case "cap":
		c, err := ParseCap(value)
		if err != nil {
			return err
		}
		b.Stroke = b.Stroke.WithCap(c)
	case "join":
		j, err := ParseJoin(value)
		if err != nil {
			return err
		}
		b.Stroke = b.Stroke.WithJoin(j)
	case "dash":
		if value == "" || strings.EqualFold(value, "none") {
			b.Stroke = b.Stroke.WithDash(nil)
			return nil
		}
		var lengths []float64
		for _, f := range strings.Split(value, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil || !(v >= 0) || math.IsInf(v, 0) {
				return fmt.Errorf("invalid dash length %q", f)
			}
			lengths = append(lengths, v)
		}
		b.Stroke = b.Stroke.WithDash(gg.NewDash(lengths...))
	}
	return nil
}

func setPaletteField(cfg *Config, key, value string) error {
	col, err := palette.ParseHex(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	cfg.Palette[key] = col
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "open":
		n.Open = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
