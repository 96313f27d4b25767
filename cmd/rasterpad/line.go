package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/config"
	"github.com/example/rasterpad/internal/menu"
)

// lineCmd strokes a polyline onto an image file.
type lineCmd struct {
	editCmd
	width   float64
	capName string
	join    string
	dash    string
	points  []image.Point
}

var lineFlagNames = map[string]struct{}{
	"file":           {},
	"output":         {},
	"from-clipboard": {},
	"to-clipboard":   {},
	"color":          {},
	"width":          {},
	"cap":            {},
	"join":           {},
	"dash":           {},
}

var lineBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"to-clipboard":   {},
}

func parseLineCmd(args []string, r *root) (*lineCmd, error) {
	fs := flag.NewFlagSet("line", flag.ExitOnError)
	l := &lineCmd{editCmd: editCmd{op: "line", root: r, fs: fs}}
	fs.Usage = usageFunc(l)
	fs.StringVar(&l.file, "file", "", "input image file")
	fs.StringVar(&l.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&l.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&l.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&l.colorSpec, "color", "", "brush color name or hex value (defaults to the configured brush)")
	fs.Float64Var(&l.width, "width", 0, "stroke width in pixels (defaults to the configured brush)")
	fs.StringVar(&l.capName, "cap", "", "line cap: butt, round or square")
	fs.StringVar(&l.join, "join", "", "line join: miter, round or bevel")
	fs.StringVar(&l.dash, "dash", "", "comma separated dash lengths, e.g. 6,3")

	flagArgs, positionals, err := splitLineArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) == 0 {
		return nil, &UsageError{of: l}
	}
	if l.points, err = parsePoints(positionals); err != nil {
		return nil, err
	}
	if l.width != 0 && !canvas.ValidWidth(l.width) {
		return nil, fmt.Errorf("stroke width must be a positive number, got %v", l.width)
	}
	if l.fromClipboard {
		if l.output == "" {
			return nil, fmt.Errorf("output file is required when reading from the clipboard")
		}
	} else {
		if l.file == "" {
			return nil, fmt.Errorf("line requires -file or -from-clipboard")
		}
		if l.output == "" {
			l.output = l.file
		}
	}
	return l, nil
}

func (l *lineCmd) Run() error {
	p := &scriptPresenter{openPath: l.file, savePath: l.output}
	opts, err := l.root.editorOptions()
	if err != nil {
		return err
	}
	s := canvas.New(l.root.settings().SurfaceOptions()...)
	if err := l.configureBrush(s); err != nil {
		return err
	}
	e := menu.New(s, p, opts...)
	if l.fromClipboard {
		e.Paste()
	} else {
		e.Open()
	}
	if p.err != nil {
		return fmt.Errorf("line: %w", p.err)
	}
	if err := e.Draw(l.points); err != nil {
		return fmt.Errorf("line: %w", err)
	}
	return l.finish(e, p)
}

// configureBrush applies the brush flags on top of the configured brush.
func (l *lineCmd) configureBrush(s *canvas.Surface) error {
	if l.colorSpec != "" {
		c, err := l.root.colors().Resolve(l.colorSpec)
		if err != nil {
			return err
		}
		s.SetActiveColor(c)
	}
	st := s.ActiveStroke()
	if l.width > 0 {
		st = st.WithWidth(l.width)
	}
	if l.capName != "" {
		c, err := config.ParseCap(l.capName)
		if err != nil {
			return err
		}
		st = st.WithCap(c)
	}
	if l.join != "" {
		j, err := config.ParseJoin(l.join)
		if err != nil {
			return err
		}
		st = st.WithJoin(j)
	}
	if l.dash != "" {
		lengths, err := parseDash(l.dash)
		if err != nil {
			return err
		}
		st = st.WithDashPattern(lengths...)
	}
	s.SetActiveStroke(st)
	return nil
}

// parsePoints reads x y pairs.
func parsePoints(args []string) ([]image.Point, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("line requires x y pairs, got %d values", len(args))
	}
	if len(args) < 4 {
		return nil, fmt.Errorf("line requires at least two points")
	}
	vals, err := expectInts(args, len(args), "line")
	if err != nil {
		return nil, err
	}
	pts := make([]image.Point, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		pts = append(pts, image.Pt(vals[i], vals[i+1]))
	}
	return pts, nil
}

func expectInts(args []string, n int, shape string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", shape, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseDash(s string) ([]float64, error) {
	var lengths []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || !(v >= 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid dash length %q", part)
		}
		lengths = append(lengths, v)
	}
	return lengths, nil
}

// splitLineArgs separates flags from points so that flags may follow the
// coordinates. Negative numbers are points, not flags.
func splitLineArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := lineFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := lineBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
