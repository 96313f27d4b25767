package main

import (
	"flag"
	"fmt"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/menu"
)

// newCmd writes a blank canvas.
type newCmd struct {
	editCmd
	width      int
	height     int
	background string
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	n := &newCmd{editCmd: editCmd{op: "new", root: r, fs: fs}}
	fs.Usage = usageFunc(n)
	fs.StringVar(&n.output, "output", "", "output file path")
	fs.BoolVar(&n.toClipboard, "to-clipboard", false, "copy the canvas to the clipboard")
	fs.IntVar(&n.width, "width", 0, "canvas width in pixels (defaults to the configuration)")
	fs.IntVar(&n.height, "height", 0, "canvas height in pixels (defaults to the configuration)")
	fs.StringVar(&n.background, "background", "", "background color name or hex value")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if n.output == "" && fs.NArg() > 0 {
		n.output = fs.Arg(0)
	}
	if n.output == "" {
		return nil, &UsageError{of: n}
	}
	if n.width < 0 || n.height < 0 {
		return nil, fmt.Errorf("canvas size must be positive")
	}
	return n, nil
}

func (n *newCmd) Run() error {
	opts := n.root.settings().SurfaceOptions()
	cfg := n.root.settings().Canvas
	w, h := cfg.Width, cfg.Height
	if n.width > 0 {
		w = n.width
	}
	if n.height > 0 {
		h = n.height
	}
	if err := canvas.CheckSize(w, h); err != nil {
		return err
	}
	opts = append(opts, canvas.WithSize(w, h))
	if n.background != "" {
		c, err := n.root.colors().Resolve(n.background)
		if err != nil {
			return err
		}
		opts = append(opts, canvas.WithBackground(c))
	}
	editorOpts, err := n.root.editorOptions()
	if err != nil {
		return err
	}
	p := &scriptPresenter{savePath: n.output}
	return n.finish(menu.New(canvas.New(opts...), p, editorOpts...), p)
}
