package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/menu"
)

// editCmd applies one Edit menu command to an image file.
type editCmd struct {
	op            string
	file          string
	output        string
	colorSpec     string
	fromClipboard bool
	toClipboard   bool
	*root
	fs *flag.FlagSet
}

func (c *editCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *editCmd) Template() string {
	return "edit.txt"
}

func parseEditCmd(op string, args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet(op, flag.ExitOnError)
	c := &editCmd{op: op, root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "input image file")
	fs.StringVar(&c.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	if op == "fill" {
		fs.StringVar(&c.colorSpec, "color", "", "fill color name or hex value")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if op == "fill" && c.colorSpec == "" && fs.NArg() > 0 {
		c.colorSpec = fs.Arg(0)
	}
	if op == "fill" && c.colorSpec == "" {
		return nil, fmt.Errorf("fill requires a color")
	}
	if c.fromClipboard {
		if c.output == "" {
			return nil, fmt.Errorf("output file is required when reading from the clipboard")
		}
	} else {
		if c.file == "" {
			return nil, &UsageError{of: c}
		}
		if c.output == "" {
			c.output = c.file
		}
	}
	return c, nil
}

func (c *editCmd) Run() error {
	p := &scriptPresenter{openPath: c.file, savePath: c.output}
	if c.colorSpec != "" {
		col, err := c.root.colors().Resolve(c.colorSpec)
		if err != nil {
			return err
		}
		p.color = &col
	}
	opts, err := c.root.editorOptions()
	if err != nil {
		return err
	}
	e := menu.New(canvas.New(c.root.settings().SurfaceOptions()...), p, opts...)
	if c.fromClipboard {
		e.Paste()
	} else {
		e.Open()
	}
	if p.err != nil {
		return fmt.Errorf("%s: %w", c.op, p.err)
	}
	if err := e.Dispatch("edit/" + c.op); err != nil {
		return err
	}
	return c.finish(e, p)
}

// finish saves the canvas and optionally copies it, reporting like the rest
// of the one-shot commands.
func (c *editCmd) finish(e *menu.Editor, p *scriptPresenter) error {
	e.Save()
	if p.err != nil {
		return fmt.Errorf("%s: %w", c.op, p.err)
	}
	saved := c.output
	if abs, err := filepath.Abs(c.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if c.toClipboard {
		e.Copy()
		if p.err != nil {
			return fmt.Errorf("%s: %w", c.op, p.err)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", filepath.Base(c.output))
	}
	return nil
}
