package main

import (
	"fmt"
	"io"
	"os"

	"github.com/example/rasterpad/internal/palette"
)

// colorsCmd lists the palette followed by every other accepted color name.
type colorsCmd struct {
	r   *root
	out io.Writer
}

func (c *colorsCmd) Run() error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	p := c.r.colors()
	for _, e := range p.Entries() {
		fmt.Fprintf(out, "%-12s %s\n", e.Name, palette.Hex(e.Color))
	}
	fmt.Fprintln(out)
	for _, name := range p.Names() {
		if _, ok := p.Lookup(name); ok {
			continue
		}
		fmt.Fprintln(out, name)
	}
	return nil
}
