package canvas

import (
	"image"
	"image/color"

	"github.com/example/rasterpad/internal/choice"
)

// Clear repaints the whole buffer opaque white. The brush is left alone.
func (s *Surface) Clear() {
	paint(s.buf, White)
}

// Fill repaints the whole buffer with the chosen color. A cancelled choice
// leaves the buffer untouched.
func (s *Surface) Fill(c choice.Choice[color.Color]) {
	col, ok := c.Get()
	if !ok || col == nil {
		return
	}
	paint(s.buf, toNRGBA(col))
}

// SetBrushColor makes the chosen color the brush color. A cancelled choice is
// a no-op.
func (s *Surface) SetBrushColor(c choice.Choice[color.Color]) {
	col, ok := c.Get()
	if !ok || col == nil {
		return
	}
	s.SetActiveColor(col)
}

// Invert replaces every pixel with its photographic negative: each of R, G
// and B becomes 255 minus its value while alpha is kept. Applying it twice
// restores the buffer exactly.
func (s *Surface) Invert() {
	invert(s.buf)
}

func invert(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = 255 - row[i+0]
			row[i+1] = 255 - row[i+1]
			row[i+2] = 255 - row[i+2]
		}
	}
}

// paint sets every pixel of img to c.
func paint(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	first := img.PixOffset(b.Min.X, b.Min.Y)
	row := img.Pix[first : first+4*b.Dx()]
	for i := 0; i < len(row); i += 4 {
		row[i+0] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
	}
	for y := b.Min.Y + 1; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		copy(img.Pix[off:off+4*b.Dx()], row)
	}
}
