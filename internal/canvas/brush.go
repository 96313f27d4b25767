package canvas

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/gogpu/gg"
)

// ErrShortStroke is returned when a stroke has fewer than two points.
var ErrShortStroke = errors.New("canvas: stroke needs at least two points")

// StrokeLine draws a polyline through pts using the brush color and stroke.
// The line is rendered on a transparent layer and composited over the buffer,
// so pixels the stroke does not cover keep their exact values.
func (s *Surface) StrokeLine(pts []image.Point) error {
	if len(pts) < 2 {
		return ErrShortStroke
	}
	b := s.buf.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	defer func() {
		if err := dc.Close(); err != nil {
			log.Printf("release brush context: %v", err)
		}
	}()
	dc.SetColor(s.color)
	dc.SetStroke(s.stroke)
	dc.MoveTo(float64(pts[0].X)+0.5, float64(pts[0].Y)+0.5)
	for _, p := range pts[1:] {
		dc.LineTo(float64(p.X)+0.5, float64(p.Y)+0.5)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke line: %w", err)
	}
	layer, ok := dc.Image().(*image.RGBA)
	if !ok {
		return fmt.Errorf("stroke line: unexpected layer type %T", dc.Image())
	}
	over(s.buf, layer)
	return nil
}

// over composites the premultiplied layer onto dst with source-over. Fully
// transparent layer pixels are skipped.
func over(dst *image.NRGBA, layer *image.RGBA) {
	db := dst.Bounds()
	lb := layer.Bounds()
	w := min(db.Dx(), lb.Dx())
	h := min(db.Dy(), lb.Dy())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			li := layer.PixOffset(lb.Min.X+x, lb.Min.Y+y)
			sa := uint32(layer.Pix[li+3])
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(db.Min.X+x, db.Min.Y+y)
			if sa == 255 {
				dst.Pix[di+0] = layer.Pix[li+0]
				dst.Pix[di+1] = layer.Pix[li+1]
				dst.Pix[di+2] = layer.Pix[li+2]
				dst.Pix[di+3] = 255
				continue
			}
			da := uint32(dst.Pix[di+3])
			// keep is the fraction of the destination that shows through,
			// scaled by 255*255.
			keep := da * (255 - sa)
			outA := sa*255 + keep
			for c := 0; c < 3; c++ {
				sc := uint32(layer.Pix[li+c]) * 255
				dc := uint32(dst.Pix[di+c]) * keep / 255
				dst.Pix[di+c] = uint8(min((sc+dc)*255/outA, 255))
			}
			dst.Pix[di+3] = uint8((outA + 127) / 255)
		}
	}
}
