package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480
	MaxSide       = 16384 // upper bound for each side of a blank canvas
)

var (
	// White is the background used by Clear and for new canvases.
	White = color.NRGBA{255, 255, 255, 255}
	// Black is the initial brush color.
	Black = color.NRGBA{0, 0, 0, 255}
)

// ErrNilBuffer is returned when a buffer swap is attempted without an image.
var ErrNilBuffer = errors.New("canvas: nil buffer")

// ErrSize is returned for a canvas size outside 1..MaxSide.
var ErrSize = errors.New("canvas: size out of range")

// CheckSize reports whether a blank canvas of w x h may be created.
func CheckSize(w, h int) error {
	if w < 1 || h < 1 || w > MaxSide || h > MaxSide {
		return fmt.Errorf("%w: %dx%d, each side must be 1..%d", ErrSize, w, h, MaxSide)
	}
	return nil
}

// ValidWidth reports whether w can be used as a stroke width.
func ValidWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0)
}

// DefaultStroke returns the brush stroke a new surface starts with.
func DefaultStroke() gg.Stroke {
	return gg.RoundStroke().WithWidth(3)
}

// Surface holds the pixel buffer being edited together with the drawing
// context used by brush operations. The drawing context belongs to the editor
// rather than the image, so swapping the buffer leaves it alone.
type Surface struct {
	buf    *image.NRGBA
	color  color.NRGBA
	stroke gg.Stroke
}

type options struct {
	width, height int
	background    color.NRGBA
	img           image.Image
	color         color.NRGBA
	stroke        gg.Stroke
}

// Option configures a Surface created by New.
type Option func(*options)

// WithSize sets the dimensions of the blank starting buffer.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithBackground sets the color of the blank starting buffer.
func WithBackground(c color.Color) Option {
	return func(o *options) { o.background = toNRGBA(c) }
}

// WithImage starts the surface with a copy of img instead of a blank buffer.
func WithImage(img image.Image) Option {
	return func(o *options) { o.img = img }
}

// WithColor sets the initial brush color.
func WithColor(c color.Color) Option {
	return func(o *options) { o.color = toNRGBA(c) }
}

// WithStroke sets the initial brush stroke.
func WithStroke(s gg.Stroke) Option {
	return func(o *options) { o.stroke = s.Clone() }
}

// New creates a surface. Without options it is a 640x480 white canvas with a
// black round brush. Blank canvas sides are clamped to 1..MaxSide; callers
// taking sizes from users check them with CheckSize first.
func New(opts ...Option) *Surface {
	o := options{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: White,
		color:      Black,
		stroke:     DefaultStroke(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	var buf *image.NRGBA
	if o.img != nil {
		buf = ToNRGBA(o.img)
	} else {
		o.width = min(max(o.width, 1), MaxSide)
		o.height = min(max(o.height, 1), MaxSide)
		buf = image.NewNRGBA(image.Rect(0, 0, o.width, o.height))
		paint(buf, o.background)
	}
	return &Surface{buf: buf, color: o.color, stroke: o.stroke}
}

// Buffer returns the current pixel buffer. The returned pointer is not stable
// across ReplaceBuffer.
func (s *Surface) Buffer() *image.NRGBA {
	return s.buf
}

// Bounds returns the bounds of the current buffer.
func (s *Surface) Bounds() image.Rectangle {
	return s.buf.Bounds()
}

// ReplaceBuffer swaps in img as the new buffer. The brush color and stroke are
// not touched. A nil image is rejected and the surface keeps its old buffer.
func (s *Surface) ReplaceBuffer(img *image.NRGBA) error {
	if img == nil {
		return ErrNilBuffer
	}
	s.buf = img
	return nil
}

// ActiveColor returns the brush color.
func (s *Surface) ActiveColor() color.NRGBA {
	return s.color
}

// SetActiveColor replaces the brush color.
func (s *Surface) SetActiveColor(c color.Color) {
	s.color = toNRGBA(c)
}

// ActiveStroke returns a copy of the brush stroke.
func (s *Surface) ActiveStroke() gg.Stroke {
	return s.stroke.Clone()
}

// SetActiveStroke replaces the brush stroke.
func (s *Surface) SetActiveStroke(st gg.Stroke) {
	s.stroke = st.Clone()
}

// ToNRGBA returns an origin-anchored NRGBA copy of img. NRGBA sources are
// copied byte for byte so no precision is lost.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.PixOffset(0, y)
			copy(out.Pix[di:di+4*b.Dx()], src.Pix[si:si+4*b.Dx()])
		}
		return out
	}
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
