package menu

import (
	"errors"
	"image"
	"image/color"
	"log"
	"path/filepath"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/choice"
	"github.com/example/rasterpad/internal/clipboard"
	"github.com/example/rasterpad/internal/codec"
)

// NoticeKind classifies a message shown to the user.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a message for the user, the equivalent of a message dialog.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	// Err carries the underlying failure for error notices.
	Err error
}

// Presenter is the dialog layer: it offers choices to the user and shows the
// outcome of commands.
type Presenter interface {
	ChooseOpenPath() choice.Choice[string]
	ChooseSavePath() choice.Choice[string]
	ChooseColor(title string, seed color.Color) choice.Choice[color.Color]
	ChooseWidth(current float64) choice.Choice[float64]
	Show(Notice)
}

// Notifier receives desktop notification events. *notify.Notifier satisfies
// it.
type Notifier interface {
	Open(path string)
	Save(path string)
	Copy(detail string, img image.Image)
}

// Clipboard exchanges images with the system clipboard.
type Clipboard interface {
	WriteImage(image.Image) error
	ReadImage() (*image.NRGBA, error)
}

type systemClipboard struct{}

func (systemClipboard) WriteImage(img image.Image) error  { return clipboard.WriteImage(img) }
func (systemClipboard) ReadImage() (*image.NRGBA, error) { return clipboard.ReadImage() }

// AboutText is shown by File > About.
const AboutText = "rasterpad: a minimal raster image editor."

// Seeds offered by the color pickers.
var (
	FillSeed  color.Color = canvas.White
	BrushSeed color.Color = canvas.Black
)

// Editor binds the single canvas surface to a presenter.
type Editor struct {
	surface   *canvas.Surface
	ui        Presenter
	notifier  Notifier
	clipboard Clipboard
	format    codec.Format
	saveDir   string
	dirty     bool
	menus     []Menu
}

// Option configures an Editor.
type Option func(*Editor)

// WithNotifier sends desktop notifications after open, save and copy.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) { e.clipboard = c }
}

// WithFormat sets the encoding used when a save path has no known extension.
func WithFormat(f codec.Format) Option {
	return func(e *Editor) { e.format = f }
}

// WithSaveDir resolves relative save paths against dir.
func WithSaveDir(dir string) Option {
	return func(e *Editor) { e.saveDir = dir }
}

// New returns an editor for surface. The surface stays owned by the caller.
func New(surface *canvas.Surface, ui Presenter, opts ...Option) *Editor {
	e := &Editor{
		surface:   surface,
		ui:        ui,
		clipboard: systemClipboard{},
		format:    codec.PNG,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.menus = e.buildMenus()
	return e
}

// Surface returns the surface being edited.
func (e *Editor) Surface() *canvas.Surface {
	return e.surface
}

// Dirty reports whether the buffer changed since the last MarkClean.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// MarkClean records that the current buffer has been redrawn.
func (e *Editor) MarkClean() {
	e.dirty = false
}

// Open asks for a file and loads it onto the canvas, keeping the brush.
func (e *Editor) Open() {
	path, ok := e.ui.ChooseOpenPath().Get()
	if !ok {
		return
	}
	img, err := codec.Load(path)
	if err != nil {
		log.Printf("open %s: %v", path, err)
		e.ui.Show(Notice{Kind: NoticeError, Title: "Error", Message: "Couldn't open image!", Err: err})
		return
	}
	if err := e.surface.ReplaceBuffer(img); err != nil {
		e.ui.Show(Notice{Kind: NoticeError, Title: "Error", Message: "Couldn't open image!", Err: err})
		return
	}
	e.dirty = true
	if e.notifier != nil {
		e.notifier.Open(path)
	}
}

// Save asks for a destination and writes the canvas there. The surface is
// never modified.
func (e *Editor) Save() {
	path, ok := e.ui.ChooseSavePath().Get()
	if !ok {
		return
	}
	if e.saveDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.saveDir, path)
	}
	if err := codec.Save(path, e.surface.Buffer(), codec.FormatFromPath(path, e.format)); err != nil {
		log.Printf("save %s: %v", path, err)
		e.ui.Show(Notice{Kind: NoticeError, Title: "Error", Message: "Couldn't save image!", Err: err})
		return
	}
	e.ui.Show(Notice{Kind: NoticeInfo, Title: "Saved", Message: "Successfully saved image!"})
	if e.notifier != nil {
		e.notifier.Save(path)
	}
}

// About shows the about notice.
func (e *Editor) About() {
	e.ui.Show(Notice{Kind: NoticeInfo, Title: "About", Message: AboutText})
}

// Invert replaces the canvas with its negative.
func (e *Editor) Invert() {
	e.surface.Invert()
	e.dirty = true
}

// Clear paints the canvas white.
func (e *Editor) Clear() {
	e.surface.Clear()
	e.dirty = true
}

// Fill asks for a color and paints the whole canvas with it.
func (e *Editor) Fill() {
	c := e.ui.ChooseColor("Select fill color", FillSeed)
	if c.IsCancelled() {
		return
	}
	e.surface.Fill(c)
	e.dirty = true
}

// BrushColor asks for a color and makes it the brush color.
func (e *Editor) BrushColor() {
	e.surface.SetBrushColor(e.ui.ChooseColor("Pick brush color", BrushSeed))
}

// BrushWidth asks for a stroke width and applies it to the brush.
func (e *Editor) BrushWidth() {
	st := e.surface.ActiveStroke()
	w, ok := e.ui.ChooseWidth(st.Width).Get()
	if !ok {
		return
	}
	if !canvas.ValidWidth(w) {
		e.ui.Show(Notice{Kind: NoticeError, Title: "Error", Message: "Stroke width must be a positive number."})
		return
	}
	e.surface.SetActiveStroke(st.WithWidth(w))
}

// Copy places the canvas on the clipboard as PNG.
func (e *Editor) Copy() {
	if err := e.clipboard.WriteImage(e.surface.Buffer()); err != nil {
		log.Printf("copy: %v", err)
		e.ui.Show(Notice{Kind: NoticeError, Title: "Error", Message: "Couldn't copy image!", Err: err})
		return
	}
	if e.notifier != nil {
		e.notifier.Copy("canvas", e.surface.Buffer())
	}
}

// Paste replaces the canvas with the clipboard image, keeping the brush.
func (e *Editor) Paste() {
	img, err := e.clipboard.ReadImage()
	if err != nil {
		msg := "Couldn't paste image!"
		if errors.Is(err, clipboard.ErrEmpty) {
			msg = "The clipboard does not hold an image."
		}
		e.ui.Show(Notice{Kind: NoticeError, Title: "Error", Message: msg, Err: err})
		return
	}
	if err := e.surface.ReplaceBuffer(img); err != nil {
		e.ui.Show(Notice{Kind: NoticeError, Title: "Error", Message: "Couldn't paste image!", Err: err})
		return
	}
	e.dirty = true
}

// Draw strokes a polyline with the brush.
func (e *Editor) Draw(pts []image.Point) error {
	if err := e.surface.StrokeLine(pts); err != nil {
		return err
	}
	e.dirty = true
	return nil
}
