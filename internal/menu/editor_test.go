package menu

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/choice"
	"github.com/example/rasterpad/internal/clipboard"
	"github.com/example/rasterpad/internal/codec"
)

type fakeUI struct {
	openPath  choice.Choice[string]
	savePath  choice.Choice[string]
	color     choice.Choice[color.Color]
	width     choice.Choice[float64]
	seeds     []color.Color
	notices   []Notice
	colorAsks int
}

func (f *fakeUI) ChooseOpenPath() choice.Choice[string] { return f.openPath }
func (f *fakeUI) ChooseSavePath() choice.Choice[string] { return f.savePath }
func (f *fakeUI) ChooseColor(_ string, seed color.Color) choice.Choice[color.Color] {
	f.colorAsks++
	f.seeds = append(f.seeds, seed)
	return f.color
}
func (f *fakeUI) ChooseWidth(float64) choice.Choice[float64] { return f.width }
func (f *fakeUI) Show(n Notice)                              { f.notices = append(f.notices, n) }

type fakeClipboard struct {
	img     *image.NRGBA
	err     error
	written image.Image
}

func (c *fakeClipboard) WriteImage(img image.Image) error {
	if c.err != nil {
		return c.err
	}
	c.written = img
	return nil
}

func (c *fakeClipboard) ReadImage() (*image.NRGBA, error) {
	return c.img, c.err
}

type fakeNotifier struct{ opened, saved, copied []string }

func (n *fakeNotifier) Open(p string)               { n.opened = append(n.opened, p) }
func (n *fakeNotifier) Save(p string)               { n.saved = append(n.saved, p) }
func (n *fakeNotifier) Copy(d string, _ image.Image) { n.copied = append(n.copied, d) }

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	if err := codec.Save(path, img, codec.PNG); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenReplacesBufferAndKeepsBrush(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xAB
	}
	path := writePNG(t, src)
	brush := color.NRGBA{9, 8, 7, 255}
	s := canvas.New(canvas.WithSize(10, 10), canvas.WithColor(brush))
	n := &fakeNotifier{}
	ui := &fakeUI{openPath: choice.Chosen(path)}
	e := New(s, ui, WithNotifier(n))

	if err := e.Dispatch("open"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if s.Bounds() != src.Bounds() || !bytes.Equal(s.Buffer().Pix, src.Pix) {
		t.Fatalf("buffer not replaced by opened image")
	}
	if s.ActiveColor() != brush {
		t.Fatalf("open changed brush color to %v", s.ActiveColor())
	}
	if !e.Dirty() {
		t.Fatalf("open should mark the canvas dirty")
	}
	if len(ui.notices) != 0 {
		t.Fatalf("unexpected notices %+v", ui.notices)
	}
	if len(n.opened) != 1 || n.opened[0] != path {
		t.Fatalf("open notification = %v", n.opened)
	}
}

func TestOpenCancelled(t *testing.T) {
	s := canvas.New(canvas.WithSize(2, 2))
	before := s.Buffer()
	ui := &fakeUI{openPath: choice.Cancelled[string]()}
	e := New(s, ui)
	e.Open()
	if s.Buffer() != before || e.Dirty() || len(ui.notices) != 0 {
		t.Fatalf("cancelled open had an effect")
	}
}

func TestOpenGarbageLeavesSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := canvas.New(canvas.WithSize(2, 2))
	before := append([]byte(nil), s.Buffer().Pix...)
	ui := &fakeUI{openPath: choice.Chosen(path)}
	e := New(s, ui)
	e.Open()
	if !bytes.Equal(before, s.Buffer().Pix) || e.Dirty() {
		t.Fatalf("failed open changed the surface")
	}
	if len(ui.notices) != 1 || ui.notices[0].Kind != NoticeError || ui.notices[0].Message != "Couldn't open image!" {
		t.Fatalf("unexpected notices %+v", ui.notices)
	}
	var derr *codec.DecodeError
	if !errors.As(ui.notices[0].Err, &derr) {
		t.Fatalf("notice should carry the decode error, got %v", ui.notices[0].Err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s := canvas.New(canvas.WithSize(4, 4))
	s.Invert()
	before := append([]byte(nil), s.Buffer().Pix...)
	n := &fakeNotifier{}
	ui := &fakeUI{savePath: choice.Chosen("out.bmp")}
	e := New(s, ui, WithSaveDir(dir), WithNotifier(n))
	e.Save()
	path := filepath.Join(dir, "out.bmp")
	if len(ui.notices) != 1 || ui.notices[0].Message != "Successfully saved image!" {
		t.Fatalf("unexpected notices %+v", ui.notices)
	}
	if !bytes.Equal(before, s.Buffer().Pix) {
		t.Fatalf("save modified the surface")
	}
	got, err := codec.Load(path)
	if err != nil {
		t.Fatalf("load saved file: %v", err)
	}
	if !bytes.Equal(got.Pix, s.Buffer().Pix) {
		t.Fatalf("saved image differs")
	}
	if len(n.saved) != 1 || n.saved[0] != path {
		t.Fatalf("save notification = %v", n.saved)
	}
}

func TestSaveFailureShowsNotice(t *testing.T) {
	ui := &fakeUI{savePath: choice.Chosen(filepath.Join(t.TempDir(), "missing", "x.png"))}
	e := New(canvas.New(canvas.WithSize(2, 2)), ui)
	e.Save()
	if len(ui.notices) != 1 || ui.notices[0].Message != "Couldn't save image!" {
		t.Fatalf("unexpected notices %+v", ui.notices)
	}
	var eerr *codec.EncodeError
	if !errors.As(ui.notices[0].Err, &eerr) {
		t.Fatalf("notice should carry the encode error, got %v", ui.notices[0].Err)
	}
}

func TestSaveCancelled(t *testing.T) {
	ui := &fakeUI{savePath: choice.Cancelled[string]()}
	e := New(canvas.New(canvas.WithSize(2, 2)), ui)
	e.Save()
	if len(ui.notices) != 0 {
		t.Fatalf("cancelled save produced notices %+v", ui.notices)
	}
}

func TestFillAndBrushSeeds(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	s := canvas.New(canvas.WithSize(2, 2))
	ui := &fakeUI{color: choice.Chosen[color.Color](red)}
	e := New(s, ui)
	if err := e.Dispatch("Edit/Fill"); err != nil {
		t.Fatal(err)
	}
	if err := e.Dispatch("color"); err != nil {
		t.Fatal(err)
	}
	if s.Buffer().NRGBAAt(1, 1) != red || s.ActiveColor() != red {
		t.Fatalf("fill/brush not applied")
	}
	if len(ui.seeds) != 2 || ui.seeds[0] != FillSeed || ui.seeds[1] != BrushSeed {
		t.Fatalf("unexpected picker seeds %v", ui.seeds)
	}
}

func TestFillCancelledKeepsBuffer(t *testing.T) {
	s := canvas.New(canvas.WithSize(2, 2))
	s.Invert()
	before := append([]byte(nil), s.Buffer().Pix...)
	ui := &fakeUI{color: choice.Cancelled[color.Color]()}
	e := New(s, ui)
	e.Fill()
	e.BrushColor()
	if !bytes.Equal(before, s.Buffer().Pix) || e.Dirty() {
		t.Fatalf("cancelled fill changed the canvas")
	}
	if s.ActiveColor() != canvas.Black {
		t.Fatalf("cancelled brush pick changed color")
	}
	if len(ui.notices) != 0 {
		t.Fatalf("cancellation must not produce notices: %+v", ui.notices)
	}
}

func TestBrushWidth(t *testing.T) {
	s := canvas.New(canvas.WithSize(2, 2))
	ui := &fakeUI{width: choice.Chosen(7.5)}
	e := New(s, ui)
	e.BrushWidth()
	if got := s.ActiveStroke(); got.Width != 7.5 || got.Cap != canvas.DefaultStroke().Cap {
		t.Fatalf("unexpected stroke %+v", got)
	}
	ui.width = choice.Chosen(-1.0)
	e.BrushWidth()
	if s.ActiveStroke().Width != 7.5 || len(ui.notices) != 1 {
		t.Fatalf("invalid width should be rejected with a notice")
	}
	for i, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		ui.width = choice.Chosen(w)
		e.BrushWidth()
		if got := s.ActiveStroke().Width; got != 7.5 {
			t.Fatalf("width %v accepted: stroke width now %v", w, got)
		}
		if len(ui.notices) != 2+i || ui.notices[len(ui.notices)-1].Kind != NoticeError {
			t.Fatalf("width %v: expected an error notice, got %+v", w, ui.notices)
		}
	}
}

func TestCopyAndPaste(t *testing.T) {
	s := canvas.New(canvas.WithSize(3, 3), canvas.WithColor(color.NRGBA{1, 1, 1, 255}))
	clip := &fakeClipboard{}
	n := &fakeNotifier{}
	ui := &fakeUI{}
	e := New(s, ui, WithClipboard(clip), WithNotifier(n))
	e.Copy()
	if clip.written != s.Buffer() || len(n.copied) != 1 {
		t.Fatalf("copy did not reach clipboard")
	}
	pasted := image.NewNRGBA(image.Rect(0, 0, 5, 1))
	clip.img = pasted
	e.Paste()
	if s.Buffer() != pasted || s.ActiveColor() != (color.NRGBA{1, 1, 1, 255}) {
		t.Fatalf("paste did not swap buffer while keeping brush")
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	s := canvas.New(canvas.WithSize(2, 2))
	before := s.Buffer()
	ui := &fakeUI{}
	e := New(s, ui, WithClipboard(&fakeClipboard{err: clipboard.ErrEmpty}))
	e.Paste()
	if s.Buffer() != before {
		t.Fatalf("failed paste changed buffer")
	}
	if len(ui.notices) != 1 || ui.notices[0].Message != "The clipboard does not hold an image." {
		t.Fatalf("unexpected notices %+v", ui.notices)
	}
}

func TestInvertClearMarkDirty(t *testing.T) {
	s := canvas.New(canvas.WithSize(2, 2))
	e := New(s, &fakeUI{})
	if err := e.Accelerate('e', 'i'); err != nil {
		t.Fatal(err)
	}
	if s.Buffer().NRGBAAt(0, 0) != (color.NRGBA{0, 0, 0, 255}) || !e.Dirty() {
		t.Fatalf("invert via mnemonic failed")
	}
	e.MarkClean()
	if err := e.Accelerate('E', 'C'); err != nil {
		t.Fatal(err)
	}
	if s.Buffer().NRGBAAt(0, 0) != canvas.White || !e.Dirty() {
		t.Fatalf("clear via mnemonic failed")
	}
}

func TestDispatchUnknown(t *testing.T) {
	e := New(canvas.New(canvas.WithSize(1, 1)), &fakeUI{})
	for _, name := range []string{"rotate", "brush/invert", ""} {
		if err := e.Dispatch(name); !errors.Is(err, ErrUnknownCommand) {
			t.Errorf("Dispatch(%q) = %v, want ErrUnknownCommand", name, err)
		}
	}
	if err := e.Accelerate('F', 'Z'); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Accelerate = %v", err)
	}
}

func TestMenusLayout(t *testing.T) {
	e := New(canvas.New(canvas.WithSize(1, 1)), &fakeUI{})
	menus := e.Menus()
	if len(menus) != 3 || menus[0].Name != "File" || menus[1].Name != "Edit" || menus[2].Name != "Brush" {
		t.Fatalf("unexpected menus %+v", menus)
	}
	if !menus[0].Items[2].Separator() {
		t.Fatalf("expected separator before About")
	}
	menus[0].Items[0].Name = "changed"
	if e.Menus()[0].Items[0].Name != "Open" {
		t.Fatalf("Menus exposes internal state")
	}
}

func TestDraw(t *testing.T) {
	s := canvas.New(canvas.WithSize(10, 10))
	e := New(s, &fakeUI{})
	if err := e.Draw([]image.Point{{1, 1}}); !errors.Is(err, canvas.ErrShortStroke) {
		t.Fatalf("expected ErrShortStroke, got %v", err)
	}
	if e.Dirty() {
		t.Fatalf("failed draw marked dirty")
	}
	if err := e.Draw([]image.Point{{1, 5}, {8, 5}}); err != nil {
		t.Fatal(err)
	}
	if !e.Dirty() {
		t.Fatalf("draw should mark dirty")
	}
}
