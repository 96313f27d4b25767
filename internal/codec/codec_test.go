package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/choice"
)

func edited() *canvas.Surface {
	s := canvas.New(canvas.WithSize(6, 4))
	s.Fill(choice.Chosen[color.Color](color.NRGBA{10, 20, 30, 255}))
	s.Invert()
	return s
}

func TestRoundTripPNG(t *testing.T) {
	for name, s := range map[string]*canvas.Surface{
		"cleared":     func() *canvas.Surface { s := canvas.New(canvas.WithSize(3, 3)); s.Clear(); return s }(),
		"filled":      edited(),
		"translucent": func() *canvas.Surface { s := canvas.New(canvas.WithSize(2, 2)); s.Fill(choice.Chosen[color.Color](color.NRGBA{200, 100, 50, 90})); s.Invert(); return s }(),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, s.Buffer(), PNG); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Bounds() != s.Bounds() {
				t.Fatalf("bounds %v, want %v", got.Bounds(), s.Bounds())
			}
			if !bytes.Equal(got.Pix, s.Buffer().Pix) {
				t.Fatalf("pixels differ after round trip")
			}
		})
	}
}

func TestRoundTripOpaqueFormats(t *testing.T) {
	for _, f := range []Format{BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			s := edited()
			var buf bytes.Buffer
			if err := Encode(&buf, s.Buffer(), f); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got.Pix, s.Buffer().Pix) {
				t.Fatalf("pixels differ after round trip")
			}
		})
	}
}

func TestBMPRejectsTranslucent(t *testing.T) {
	s := canvas.New(canvas.WithSize(2, 2))
	s.Fill(choice.Chosen[color.Color](color.NRGBA{200, 100, 50, 90}))
	var buf bytes.Buffer
	err := Encode(&buf, s.Buffer(), BMP)
	var eerr *EncodeError
	if !errors.As(err, &eerr) || !errors.Is(err, ErrTranslucent) {
		t.Fatalf("expected EncodeError wrapping ErrTranslucent, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "pic.bmp")
	if err := Save(path, s.Buffer(), FormatFromPath(path, PNG)); !errors.Is(err, ErrTranslucent) {
		t.Fatalf("Save: expected ErrTranslucent, got %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected save left files behind: %v", entries)
	}
}

func TestTranslucentRoundTripLosslessFormats(t *testing.T) {
	s := canvas.New(canvas.WithSize(2, 2))
	s.Fill(choice.Chosen[color.Color](color.NRGBA{200, 100, 50, 90}))
	for _, f := range []Format{PNG, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, s.Buffer(), f); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got.Pix, s.Buffer().Pix) {
				t.Fatalf("pixels differ after round trip: %v", got.Pix[:4])
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	s := edited()
	before := append([]byte(nil), s.Buffer().Pix...)
	_, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !bytes.Equal(before, s.Buffer().Pix) {
		t.Fatalf("surface changed")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1)), Format("gif"))
	var eerr *EncodeError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": PNG, "PNG": PNG, ".bmp": BMP, "tif": TIFF, "tiff": TIFF}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("jpeg"); err == nil {
		t.Errorf("expected error for lossy format")
	}
	if got := FormatFromPath("out.TIFF", PNG); got != TIFF {
		t.Errorf("FormatFromPath = %q", got)
	}
	if got := FormatFromPath("out.jpg", BMP); got != BMP {
		t.Errorf("FormatFromPath fallback = %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	s := edited()
	if err := Save(path, s.Buffer(), PNG); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got.Pix, s.Buffer().Pix) {
		t.Fatalf("loaded pixels differ")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the saved file, found %d entries", len(entries))
	}
}

func TestSaveFailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.png")
	if err := os.WriteFile(path, []byte("previous contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := Save(path, image.NewNRGBA(image.Rectangle{}), PNG)
	var eerr *EncodeError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if eerr.Path != path {
		t.Fatalf("error path = %q", eerr.Path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "previous contents" {
		t.Fatalf("existing file was modified: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temporary file left behind: %d entries", len(entries))
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	var eerr *EncodeError
	if err := Save(path, edited().Buffer(), PNG); !errors.As(err, &eerr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoadCorruptFileSetsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var derr *DecodeError
	if !errors.As(err, &derr) || derr.Path != path {
		t.Fatalf("expected DecodeError for %s, got %v", path, err)
	}
}
