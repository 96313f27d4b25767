package codec

import (
	"bufio"
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"
)

// Load reads and decodes the image at path. A file that cannot be opened is
// reported as a DecodeError, the same as a corrupt one.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", path, err)
		}
	}()
	img, err := Decode(bufio.NewReader(f))
	if err != nil {
		var derr *DecodeError
		if errors.As(err, &derr) {
			derr.Path = path
		}
		return nil, err
	}
	return img, nil
}

// Save encodes img into a temporary file beside path and renames it into
// place once fully written. On failure the temporary file is removed and any
// existing file at path is left as it was.
func Save(path string, img image.Image, f Format) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err == nil {
			return
		}
		_ = tmp.Close()
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Printf("remove %s: %v", tmpName, rmErr)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := Encode(w, img, f); err != nil {
		var eerr *EncodeError
		if errors.As(err, &eerr) {
			eerr.Path = path
		}
		return err
	}
	if err := w.Flush(); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}
