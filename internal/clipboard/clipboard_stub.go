//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard image operations are not supported on this platform")

func WriteImage(image.Image) error {
	return errUnsupported
}

func ReadImage() (*image.NRGBA, error) {
	return nil, errUnsupported
}
