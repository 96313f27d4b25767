// Package clipboard moves canvas images to and from the system clipboard.
package clipboard

import "errors"

// ErrEmpty is returned when the clipboard holds no image.
var ErrEmpty = errors.New("clipboard does not contain image data")
