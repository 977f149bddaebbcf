// Package display pushes rendered frames to the screen and drives the
// backlight.
package display

import (
	"image"

	"github.com/zeebo/xxh3"
)

// Sink receives finished frames.
type Sink interface {
	Size() image.Point
	Flush(img *image.RGBA) error
	Close() error
}

// frameCache remembers the last flushed frame so identical frames can be
// skipped.
type frameCache struct {
	last  uint64
	valid bool
}

// changed reports whether img differs from the previous frame and records it.
func (c *frameCache) changed(img *image.RGBA) bool {
	h := xxh3.Hash(img.Pix)
	if c.valid && h == c.last {
		return false
	}
	c.last, c.valid = h, true

	return true
}

func (c *frameCache) reset() {
	c.valid = false
}
