package gfx

import (
	"fmt"
	"image"

	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/theme"
)

const (
	scanlineAlpha   = 60
	indicatorSize   = 8
	indicatorStride = 12
	indicatorY      = 310
)

// Scanlines darkens every third pixel row across the whole frame.
func (c *Canvas) Scanlines() {
	step := max(2, c.l.Scale(3))
	keep := uint32(255 - scanlineAlpha)
	pix, stride := c.img.Pix, c.img.Stride
	w := c.img.Rect.Dx()
	for y := 0; y < c.img.Rect.Dy(); y += step {
		row := pix[y*stride : y*stride+w*4]
		for i := 0; i < len(row); i += 4 {
			row[i] = uint8(uint32(row[i]) * keep / 255)
			row[i+1] = uint8(uint32(row[i+1]) * keep / 255)
			row[i+2] = uint8(uint32(row[i+2]) * keep / 255)
		}
	}
}

// IndicatorRects returns the design-space squares of the screen position dots.
func IndicatorRects(total int) []image.Rectangle {
	if total <= 0 {
		return nil
	}
	width := total*indicatorStride - (indicatorStride - indicatorSize)
	x0 := (layout.DesignWidth - width) / 2
	out := make([]image.Rectangle, total)
	for i := range out {
		out[i] = layout.Rect(x0+i*indicatorStride, indicatorY, indicatorSize, indicatorSize)
	}

	return out
}

// Indicators draws one dot per screen, highlighting the active one.
func (c *Canvas) Indicators(total, active int) {
	for i, r := range IndicatorRects(total) {
		if i == active {
			c.Fill(r, theme.Primary)
		} else {
			c.Fill(r, theme.Surface)
		}
	}
}

// FPS draws the measured frame rate in the bottom-right corner.
func (c *Canvas) FPS(fps float64) {
	c.TextRight(layout.DesignWidth-4, layout.DesignHeight-12, Tiny, theme.TextDim, fmt.Sprintf("%.0f FPS", fps))
}

// Placeholder draws a centered status message, used before data arrives.
func (c *Canvas) Placeholder(msg string) {
	c.TextCenter(0, layout.DesignWidth, layout.DesignHeight/2-8, Medium, theme.TextDim, msg)
}
