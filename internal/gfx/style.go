package gfx

import (
	"image"
	"image/color"
	"math"

	"codeberg.org/mutker/cutiepi/internal/theme"
)

type (
	borderFunc func(c *Canvas, r image.Rectangle, col color.RGBA)
	barFunc    func(c *Canvas, r image.Rectangle, percent float64, col color.RGBA)
)

var borders = map[theme.Style]borderFunc{
	theme.Pixel:    pixelBorder,
	theme.Glow:     glowBorder,
	theme.Dashed:   dashedBorder,
	theme.Double:   doubleBorder,
	theme.Thick:    thickBorder,
	theme.Terminal: terminalBorder,
	theme.Inverted: invertedBorder,
}

var bars = map[theme.Style]barFunc{
	theme.Pixel:    chunkyBar,
	theme.Glow:     gradientBar,
	theme.Dashed:   dashedBar,
	theme.Double:   doubleBar,
	theme.Thick:    thickBar,
	theme.Terminal: terminalBar,
	theme.Inverted: invertedBar,
}

// Border draws a box outline in the active theme's style.
func (c *Canvas) Border(r image.Rectangle, role theme.Role) {
	fn, ok := borders[c.th.Style()]
	if !ok {
		fn = pixelBorder
	}
	fn(c, c.l.ScaleRect(r), c.th.Color(role))
}

// Bar draws a percentage bar in the active theme's style.
func (c *Canvas) Bar(r image.Rectangle, percent float64, role theme.Role) {
	fn, ok := bars[c.th.Style()]
	if !ok {
		fn = chunkyBar
	}
	fn(c, c.l.ScaleRect(r), clampPercent(percent), c.th.Color(role))
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}

	return p
}

func fillWidth(w int, percent float64) int {
	return int(percent / 100 * float64(w))
}

func pixelBorder(c *Canvas, r image.Rectangle, col color.RGBA) {
	c.outlinePx(r, c.px(3), col)
	block := c.px(6)
	for _, p := range []image.Point{
		r.Min,
		{r.Max.X - block, r.Min.Y},
		{r.Min.X, r.Max.Y - block},
		{r.Max.X - block, r.Max.Y - block},
	} {
		c.fillPx(image.Rectangle{Min: p, Max: p.Add(image.Pt(block, block))}, col)
	}
}

func glowBorder(c *Canvas, r image.Rectangle, col color.RGBA) {
	bg := c.th.Color(theme.Background)
	step := c.px(2)
	const rings = 3
	for i := rings; i > 0; i-- {
		halo := Blend(bg, col, 0.35*float64(rings-i+1)/rings)
		c.outlinePx(r.Inset(-i*step), step, halo)
	}
	c.outlinePx(r, c.px(2), col)
	c.outlinePx(r.Inset(c.px(2)), 1, Lighten(col, 0.4))
}

func dashedBorder(c *Canvas, r image.Rectangle, col color.RGBA) {
	dash, gap, w := c.px(8), c.px(4), c.px(2)
	for x := r.Min.X; x < r.Max.X; x += dash + gap {
		end := min(x+dash, r.Max.X)
		c.hline(x, end, r.Min.Y, w, col)
		c.hline(x, end, r.Max.Y-w, w, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y += dash + gap {
		end := min(y+dash, r.Max.Y)
		c.vline(r.Min.X, y, end, w, col)
		c.vline(r.Max.X-w, y, end, w, col)
	}
}

func doubleBorder(c *Canvas, r image.Rectangle, col color.RGBA) {
	c.outlinePx(r, c.px(2), col)
	c.outlinePx(r.Inset(c.px(4)), 1, col)
}

func thickBorder(c *Canvas, r image.Rectangle, col color.RGBA) {
	c.outlinePx(r, c.px(5), col)
}

func terminalBorder(c *Canvas, r image.Rectangle, col color.RGBA) {
	c.outlinePx(r, 1, col)
	n, w := c.px(8), c.px(2)
	// corner brackets
	c.hline(r.Min.X, r.Min.X+n, r.Min.Y, w, col)
	c.vline(r.Min.X, r.Min.Y, r.Min.Y+n, w, col)
	c.hline(r.Max.X-n, r.Max.X, r.Min.Y, w, col)
	c.vline(r.Max.X-w, r.Min.Y, r.Min.Y+n, w, col)
	c.hline(r.Min.X, r.Min.X+n, r.Max.Y-w, w, col)
	c.vline(r.Min.X, r.Max.Y-n, r.Max.Y, w, col)
	c.hline(r.Max.X-n, r.Max.X, r.Max.Y-w, w, col)
	c.vline(r.Max.X-w, r.Max.Y-n, r.Max.Y, w, col)
}

func invertedBorder(c *Canvas, r image.Rectangle, col color.RGBA) {
	dark := Shade(col, 1.0/3)
	c.hline(r.Min.X, r.Max.X, r.Min.Y, c.px(3), dark)
	c.vline(r.Min.X, r.Min.Y, r.Max.Y, c.px(3), dark)
	c.hline(r.Min.X, r.Max.X, r.Max.Y-c.px(2), c.px(2), col)
	c.vline(r.Max.X-c.px(2), r.Min.Y, r.Max.Y, c.px(2), col)
}

func chunkyBar(c *Canvas, r image.Rectangle, percent float64, col color.RGBA) {
	seg, gap := c.px(6), c.px(2)
	n := r.Dx() / (seg + gap)
	if n == 0 {
		c.fillPx(r, c.th.Color(theme.Surface))
		c.fillPx(image.Rect(r.Min.X, r.Min.Y, r.Min.X+fillWidth(r.Dx(), percent), r.Max.Y), col)
		return
	}
	used := n*seg + (n-1)*gap
	c.fillPx(image.Rect(r.Min.X, r.Min.Y, r.Min.X+used, r.Max.Y), c.th.Color(theme.Surface))

	filled := int(percent / 100 * float64(n))
	if percent > 0 && filled == 0 {
		filled = 1
	}
	inset := c.px(2)
	empty := c.th.Color(theme.SurfaceDim)
	for i := 0; i < n; i++ {
		x := r.Min.X + i*(seg+gap)
		cell := image.Rect(x, r.Min.Y+inset, x+seg, r.Max.Y-inset)
		if i < filled {
			c.fillPx(cell, col)
		} else {
			c.fillPx(cell, empty)
		}
	}
}

func gradientBar(c *Canvas, r image.Rectangle, percent float64, col color.RGBA) {
	c.fillPx(r, c.th.Color(theme.Surface))
	fw := fillWidth(r.Dx(), percent)
	end := Lighten(col, 0.2)
	for i := 0; i < fw; i++ {
		t := 0.0
		if fw > 1 {
			t = float64(i) / float64(fw-1)
		}
		c.vline(r.Min.X+i, r.Min.Y, r.Max.Y, 1, Blend(col, end, t))
	}
}

func dashedBar(c *Canvas, r image.Rectangle, percent float64, col color.RGBA) {
	c.fillPx(r, c.th.Color(theme.Surface))
	fw := fillWidth(r.Dx(), percent)
	h, gap := c.px(2), c.px(3)
	for y := r.Min.Y; y < r.Max.Y; y += h + gap {
		c.hline(r.Min.X, r.Min.X+fw, y, min(h, r.Max.Y-y), col)
	}
}

func doubleBar(c *Canvas, r image.Rectangle, percent float64, col color.RGBA) {
	c.outlinePx(r, 1, col)
	inner := r.Inset(c.px(2))
	fw := fillWidth(inner.Dx(), percent)
	c.fillPx(image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+fw, inner.Max.Y), Shade(col, 0.5))
}

func thickBar(c *Canvas, r image.Rectangle, percent float64, col color.RGBA) {
	c.fillPx(r, c.th.Color(theme.Surface))
	fw := fillWidth(r.Dx(), percent)
	c.fillPx(image.Rect(r.Min.X, r.Min.Y, r.Min.X+fw, r.Max.Y), col)
	c.hline(r.Min.X, r.Min.X+fw, r.Min.Y, c.px(2), Lighten(col, 0.3))
}

func terminalBar(c *Canvas, r image.Rectangle, percent float64, col color.RGBA) {
	c.outlinePx(r, 1, col)
	fw := fillWidth(r.Dx(), percent)
	half := Shade(col, 0.5)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		line := col
		if (y-r.Min.Y)%2 == 1 {
			line = half
		}
		c.hline(r.Min.X, r.Min.X+fw, y, 1, line)
	}
}

func invertedBar(c *Canvas, r image.Rectangle, percent float64, col color.RGBA) {
	fw := fillWidth(r.Dx(), percent)
	c.fillPx(image.Rect(r.Min.X, r.Min.Y, r.Min.X+fw, r.Max.Y), Shade(col, 0.25))
	c.outlinePx(r, 1, col)
}
