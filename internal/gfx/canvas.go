// Package gfx draws dashboard frames.
//
// All public drawing methods take design-space geometry and semantic color
// roles; the canvas resolves them through its layout and active theme.
package gfx

import (
	"image"
	"image/color"
	"image/draw"

	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/theme"
)

// Canvas is a frame buffer bound to a layout, a theme and a font set.
// It is not safe for concurrent use.
type Canvas struct {
	img   *image.RGBA
	l     *layout.Layout
	th    theme.Theme
	fonts *Fonts
}

// NewCanvas allocates a frame at the layout's actual size.
func NewCanvas(l *layout.Layout, th theme.Theme, fonts *Fonts) *Canvas {
	return &Canvas{
		img:   image.NewRGBA(l.Bounds()),
		l:     l,
		th:    th,
		fonts: fonts,
	}
}

func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) Layout() *layout.Layout {
	return c.l
}

func (c *Canvas) Theme() theme.Theme {
	return c.th
}

// SetTheme re-skins every subsequent draw call.
func (c *Canvas) SetTheme(th theme.Theme) {
	c.th = th
}

// Color resolves a role against the active theme.
func (c *Canvas) Color(r theme.Role) color.RGBA {
	return c.th.Color(r)
}

// Clear fills the whole frame with the background role.
func (c *Canvas) Clear() {
	c.fillPx(c.img.Rect, c.th.Color(theme.Background))
}

// Fill paints a design-space rectangle.
func (c *Canvas) Fill(r image.Rectangle, role theme.Role) {
	c.fillPx(c.l.ScaleRect(r), c.th.Color(role))
}

// FillColor paints a design-space rectangle with a derived color.
func (c *Canvas) FillColor(r image.Rectangle, col color.RGBA) {
	c.fillPx(c.l.ScaleRect(r), col)
}

// Outline draws a plain rectangle outline of design width w.
func (c *Canvas) Outline(r image.Rectangle, w int, role theme.Role) {
	c.outlinePx(c.l.ScaleRect(r), c.l.Stroke(w), c.th.Color(role))
}

// OutlineColor is Outline with a derived color.
func (c *Canvas) OutlineColor(r image.Rectangle, w int, col color.RGBA) {
	c.outlinePx(c.l.ScaleRect(r), c.l.Stroke(w), col)
}

func (c *Canvas) fillPx(r image.Rectangle, col color.RGBA) {
	r = r.Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) outlinePx(r image.Rectangle, w int, col color.RGBA) {
	if w <= 0 || r.Empty() {
		return
	}
	w = min(w, (r.Dx()+1)/2, (r.Dy()+1)/2)
	c.fillPx(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), col)
	c.fillPx(image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), col)
	c.fillPx(image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), col)
	c.fillPx(image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// hline draws a horizontal run of thickness w starting at (x0, y).
func (c *Canvas) hline(x0, x1, y, w int, col color.RGBA) {
	c.fillPx(image.Rect(x0, y, x1, y+w), col)
}

// vline draws a vertical run of thickness w starting at (x, y0).
func (c *Canvas) vline(x, y0, y1, w int, col color.RGBA) {
	c.fillPx(image.Rect(x, y0, x+w, y1), col)
}

// px scales a design length for use inside pixel-space routines.
func (c *Canvas) px(v int) int {
	return c.l.Stroke(v)
}
