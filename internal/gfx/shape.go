package gfx

import (
	"image"
	"image/color"
	"image/draw"

	"codeberg.org/mutker/cutiepi/internal/theme"
	"golang.org/x/image/vector"
)

// Polygon fills the closed design-space polygon through pts.
func (c *Canvas) Polygon(pts []image.Point, role theme.Role) {
	c.PolygonColor(pts, c.th.Color(role))
}

// PolygonColor is Polygon with a derived color.
func (c *Canvas) PolygonColor(pts []image.Point, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	scaled := make([]image.Point, len(pts))
	var bounds image.Rectangle
	for i, p := range pts {
		scaled[i] = c.l.ScalePoint(p)
		pr := image.Rectangle{Min: scaled[i], Max: scaled[i].Add(image.Pt(1, 1))}
		if i == 0 {
			bounds = pr
		} else {
			bounds = bounds.Union(pr)
		}
	}
	clip := bounds.Intersect(c.img.Rect)
	if clip.Empty() {
		return
	}

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	at := func(p image.Point) (float32, float32) {
		return float32(p.X - bounds.Min.X), float32(p.Y - bounds.Min.Y)
	}
	z.MoveTo(at(scaled[0]))
	for _, p := range scaled[1:] {
		z.LineTo(at(p))
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(c.img, clip, image.NewUniform(col), image.Point{}, mask, clip.Min.Sub(bounds.Min), draw.Over)
}

// ArrowLeft fills a left-pointing triangle whose tip is at (x, y).
func (c *Canvas) ArrowLeft(x, y, w, halfH int, role theme.Role) {
	c.Polygon([]image.Point{{x, y}, {x + w, y - halfH}, {x + w, y + halfH}}, role)
}

// ArrowRight fills a right-pointing triangle whose tip is at (x, y).
func (c *Canvas) ArrowRight(x, y, w, halfH int, role theme.Role) {
	c.Polygon([]image.Point{{x, y}, {x - w, y - halfH}, {x - w, y + halfH}}, role)
}

// Lock draws a padlock icon inside the design rect r.
func (c *Canvas) Lock(r image.Rectangle, locked bool, role theme.Role) {
	col := c.th.Color(role)
	body := image.Rect(r.Min.X, r.Min.Y+r.Dy()/2, r.Max.X, r.Max.Y)
	c.FillColor(body, col)

	shackle := image.Rect(r.Min.X+r.Dx()/6, r.Min.Y, r.Max.X-r.Dx()/6, body.Min.Y+1)
	if !locked {
		shackle = shackle.Add(image.Pt(r.Dx()/2, -r.Dy()/8))
	}
	sp := c.l.ScaleRect(shackle)
	w := c.px(2)
	c.hline(sp.Min.X, sp.Max.X, sp.Min.Y, w, col)
	c.vline(sp.Min.X, sp.Min.Y, sp.Max.Y, w, col)
	c.vline(sp.Max.X-w, sp.Min.Y, sp.Max.Y, w, col)
}

// Square fills a square of side n centered vertically on y.
func (c *Canvas) Square(x, y, n int, role theme.Role) {
	c.Fill(image.Rect(x, y-n/2, x+n, y-n/2+n), role)
}
