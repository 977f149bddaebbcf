// Package layout maps the fixed design space every screen is authored in
// onto the physical display.
//
// A single uniform factor is used for both axes so aspect ratios are kept;
// the unused strip on the longer axis stays background.
package layout

import (
	"image"
	"math"
)

const (
	DesignWidth    = 480
	DesignHeight   = 320
	DefaultMinFont = 8
)

// Layout is immutable once built.
type Layout struct {
	design  image.Point
	actual  image.Point
	scale   float64
	minFont int
}

type Option func(*Layout)

// WithMinFontSize sets the smallest font size FontSize will return.
func WithMinFontSize(px int) Option {
	return func(l *Layout) {
		if px > 0 {
			l.minFont = px
		}
	}
}

// New builds a layout for the given design and actual resolutions.
// Non-positive dimensions fall back to the design default, and an invalid
// actual size falls back to the design size.
func New(design, actual image.Point, opts ...Option) *Layout {
	if design.X <= 0 || design.Y <= 0 {
		design = image.Pt(DesignWidth, DesignHeight)
	}
	if actual.X <= 0 || actual.Y <= 0 {
		actual = design
	}

	l := &Layout{
		design:  design,
		actual:  actual,
		scale:   math.Min(float64(actual.X)/float64(design.X), float64(actual.Y)/float64(design.Y)),
		minFont: DefaultMinFont,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Default is the identity layout at the design resolution.
func Default() *Layout {
	return New(image.Pt(DesignWidth, DesignHeight), image.Point{})
}

func (l *Layout) Factor() float64 {
	return l.scale
}

func (l *Layout) Design() image.Point {
	return l.design
}

func (l *Layout) Actual() image.Point {
	return l.actual
}

// Bounds is the full actual display area.
func (l *Layout) Bounds() image.Rectangle {
	return image.Rectangle{Max: l.actual}
}

// Scale converts a design-space length to pixels, rounding down.
func (l *Layout) Scale(v int) int {
	return int(math.Floor(float64(v) * l.scale))
}

func (l *Layout) ScalePoint(p image.Point) image.Point {
	return image.Pt(l.Scale(p.X), l.Scale(p.Y))
}

// ScaleRect scales origin and size independently so a rect keeps its
// scaled dimensions regardless of where it sits.
func (l *Layout) ScaleRect(r image.Rectangle) image.Rectangle {
	origin := l.ScalePoint(r.Min)
	size := l.ScalePoint(r.Size())

	return image.Rectangle{Min: origin, Max: origin.Add(size)}
}

// FontSize scales a design font size, never going below the minimum.
func (l *Layout) FontSize(base int) int {
	return max(l.minFont, l.Scale(base))
}

// Stroke scales a line width, keeping visible lines at least one pixel.
func (l *Layout) Stroke(v int) int {
	if v <= 0 {
		return 0
	}

	return max(1, l.Scale(v))
}

// Rect is a shorthand for a design-space rectangle given origin and size.
func Rect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}
