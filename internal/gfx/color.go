package gfx

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Blend mixes a toward b by t in [0, 1].
func Blend(a, b color.RGBA, t float64) color.RGBA {
	return fromColorful(toColorful(a).BlendRgb(toColorful(b), t))
}

// Shade scales c toward black; f of 0.5 halves every channel.
func Shade(c color.RGBA, f float64) color.RGBA {
	return Blend(color.RGBA{A: 0xff}, c, f)
}

// Lighten moves c toward white by t.
func Lighten(c color.RGBA, t float64) color.RGBA {
	return Blend(c, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, t)
}
