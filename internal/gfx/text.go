package gfx

import (
	"image"
	"image/color"
	"os"

	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/logger"
	"codeberg.org/mutker/cutiepi/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Tier is a font size class.
type Tier int

const (
	Tiny Tier = iota
	Small
	Medium
	Large
	numTiers
)

// tierSizes are design pixel sizes.
var tierSizes = [numTiers]int{Tiny: 8, Small: 10, Medium: 14, Large: 18}

// DesignSize returns the design pixel size of t.
func (t Tier) DesignSize() int {
	if t < 0 || t >= numTiers {
		return tierSizes[Small]
	}

	return tierSizes[t]
}

// Fonts holds one face per tier, sized for a layout.
type Fonts struct {
	faces [numTiers]font.Face
}

// LoadFonts builds faces from the TTF at path, or the embedded Go Mono Bold
// when path is empty or unusable.
func LoadFonts(l *layout.Layout, path string) (*Fonts, error) {
	f, err := parseFont(path)
	if err != nil {
		logger.Warn().Err(err).Str("font", path).Msg("falling back to built-in font")
		if f, err = opentype.Parse(gomonobold.TTF); err != nil {
			return nil, errFactory.Wrap(ErrLoadFont, err)
		}
	}

	fonts := &Fonts{}
	for t := Tier(0); t < numTiers; t++ {
		size := l.FontSize(t.DesignSize())
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, errFactory.Wrap(ErrLoadFont, err).WithData(size)
		}
		fonts.faces[t] = face
	}
	logger.Debug().
		Int("tiny", l.FontSize(Tiny.DesignSize())).
		Int("large", l.FontSize(Large.DesignSize())).
		Float64("scale", l.Factor()).
		Msg("fonts loaded")

	return fonts, nil
}

func parseFont(path string) (*sfnt.Font, error) {
	if path == "" {
		return opentype.Parse(gomonobold.TTF)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrResourceNotFound, err)
	}

	return opentype.Parse(data)
}

// Face returns the face for t.
func (f *Fonts) Face(t Tier) font.Face {
	if t < 0 || t >= numTiers {
		t = Small
	}

	return f.faces[t]
}

// Close releases every face.
func (f *Fonts) Close() error {
	var errs []error
	for _, face := range f.faces {
		if face != nil {
			if err := face.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// Text draws s with its top-left corner at the design point (x, y).
func (c *Canvas) Text(x, y int, t Tier, role theme.Role, s string) {
	c.TextColor(x, y, t, c.th.Color(role), s)
}

// TextColor is Text with a derived color.
func (c *Canvas) TextColor(x, y int, t Tier, col color.RGBA, s string) {
	p := c.l.ScalePoint(image.Pt(x, y))
	c.textPx(p.X, p.Y, t, col, s)
}

// TextCenter centers s horizontally within the design span [x0, x1).
func (c *Canvas) TextCenter(x0, x1, y int, t Tier, role theme.Role, s string) {
	p0 := c.l.ScalePoint(image.Pt(x0, y))
	w := c.widthPx(t, s)
	c.textPx(p0.X+(c.l.Scale(x1)-p0.X-w)/2, p0.Y, t, c.th.Color(role), s)
}

// TextRight draws s so that it ends at the design x coordinate.
func (c *Canvas) TextRight(x, y int, t Tier, role theme.Role, s string) {
	p := c.l.ScalePoint(image.Pt(x, y))
	c.textPx(p.X-c.widthPx(t, s), p.Y, t, c.th.Color(role), s)
}

// TextWidth returns the design-space width of s.
func (c *Canvas) TextWidth(t Tier, s string) int {
	if f := c.l.Factor(); f > 0 {
		return int(float64(c.widthPx(t, s)) / f)
	}

	return 0
}

// Truncate shortens s with an ellipsis until it fits in design width w.
func (c *Canvas) Truncate(t Tier, s string, w int) string {
	limit := c.l.Scale(w)
	if c.widthPx(t, s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if cand := string(r) + "..."; c.widthPx(t, cand) <= limit {
			return cand
		}
	}

	return ""
}

func (c *Canvas) textPx(x, y int, t Tier, col color.RGBA, s string) {
	if c.fonts == nil || s == "" {
		return
	}
	face := c.fonts.Face(t)
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func (c *Canvas) widthPx(t Tier, s string) int {
	if c.fonts == nil {
		return 0
	}

	return font.MeasureString(c.fonts.Face(t), s).Ceil()
}
