package display

import (
	"encoding/binary"
	"image"
)

// Bitfield locates one color channel inside a pixel.
type Bitfield struct {
	Offset uint32
	Length uint32
}

// Format describes the memory layout of a framebuffer.
type Format struct {
	Width, Height int
	Stride        int
	BitsPerPixel  int
	Red           Bitfield
	Green         Bitfield
	Blue          Bitfield
	Alpha         Bitfield
}

// RGB565 is the usual layout of 16 bpp SPI panels.
func RGB565(w, h int) Format {
	return Format{
		Width:        w,
		Height:       h,
		Stride:       w * 2,
		BitsPerPixel: 16,
		Red:          Bitfield{Offset: 11, Length: 5},
		Green:        Bitfield{Offset: 5, Length: 6},
		Blue:         Bitfield{Offset: 0, Length: 5},
	}
}

// XRGB8888 is the usual layout of 32 bpp HDMI and DSI framebuffers.
func XRGB8888(w, h int) Format {
	return Format{
		Width:        w,
		Height:       h,
		Stride:       w * 4,
		BitsPerPixel: 32,
		Red:          Bitfield{Offset: 16, Length: 8},
		Green:        Bitfield{Offset: 8, Length: 8},
		Blue:         Bitfield{Offset: 0, Length: 8},
	}
}

// Supported reports whether Encode can write this format.
func (f Format) Supported() bool {
	return (f.BitsPerPixel == 16 || f.BitsPerPixel == 32) &&
		f.Stride >= f.Width*f.BitsPerPixel/8
}

// Size returns the number of bytes a full frame occupies.
func (f Format) Size() int {
	return f.Stride * f.Height
}

func (b Bitfield) pack(v uint8) uint32 {
	if b.Length == 0 {
		return 0
	}
	if b.Length < 8 {
		v >>= 8 - b.Length
	}

	return uint32(v) << b.Offset
}

// Pixel packs an opaque color into the format's native word.
func (f Format) Pixel(r, g, b uint8) uint32 {
	p := f.Red.pack(r) | f.Green.pack(g) | f.Blue.pack(b)
	if f.Alpha.Length > 0 {
		p |= f.Alpha.pack(0xff)
	}

	return p
}

// Encode writes src into dst, which must be at least Size bytes. Pixels
// outside the overlap of src and the format's geometry are left untouched.
func (f Format) Encode(dst []byte, src *image.RGBA) {
	b := src.Bounds()
	w := min(b.Dx(), f.Width)
	h := min(b.Dy(), f.Height)
	bpp := f.BitsPerPixel / 8

	for y := 0; y < h; y++ {
		row := dst[y*f.Stride:]
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			p := f.Pixel(src.Pix[si], src.Pix[si+1], src.Pix[si+2])
			si += 4
			switch bpp {
			case 2:
				binary.LittleEndian.PutUint16(row[x*2:], uint16(p))
			case 4:
				binary.LittleEndian.PutUint32(row[x*4:], p)
			}
		}
	}
}
