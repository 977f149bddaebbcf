package display

import (
	"image"
	"os"
	"unsafe"

	"codeberg.org/mutker/cutiepi/internal/logger"
	"golang.org/x/sys/unix"
)

const (
	DefaultFramebuffer = "/dev/fb0"

	fbiogetVScreenInfo = 0x4600
	fbiogetFScreenInfo = 0x4602
)

// fbBitfield mirrors struct fb_bitfield.
type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// fbVarScreenInfo mirrors struct fb_var_screeninfo.
type fbVarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fbFixScreenInfo mirrors struct fb_fix_screeninfo.
type fbFixScreenInfo struct {
	ID           [16]byte
	SMemStart    uintptr
	SMemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MMIOStart    uintptr
	MMIOLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Framebuffer writes frames into a memory-mapped Linux fbdev device.
type Framebuffer struct {
	path   string
	file   *os.File
	mem    []byte
	format Format
	cache  frameCache
}

// OpenFramebuffer maps the device at path, e.g. /dev/fb1 for an SPI panel.
func OpenFramebuffer(path string) (*Framebuffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenFramebuffer, err).WithData(path)
	}

	var vinfo fbVarScreenInfo
	if err := ioctl(f.Fd(), fbiogetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		f.Close()
		return nil, errFactory.Wrap(ErrScreenInfo, err).WithData(path)
	}
	var finfo fbFixScreenInfo
	if err := ioctl(f.Fd(), fbiogetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		f.Close()
		return nil, errFactory.Wrap(ErrScreenInfo, err).WithData(path)
	}

	format := Format{
		Width:        int(vinfo.XRes),
		Height:       int(vinfo.YRes),
		Stride:       int(finfo.LineLength),
		BitsPerPixel: int(vinfo.BitsPerPixel),
		Red:          Bitfield{Offset: vinfo.Red.Offset, Length: vinfo.Red.Length},
		Green:        Bitfield{Offset: vinfo.Green.Offset, Length: vinfo.Green.Length},
		Blue:         Bitfield{Offset: vinfo.Blue.Offset, Length: vinfo.Blue.Length},
		Alpha:        Bitfield{Offset: vinfo.Transp.Offset, Length: vinfo.Transp.Length},
	}
	if format.Stride == 0 {
		format.Stride = format.Width * format.BitsPerPixel / 8
	}
	if !format.Supported() {
		f.Close()
		return nil, errFactory.WithData(ErrPixelFormat, vinfo.BitsPerPixel)
	}

	size := format.Stride * int(vinfo.YResVirtual)
	if size < format.Size() {
		size = format.Size()
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errFactory.Wrap(ErrMap, err).WithData(path)
	}

	logger.Info().
		Str("device", path).
		Int("width", format.Width).
		Int("height", format.Height).
		Int("bpp", format.BitsPerPixel).
		Msg("framebuffer opened")

	return &Framebuffer{path: path, file: f, mem: mem, format: format}, nil
}

func (fb *Framebuffer) Size() image.Point {
	return image.Pt(fb.format.Width, fb.format.Height)
}

func (fb *Framebuffer) Format() Format {
	return fb.format
}

// Flush copies img to the screen unless it matches the previous frame.
func (fb *Framebuffer) Flush(img *image.RGBA) error {
	if !fb.cache.changed(img) {
		return nil
	}
	fb.format.Encode(fb.mem, img)

	return nil
}

// Invalidate forces the next Flush to repaint, e.g. after the console
// scribbled over the framebuffer.
func (fb *Framebuffer) Invalidate() {
	fb.cache.reset()
}

func (fb *Framebuffer) Close() error {
	var err error
	if fb.mem != nil {
		err = unix.Munmap(fb.mem)
		fb.mem = nil
	}
	if cerr := fb.file.Close(); err == nil {
		err = cerr
	}

	return err
}

func ioctl(fd uintptr, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}

	return nil
}
