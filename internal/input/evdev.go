package input

import (
	"context"
	"encoding/binary"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"unsafe"

	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/logger"
	"golang.org/x/sys/unix"
)

const DefaultDeviceGlob = "/dev/input/event*"

// evdev event types and codes.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0x00

	absX            = 0x00
	absY            = 0x01
	absMTPositionX  = 0x35
	absMTPositionY  = 0x36
	absMTTrackingID = 0x39

	btnTouch = 0x14a

	keyPressed = 1
)

// eventSize is sizeof(struct input_event) on this platform.
var eventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

// AbsRange is the reported extent of an absolute axis.
type AbsRange struct {
	Min, Max int32
}

// scale maps v from the axis range onto [0, size).
func (r AbsRange) scale(v int32, size int) int {
	if r.Max <= r.Min || size <= 0 {
		return int(v)
	}
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}

	return int(int64(v-r.Min) * int64(size-1) / int64(r.Max-r.Min))
}

// Decoder folds raw evdev events into gestures. It tracks one contact.
type Decoder struct {
	screen image.Point
	xr, yr AbsRange
	rec    *Recognizer

	x, y    int32
	down    bool
	wasDown bool
}

func NewDecoder(screen image.Point, xr, yr AbsRange, rec *Recognizer) *Decoder {
	return &Decoder{screen: screen, xr: xr, yr: yr, rec: rec}
}

func (d *Decoder) pos() image.Point {
	return image.Pt(d.xr.scale(d.x, d.screen.X), d.yr.scale(d.y, d.screen.Y))
}

// Feed consumes one raw event. Touch gestures are emitted on SYN_REPORT so a
// frame's coordinates are complete before they are used.
func (d *Decoder) Feed(typ, code uint16, value int32) (Event, bool) {
	switch typ {
	case evAbs:
		switch code {
		case absX, absMTPositionX:
			d.x = value
		case absY, absMTPositionY:
			d.y = value
		case absMTTrackingID:
			d.down = value >= 0
		}
	case evKey:
		if code == btnTouch {
			d.down = value != 0
			return Event{}, false
		}
		if value == keyPressed {
			return d.rec.Key(code)
		}
	case evSyn:
		if code != synReport {
			return Event{}, false
		}
		switch {
		case d.down && !d.wasDown:
			d.wasDown = true
			return d.rec.Press(d.pos()), true
		case !d.down && d.wasDown:
			d.wasDown = false
			return d.rec.Release(d.pos())
		}
	}

	return Event{}, false
}

// ParseEvent decodes one struct input_event.
func ParseEvent(b []byte) (typ, code uint16, value int32) {
	off := eventSize - 8
	typ = binary.NativeEndian.Uint16(b[off:])
	code = binary.NativeEndian.Uint16(b[off+2:])
	value = int32(binary.NativeEndian.Uint32(b[off+4:]))

	return typ, code, value
}

// Device is one open evdev node.
type Device struct {
	path string
	file *os.File
	dec  *Decoder
}

// Open opens an evdev node and reads its absolute axis ranges so touches
// map onto a screen of the given size.
func Open(path string, screen image.Point, threshold int) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenDevice, err).WithData(path)
	}

	xr := absRange(f, absX)
	yr := absRange(f, absY)
	logger.Debug().
		Str("device", path).
		Int32("x_min", xr.Min).Int32("x_max", xr.Max).
		Int32("y_min", yr.Min).Int32("y_max", yr.Max).
		Msg("input device opened")

	return &Device{
		path: path,
		file: f,
		dec:  NewDecoder(screen, xr, yr, NewRecognizer(threshold)),
	}, nil
}

// OpenAll opens every path, or every node matching DefaultDeviceGlob when
// paths is empty. Devices that cannot be opened are logged and skipped.
func OpenAll(paths []string, screen image.Point, threshold int) []*Device {
	if len(paths) == 0 {
		paths, _ = filepath.Glob(DefaultDeviceGlob)
		sort.Strings(paths)
	}

	var devs []*Device
	for _, p := range paths {
		d, err := Open(p, screen, threshold)
		if err != nil {
			logger.Debug().Err(err).Msg("skipping input device")
			continue
		}
		devs = append(devs, d)
	}
	if len(devs) == 0 {
		logger.Warn().Msg("no input devices available")
	}

	return devs
}

func (d *Device) Path() string {
	return d.path
}

// Run forwards gestures to out until ctx is done or the device fails.
func (d *Device) Run(ctx context.Context, out chan<- Event) error {
	stop := context.AfterFunc(ctx, func() { d.file.Close() })
	defer stop()

	buf := make([]byte, eventSize*64)
	for {
		n, err := io.ReadAtLeast(d.file, buf, eventSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errFactory.Wrap(ErrReadDevice, err).WithData(d.path)
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			ev, ok := d.dec.Feed(ParseEvent(buf[off : off+eventSize]))
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (d *Device) Close() error {
	if err := d.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}

	return nil
}

// absRange queries EVIOCGABS; devices without the axis report an empty range.
// The fd is reached through SyscallConn so the file stays non-blocking and
// Close can interrupt Run.
func absRange(f *os.File, axis uint) AbsRange {
	var info struct {
		Value, Min, Max, Fuzz, Flat, Resolution int32
	}
	req := uintptr(2<<30 | uint(unsafe.Sizeof(info))<<16 | 'E'<<8 | (0x40 + axis))

	conn, err := f.SyscallConn()
	if err != nil {
		return AbsRange{}
	}
	var errno unix.Errno
	if err := conn.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&info)))
	}); err != nil || errno != 0 {
		return AbsRange{}
	}

	return AbsRange{Min: info.Min, Max: info.Max}
}
