package input_test

import (
	"encoding/binary"
	"image"
	"testing"
	"unsafe"

	"codeberg.org/mutker/cutiepi/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRecognizer(t *testing.T) {
	tests := []struct {
		name   string
		from   image.Point
		to     image.Point
		want   input.Kind
		wantOK bool
	}{
		{"tap in place", image.Pt(100, 100), image.Pt(100, 100), input.Tap, true},
		{"small drift is a tap", image.Pt(100, 100), image.Pt(149, 180), input.Tap, true},
		{"swipe left", image.Pt(300, 100), image.Pt(200, 100), input.SwipeLeft, true},
		{"swipe right", image.Pt(100, 100), image.Pt(151, 100), input.SwipeRight, true},
		{"exact threshold left", image.Pt(100, 100), image.Pt(50, 100), 0, false},
		{"exact threshold right", image.Pt(100, 100), image.Pt(150, 100), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := input.NewRecognizer(50)
			down := r.Press(tt.from)
			assert.Equal(t, input.Event{Kind: input.TouchDown, Pos: tt.from}, down)

			ev, ok := r.Release(tt.to)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, ev.Kind)
				assert.Equal(t, tt.to, ev.Pos)
			}
		})
	}
}

func TestReleaseWithoutPress(t *testing.T) {
	r := input.NewRecognizer(50)
	_, ok := r.Release(image.Pt(1, 1))
	assert.False(t, ok)
}

func TestRecognizerDefaultThreshold(t *testing.T) {
	assert.Equal(t, input.DefaultSwipeThreshold, input.NewRecognizer(0).Threshold())
}

func TestKeys(t *testing.T) {
	r := input.NewRecognizer(50)
	tests := map[uint16]input.Kind{
		input.KeyLeft:  input.Prev,
		input.KeyRight: input.Next,
		input.KeyEsc:   input.Quit,
		input.KeyQ:     input.Quit,
	}
	for code, want := range tests {
		ev, ok := r.Key(code)
		require.True(t, ok, code)
		assert.Equal(t, want, ev.Kind)
		assert.False(t, ev.IsTouch())
	}

	_, ok := r.Key(30)
	assert.False(t, ok)
}

const (
	evSyn    = 0
	evKey    = 1
	evAbs    = 3
	btnTouch = 0x14a
)

func TestDecoderTouchSequence(t *testing.T) {
	d := input.NewDecoder(
		image.Pt(480, 320),
		input.AbsRange{Min: 0, Max: 4095},
		input.AbsRange{Min: 0, Max: 4095},
		input.NewRecognizer(50),
	)

	feed := func(typ, code uint16, v int32) (input.Event, bool) {
		return d.Feed(typ, code, v)
	}

	_, ok := feed(evAbs, 0, 4095)
	assert.False(t, ok)
	feed(evAbs, 1, 0)
	feed(evKey, btnTouch, 1)
	ev, ok := feed(evSyn, 0, 0)
	require.True(t, ok)
	assert.Equal(t, input.Event{Kind: input.TouchDown, Pos: image.Pt(479, 0)}, ev)

	feed(evAbs, 0, 0)
	_, ok = feed(evSyn, 0, 0)
	assert.False(t, ok, "movement while held emits nothing")

	feed(evKey, btnTouch, 0)
	ev, ok = feed(evSyn, 0, 0)
	require.True(t, ok)
	assert.Equal(t, input.SwipeLeft, ev.Kind)
	assert.Equal(t, image.Pt(0, 0), ev.Pos)
}

func TestDecoderMultitouchTrackingID(t *testing.T) {
	d := input.NewDecoder(image.Pt(480, 320), input.AbsRange{}, input.AbsRange{}, input.NewRecognizer(50))

	d.Feed(evAbs, 0x39, 7)
	d.Feed(evAbs, 0x35, 200)
	d.Feed(evAbs, 0x36, 100)
	ev, ok := d.Feed(evSyn, 0, 0)
	require.True(t, ok)
	assert.Equal(t, image.Pt(200, 100), ev.Pos, "no axis range means raw coordinates")

	d.Feed(evAbs, 0x39, -1)
	ev, ok = d.Feed(evSyn, 0, 0)
	require.True(t, ok)
	assert.Equal(t, input.Tap, ev.Kind)
}

func TestDecoderKeys(t *testing.T) {
	d := input.NewDecoder(image.Pt(480, 320), input.AbsRange{}, input.AbsRange{}, input.NewRecognizer(50))

	ev, ok := d.Feed(evKey, input.KeyRight, 1)
	require.True(t, ok)
	assert.Equal(t, input.Next, ev.Kind)

	_, ok = d.Feed(evKey, input.KeyRight, 0)
	assert.False(t, ok, "key release is ignored")
	_, ok = d.Feed(evKey, input.KeyRight, 2)
	assert.False(t, ok, "autorepeat is ignored")
}

func TestParseEvent(t *testing.T) {
	size := int(unsafe.Sizeof(unix.Timeval{})) + 8
	buf := make([]byte, size)
	off := size - 8
	binary.NativeEndian.PutUint16(buf[off:], evAbs)
	binary.NativeEndian.PutUint16(buf[off+2:], 0x35)
	v := int32(-1)
	binary.NativeEndian.PutUint32(buf[off+4:], uint32(v))

	typ, code, value := input.ParseEvent(buf)
	assert.Equal(t, uint16(evAbs), typ)
	assert.Equal(t, uint16(0x35), code)
	assert.Equal(t, int32(-1), value)
}
