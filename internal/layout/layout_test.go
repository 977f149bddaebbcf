package layout_test

import (
	"image"
	"testing"

	"codeberg.org/mutker/cutiepi/internal/layout"
	"github.com/stretchr/testify/assert"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		name   string
		actual image.Point
		want   float64
	}{
		{"identity", image.Pt(480, 320), 1},
		{"portrait half width", image.Pt(240, 320), 0.5},
		{"800x480", image.Pt(800, 480), 1.5},
		{"1024x600", image.Pt(1024, 600), 1.875},
		{"zero falls back to design", image.Point{}, 1},
		{"negative falls back to design", image.Pt(-1, 200), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layout.New(image.Pt(480, 320), tt.actual)
			assert.InDelta(t, tt.want, l.Factor(), 1e-9)
		})
	}
}

func TestInvalidDesignDegrades(t *testing.T) {
	l := layout.New(image.Pt(0, 0), image.Pt(960, 640))

	assert.Equal(t, image.Pt(480, 320), l.Design())
	assert.InDelta(t, 2.0, l.Factor(), 1e-9)
}

func TestIdentity(t *testing.T) {
	l := layout.Default()

	for _, v := range []int{0, 1, 7, 100, 479} {
		assert.Equal(t, v, l.Scale(v))
	}
	r := layout.Rect(10, 20, 30, 40)
	assert.Equal(t, r, l.ScaleRect(r))
}

func TestScaleFloors(t *testing.T) {
	l := layout.New(image.Pt(480, 320), image.Pt(320, 240))
	s := l.Factor()

	for x := 0; x < 480; x += 7 {
		for y := 0; y < 320; y += 11 {
			p := l.ScalePoint(image.Pt(x, y))
			assert.Equal(t, int(float64(x)*s), p.X)
			assert.Equal(t, int(float64(y)*s), p.Y)
		}
	}
}

func TestScaleRectHalf(t *testing.T) {
	l := layout.New(image.Pt(480, 320), image.Pt(240, 320))

	got := l.ScaleRect(layout.Rect(100, 50, 40, 20))

	assert.Equal(t, image.Pt(50, 25), got.Min)
	assert.Equal(t, image.Pt(20, 10), got.Size())
}

func TestFontSizeMinimum(t *testing.T) {
	tiny := layout.New(image.Pt(480, 320), image.Pt(4, 3))
	assert.Equal(t, layout.DefaultMinFont, tiny.FontSize(18))
	assert.Equal(t, layout.DefaultMinFont, tiny.FontSize(0))

	big := layout.New(image.Pt(480, 320), image.Pt(960, 640))
	assert.Equal(t, 36, big.FontSize(18))

	custom := layout.New(image.Pt(480, 320), image.Pt(4, 3), layout.WithMinFontSize(6))
	assert.Equal(t, 6, custom.FontSize(18))
}

func TestStroke(t *testing.T) {
	l := layout.New(image.Pt(480, 320), image.Pt(120, 80))

	assert.Equal(t, 1, l.Stroke(1))
	assert.Equal(t, 1, l.Stroke(3))
	assert.Equal(t, 2, l.Stroke(8))
	assert.Equal(t, 0, l.Stroke(0))
}

func TestBounds(t *testing.T) {
	l := layout.New(image.Pt(480, 320), image.Pt(800, 480))
	assert.Equal(t, image.Rect(0, 0, 800, 480), l.Bounds())
}
