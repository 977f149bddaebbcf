package screen

import (
	"fmt"
	"image"
	"strings"
	"time"

	"codeberg.org/mutker/cutiepi/internal/config"
	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/input"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/theme"
)

// Settings rows, top to bottom.
const (
	RowTheme = iota
	RowScanlines
	RowShowFPS
	RowBrightness
	RowAPIInterval
	RowTimeout
	numRows
)

const (
	setRowsY     = 42
	setRowH      = 32
	setRowGap    = 4
	setRowW      = layout.DesignWidth - 2*margin
	setLabelX    = 22
	setArrowL    = 200
	setArrowR    = layout.DesignWidth - 30
	setArrowW    = 12
	setArrowHalf = 8
	setZoneW     = 60
	setHintY     = 270
)

// Hit zones and drawing share these rects.
var (
	lockRect = layout.Rect(layout.DesignWidth-48, 4, 28, 26)
)

type settingsRow struct {
	label  string
	arrows bool
	rect   image.Rectangle
	left   image.Rectangle
	right  image.Rectangle
}

// rows lays out the option rows in design space.
func rows() [numRows]settingsRow {
	labels := [numRows]struct {
		label  string
		arrows bool
	}{
		RowTheme:       {"THEME", true},
		RowScanlines:   {"SCANLINES", false},
		RowShowFPS:     {"SHOW FPS", false},
		RowBrightness:  {"BRIGHTNESS", true},
		RowAPIInterval: {"API REFRESH", true},
		RowTimeout:     {"TIMEOUT", true},
	}

	var out [numRows]settingsRow
	for i, l := range labels {
		y := setRowsY + i*(setRowH+setRowGap)
		r := layout.Rect(margin, y, setRowW, setRowH)
		out[i] = settingsRow{
			label:  l.label,
			arrows: l.arrows,
			rect:   r,
			left:   layout.Rect(setArrowL-20, y, setZoneW, setRowH),
			right:  layout.Rect(r.Max.X-setZoneW, y, setZoneW, setRowH),
		}
	}

	return out
}

// RowRect returns the design rect of row i, for callers that synthesize taps.
func RowRect(i int) image.Rectangle {
	return rows()[i].rect
}

// ArrowRects returns the design rects of row i's decrement and increment zones.
func ArrowRects(i int) (left, right image.Rectangle) {
	r := rows()[i]
	return r.left, r.right
}

// LockRect returns the design rect of the lock icon.
func LockRect() image.Rectangle {
	return lockRect
}

// Settings edits the shared settings in place. Edits are only accepted while
// unlocked; locking hands the result to the app to persist.
type Settings struct {
	l        *layout.Layout
	s        *config.Settings
	version  string
	selected int
}

func NewSettings(l *layout.Layout, s *config.Settings, version string) *Settings {
	return &Settings{l: l, s: s, version: version}
}

func (st *Settings) Name() string { return "settings" }

func (st *Settings) Enter(time.Time) {}

func (st *Settings) Update(time.Time) {}

// Selected returns the highlighted row.
func (st *Settings) Selected() int {
	return st.selected
}

func (st *Settings) hit(r image.Rectangle, p image.Point) bool {
	return p.In(st.l.ScaleRect(r))
}

// HandleInput maps a tap in screen pixels to a settings action.
func (st *Settings) HandleInput(ev input.Event) Action {
	if ev.Kind != input.Tap {
		return None
	}
	if st.hit(lockRect, ev.Pos) {
		st.s.Locked = !st.s.Locked
		if st.s.Locked {
			return Action{Kind: Lock}
		}
		return Action{Kind: Unlock}
	}
	if st.s.Locked {
		return None
	}

	for i, row := range rows() {
		if !st.hit(row.rect, ev.Pos) {
			continue
		}
		st.selected = i
		dir := 0
		switch {
		case st.hit(row.left, ev.Pos):
			dir = -1
		case st.hit(row.right, ev.Pos):
			dir = 1
		}
		return st.apply(i, dir)
	}

	return None
}

func (st *Settings) apply(row, dir int) Action {
	s := st.s
	switch row {
	case RowScanlines:
		s.Scanlines = !s.Scanlines
		return Action{Kind: ToggleScanlines, Enabled: s.Scanlines}
	case RowShowFPS:
		s.ShowFPS = !s.ShowFPS
		return Action{Kind: ToggleFPS, Enabled: s.ShowFPS}
	}
	if dir == 0 {
		return None
	}

	switch row {
	case RowTheme:
		if dir < 0 {
			s.Theme = theme.Prev(s.Theme)
		} else {
			s.Theme = theme.Next(s.Theme)
		}
		return Action{Kind: ChangeTheme, Theme: s.Theme}
	case RowBrightness:
		b := max(config.MinBrightness, min(config.MaxBrightness, s.Brightness+dir*config.BrightnessStep))
		if b == s.Brightness {
			return None
		}
		s.Brightness = b
		return Action{Kind: SetBrightness, Value: b}
	case RowAPIInterval:
		s.APIInterval = cycle(config.APIIntervals, s.APIInterval, dir)
		return Action{Kind: SetAPIInterval, Value: s.APIInterval}
	case RowTimeout:
		s.ScreenTimeout = cycle(config.ScreenTimeouts, s.ScreenTimeout, dir)
		return Action{Kind: SetTimeout, Value: s.ScreenTimeout}
	}

	return None
}

// cycle steps through options from the entry nearest cur, wrapping.
func cycle(options []int, cur, dir int) int {
	n := len(options)
	i := config.NearestIndex(options, cur)

	return options[((i+dir)%n+n)%n]
}

func (st *Settings) value(row int) string {
	s := st.s
	onOff := func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	}

	switch row {
	case RowTheme:
		return strings.ToUpper(s.Theme)
	case RowScanlines:
		return onOff(s.Scanlines)
	case RowShowFPS:
		return onOff(s.ShowFPS)
	case RowBrightness:
		return fmt.Sprintf("%d%%", s.Brightness)
	case RowAPIInterval:
		return fmt.Sprintf("%dS", s.APIInterval)
	case RowTimeout:
		if s.ScreenTimeout == 0 {
			return "NEVER"
		}
		return fmt.Sprintf("%dM", s.ScreenTimeout)
	}

	return ""
}

func (st *Settings) Render(c *gfx.Canvas) {
	c.Clear()
	title(c, theme.Secondary, "SETTINGS")

	lockRole := theme.Success
	if st.s.Locked {
		lockRole = theme.Error
	}
	c.Lock(lockRect.Inset(5), st.s.Locked, lockRole)
	c.TextRight(layout.DesignWidth-margin, lockRect.Max.Y+1, gfx.Tiny, theme.TextDim, "v"+st.version)

	for i, row := range rows() {
		fg, arrow := theme.Border, theme.TextDim
		if i == st.selected && !st.s.Locked {
			fg, arrow = theme.Success, theme.Text
		}
		c.Outline(row.rect, 1, fg)
		ty := row.rect.Min.Y + (setRowH-10)/2
		c.Text(setLabelX, ty, gfx.Small, fg, row.label)

		mid := row.rect.Min.Y + setRowH/2
		if row.arrows {
			c.ArrowLeft(setArrowL, mid, setArrowW, setArrowHalf, arrow)
			c.ArrowRight(setArrowR, mid, setArrowW, setArrowHalf, arrow)
		}
		c.TextCenter(setArrowL+setArrowW, setArrowR-setArrowW, ty, gfx.Small, theme.Text, st.value(i))
	}

	hint := "TAP TO CHANGE"
	if st.s.Locked {
		hint = "TAP LOCK TO EDIT"
	}
	c.TextCenter(0, layout.DesignWidth, setHintY, gfx.Tiny, theme.TextDim, hint)
}
