package screen_test

import (
	"image"
	"testing"

	"codeberg.org/mutker/cutiepi/internal/config"
	"codeberg.org/mutker/cutiepi/internal/input"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/screen"
	"codeberg.org/mutker/cutiepi/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings() config.Settings {
	return config.Settings{
		Theme:         "default",
		Scanlines:     true,
		Brightness:    100,
		APIInterval:   5,
		ScreenTimeout: 0,
		Locked:        true,
	}
}

// tap returns a tap at the centre of design rect r on layout l.
func tap(l *layout.Layout, r image.Rectangle) input.Event {
	s := l.ScaleRect(r)

	return input.Event{Kind: input.Tap, Pos: s.Min.Add(s.Size().Div(2))}
}

func unlocked(t *testing.T, l *layout.Layout) (*screen.Settings, *config.Settings) {
	t.Helper()
	s := defaultSettings()
	st := screen.NewSettings(l, &s, "1.0.0")
	require.Equal(t, screen.Action{Kind: screen.Unlock}, st.HandleInput(tap(l, screen.LockRect())))
	require.False(t, s.Locked)

	return st, &s
}

func TestSettingsLockedIgnoresTaps(t *testing.T) {
	l := layout.Default()
	s := defaultSettings()
	st := screen.NewSettings(l, &s, "1.0.0")

	for i := range screen.RowTimeout + 1 {
		left, right := screen.ArrowRects(i)
		assert.Equal(t, screen.None, st.HandleInput(tap(l, left)))
		assert.Equal(t, screen.None, st.HandleInput(tap(l, right)))
		assert.Equal(t, screen.None, st.HandleInput(tap(l, screen.RowRect(i))))
	}
	assert.Equal(t, defaultSettings(), s)
}

func TestSettingsLockToggle(t *testing.T) {
	l := layout.Default()
	st, s := unlocked(t, l)

	assert.Equal(t, screen.Action{Kind: screen.Lock}, st.HandleInput(tap(l, screen.LockRect())))
	assert.True(t, s.Locked)
}

func TestSettingsIgnoresNonTaps(t *testing.T) {
	l := layout.Default()
	st, s := unlocked(t, l)
	ev := tap(l, screen.LockRect())

	for _, k := range []input.Kind{input.TouchDown, input.SwipeLeft, input.SwipeRight, input.Next} {
		ev.Kind = k
		assert.Equal(t, screen.None, st.HandleInput(ev))
	}
	assert.False(t, s.Locked)
}

func TestSettingsTheme(t *testing.T) {
	l := layout.Default()
	st, s := unlocked(t, l)
	left, right := screen.ArrowRects(screen.RowTheme)

	a := st.HandleInput(tap(l, right))
	assert.Equal(t, screen.ChangeTheme, a.Kind)
	assert.Equal(t, theme.Next("default"), a.Theme)
	assert.Equal(t, a.Theme, s.Theme)
	assert.Equal(t, screen.RowTheme, st.Selected())

	st.HandleInput(tap(l, left))
	assert.Equal(t, "default", s.Theme)

	st.HandleInput(tap(l, left))
	names := theme.Names()
	assert.Equal(t, names[len(names)-1], s.Theme)
}

func TestSettingsToggles(t *testing.T) {
	l := layout.Default()
	st, s := unlocked(t, l)

	a := st.HandleInput(tap(l, screen.RowRect(screen.RowScanlines)))
	assert.Equal(t, screen.Action{Kind: screen.ToggleScanlines, Enabled: false}, a)
	assert.False(t, s.Scanlines)

	a = st.HandleInput(tap(l, screen.RowRect(screen.RowShowFPS)))
	assert.Equal(t, screen.Action{Kind: screen.ToggleFPS, Enabled: true}, a)
	assert.True(t, s.ShowFPS)
	assert.Equal(t, screen.RowShowFPS, st.Selected())
}

func TestSettingsBrightnessClamps(t *testing.T) {
	l := layout.Default()
	st, s := unlocked(t, l)
	left, right := screen.ArrowRects(screen.RowBrightness)

	assert.Equal(t, screen.None, st.HandleInput(tap(l, right)), "already at maximum")
	assert.Equal(t, 100, s.Brightness)

	a := st.HandleInput(tap(l, left))
	assert.Equal(t, screen.Action{Kind: screen.SetBrightness, Value: 90}, a)

	for range 20 {
		st.HandleInput(tap(l, left))
	}
	assert.Equal(t, config.MinBrightness, s.Brightness)
}

func TestSettingsCyclesIntervals(t *testing.T) {
	l := layout.Default()
	st, s := unlocked(t, l)

	left, right := screen.ArrowRects(screen.RowAPIInterval)
	assert.Equal(t, screen.Action{Kind: screen.SetAPIInterval, Value: 60}, st.HandleInput(tap(l, left)))
	assert.Equal(t, 5, st.HandleInput(tap(l, right)).Value)
	assert.Equal(t, 10, st.HandleInput(tap(l, right)).Value)
	assert.Equal(t, 10, s.APIInterval)

	left, right = screen.ArrowRects(screen.RowTimeout)
	assert.Equal(t, screen.Action{Kind: screen.SetTimeout, Value: 1}, st.HandleInput(tap(l, right)))
	st.HandleInput(tap(l, left))
	a := st.HandleInput(tap(l, left))
	assert.Equal(t, 30, a.Value)
	assert.Equal(t, 30, s.ScreenTimeout)
}

func TestSettingsArrowRowBodyOnlySelects(t *testing.T) {
	l := layout.Default()
	st, s := unlocked(t, l)
	row := screen.RowRect(screen.RowBrightness)

	ev := input.Event{Kind: input.Tap, Pos: image.Pt(row.Min.X+5, row.Min.Y+5)}
	assert.Equal(t, screen.None, st.HandleInput(ev))
	assert.Equal(t, screen.RowBrightness, st.Selected())
	assert.Equal(t, 100, s.Brightness)
}

func TestSettingsHitZonesScale(t *testing.T) {
	l := layout.New(image.Pt(layout.DesignWidth, layout.DesignHeight), image.Pt(240, 320))
	st, s := unlocked(t, l)

	_, right := screen.ArrowRects(screen.RowTheme)
	design := tap(layout.Default(), right)
	assert.Equal(t, screen.None, st.HandleInput(design), "design coordinates fall outside the scaled screen")
	assert.Equal(t, "default", s.Theme)

	a := st.HandleInput(tap(l, right))
	assert.Equal(t, screen.ChangeTheme, a.Kind)
	assert.Equal(t, theme.Next("default"), s.Theme)
}
