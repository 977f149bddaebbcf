package app_test

import (
	"bytes"
	"context"
	"image"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/cutiepi/internal/app"
	"codeberg.org/mutker/cutiepi/internal/config"
	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/input"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/logger"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"codeberg.org/mutker/cutiepi/internal/poll"
	"codeberg.org/mutker/cutiepi/internal/screen"
	"codeberg.org/mutker/cutiepi/internal/sysinfo"
	"codeberg.org/mutker/cutiepi/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	size        image.Point
	flushes     int
	last        []byte
	invalidated int
	closed      bool
}

func (s *fakeSink) Size() image.Point { return s.size }

func (s *fakeSink) Flush(img *image.RGBA) error {
	s.flushes++
	s.last = append(s.last[:0], img.Pix...)
	return nil
}

func (s *fakeSink) Invalidate() { s.invalidated++ }

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

type fakeBacklight struct {
	percent   int
	sleeps    int
	wakes     int
	sleepFail bool
}

func (b *fakeBacklight) SetPercent(p int) error {
	b.percent = p
	return nil
}

func (b *fakeBacklight) Sleep() error {
	b.sleeps++
	if b.sleepFail {
		return errors.New().New(errors.ErrUnavailable)
	}
	return nil
}

func (b *fakeBacklight) Wake(fallback int) error {
	b.wakes++
	b.percent = fallback
	return nil
}

type fakeStore struct {
	saved []config.Settings
}

func (s *fakeStore) Save(settings config.Settings) error {
	s.saved = append(s.saved, settings)
	return nil
}

type harness struct {
	app       *app.App
	events    chan input.Event
	sink      *fakeSink
	backlight *fakeBacklight
	store     *fakeStore
	canvas    *gfx.Canvas
}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T, settings config.Settings, withBacklight bool) *harness {
	t.Helper()

	l := layout.Default()
	fonts, err := gfx.LoadFonts(l, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = fonts.Close() })

	ph := poll.New("pihole", func(context.Context, *pihole.Snapshot) (*pihole.Snapshot, error) {
		return &pihole.Snapshot{Summary: pihole.Summary{Total: 10, Blocking: pihole.BlockingEnabled}}, nil
	})
	sys := poll.New("system", func(context.Context, *sysinfo.Snapshot) (*sysinfo.Snapshot, error) {
		return &sysinfo.Snapshot{Hostname: "pi", IP: "10.0.0.2"}, nil
	})
	t.Cleanup(func() {
		ph.Wait()
		sys.Wait()
	})

	h := &harness{
		events: make(chan input.Event, 16),
		sink:   &fakeSink{size: l.Actual()},
		store:  &fakeStore{},
		canvas: gfx.NewCanvas(l, theme.Get("default"), fonts),
	}
	opts := app.Options{
		Canvas:   h.canvas,
		Sink:     h.sink,
		Store:    h.store,
		Pihole:   ph,
		System:   sys,
		Events:   h.events,
		Settings: settings,
		Version:  "test",
	}
	if withBacklight {
		h.backlight = &fakeBacklight{}
		opts.Backlight = h.backlight
	}
	h.app, err = app.New(opts)
	require.NoError(t, err)
	h.app.Start(t0)

	return h
}

func (h *harness) send(at time.Time, evs ...input.Event) bool {
	for _, ev := range evs {
		h.events <- ev
	}

	return h.app.Frame(context.Background(), at)
}

func tapAt(r image.Rectangle) input.Event {
	return input.Event{Kind: input.Tap, Pos: r.Min.Add(r.Size().Div(2))}
}

func defaults() config.Settings {
	return config.Settings{Theme: "default", Scanlines: true, Brightness: 100, APIInterval: 5}
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := app.New(app.Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInitApp))
}

func TestFrameRendersAndPolls(t *testing.T) {
	h := newHarness(t, defaults(), true)
	assert.Equal(t, 100, h.backlight.percent, "initial brightness applied")
	assert.True(t, h.app.Settings().Locked)

	require.True(t, h.app.Frame(context.Background(), t0))
	assert.Equal(t, 1, h.sink.flushes)
}

func TestSwipesAndKeysNavigate(t *testing.T) {
	h := newHarness(t, defaults(), false)
	m := h.app.Screens()

	h.send(t0, input.Event{Kind: input.SwipeLeft})
	assert.Equal(t, 1, m.Index())

	h.send(t0, input.Event{Kind: input.SwipeRight}, input.Event{Kind: input.Prev})
	assert.Equal(t, m.Len()-1, m.Index())

	h.send(t0, input.Event{Kind: input.Next})
	assert.Equal(t, 0, m.Index())

	h.send(t0, input.Event{Kind: input.TouchDown})
	assert.Equal(t, 0, m.Index())
}

func TestQuitKeyStopsLoop(t *testing.T) {
	h := newHarness(t, defaults(), false)
	assert.False(t, h.send(t0, input.Event{Kind: input.Quit}))
}

func TestTimeoutSleepsAndTouchWakes(t *testing.T) {
	s := defaults()
	s.ScreenTimeout = 1
	h := newHarness(t, s, true)
	m := h.app.Screens()

	h.send(t0.Add(59 * time.Second))
	assert.False(t, h.app.Asleep())
	flushes := h.sink.flushes

	h.send(t0.Add(61 * time.Second))
	assert.True(t, h.app.Asleep())
	assert.Equal(t, 1, h.backlight.sleeps)
	assert.Equal(t, flushes, h.sink.flushes, "nothing drawn while asleep")

	wakeAt := t0.Add(2 * time.Minute)
	h.send(wakeAt, input.Event{Kind: input.TouchDown})
	assert.False(t, h.app.Asleep())
	assert.Equal(t, 1, h.backlight.wakes)
	assert.Equal(t, 100, h.backlight.percent)
	assert.Equal(t, 1, h.sink.invalidated)
	assert.Equal(t, flushes+1, h.sink.flushes)

	h.send(wakeAt, input.Event{Kind: input.SwipeLeft})
	assert.Equal(t, 0, m.Index(), "the release of the waking touch is consumed")

	h.send(wakeAt, input.Event{Kind: input.SwipeLeft})
	assert.Equal(t, 1, m.Index())

	h.send(wakeAt.Add(59 * time.Second))
	assert.False(t, h.app.Asleep(), "waking input restarts the timeout")
}

func TestWakingTouchWithoutGestureDoesNotEatNextSwipe(t *testing.T) {
	s := defaults()
	s.ScreenTimeout = 1
	h := newHarness(t, s, true)

	h.send(t0.Add(61 * time.Second))
	require.True(t, h.app.Asleep())

	wakeAt := t0.Add(2 * time.Minute)
	h.send(wakeAt, input.Event{Kind: input.TouchDown})
	require.False(t, h.app.Asleep())

	h.send(wakeAt.Add(4*time.Second), input.Event{Kind: input.TouchDown}, input.Event{Kind: input.SwipeLeft})
	assert.Equal(t, 1, h.app.Screens().Index())
}

func TestSleepAndWakeLoggedByApp(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, false, true, true)
	t.Cleanup(func() { logger.SetLogLevel(logger.WarnLevel) })

	s := defaults()
	s.ScreenTimeout = 1
	h := newHarness(t, s, true)

	h.send(t0.Add(61 * time.Second))
	h.send(t0.Add(2*time.Minute), input.Event{Kind: input.Next})

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "display sleeping"))
	assert.Equal(t, 1, strings.Count(out, "display waking"))
	assert.Contains(t, out, "component=app")
}

func TestKeyWakeOnlyWakes(t *testing.T) {
	s := defaults()
	s.ScreenTimeout = 1
	h := newHarness(t, s, true)

	h.send(t0.Add(time.Hour))
	require.True(t, h.app.Asleep())

	at := t0.Add(time.Hour + time.Second)
	h.send(at, input.Event{Kind: input.Next})
	assert.False(t, h.app.Asleep())
	assert.Equal(t, 0, h.app.Screens().Index())

	h.send(at, input.Event{Kind: input.SwipeLeft})
	assert.Equal(t, 1, h.app.Screens().Index())
}

func TestNeverTimeout(t *testing.T) {
	h := newHarness(t, defaults(), true)
	h.send(t0.Add(48 * time.Hour))
	assert.False(t, h.app.Asleep())
	assert.Zero(t, h.backlight.sleeps)
}

func TestSleepWithoutBacklightBlanksFrame(t *testing.T) {
	s := defaults()
	s.ScreenTimeout = 5
	h := newHarness(t, s, false)

	h.send(t0)
	h.send(t0.Add(5 * time.Minute))
	require.True(t, h.app.Asleep())
	require.NotEmpty(t, h.sink.last)
	for _, b := range h.sink.last {
		if b != 0 {
			t.Fatal("sleeping frame is not black")
		}
	}
}

func TestLockPersistsOnce(t *testing.T) {
	h := newHarness(t, defaults(), true)
	m := h.app.Screens()
	m.Show(m.Len()-1, t0)
	require.Equal(t, "settings", m.Active().Name())

	_, right := screen.ArrowRects(screen.RowTheme)
	h.send(t0, tapAt(right))
	assert.Equal(t, "default", h.app.Settings().Theme, "locked settings ignore taps")

	h.send(t0, tapAt(screen.LockRect()))
	assert.False(t, h.app.Settings().Locked)
	assert.Empty(t, h.store.saved)

	h.send(t0, tapAt(right))
	want := theme.Next("default")
	assert.Equal(t, want, h.app.Settings().Theme)
	assert.Equal(t, want, h.canvas.Theme().ID(), "theme applies immediately")

	left, _ := screen.ArrowRects(screen.RowBrightness)
	h.send(t0, tapAt(left))
	assert.Equal(t, 90, h.backlight.percent, "brightness applies immediately")

	h.send(t0, tapAt(screen.LockRect()))
	require.Len(t, h.store.saved, 1)
	assert.Equal(t, want, h.store.saved[0].Theme)
	assert.Equal(t, 90, h.store.saved[0].Brightness)

	h.send(t0.Add(time.Second))
	assert.Len(t, h.store.saved, 1)
}

func TestRunShutsDown(t *testing.T) {
	h := newHarness(t, defaults(), true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, h.app.Run(ctx))
	assert.True(t, h.sink.closed)
	assert.Positive(t, h.backlight.wakes)
}
