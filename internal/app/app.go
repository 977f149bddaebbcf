// Package app runs the dashboard: the frame loop, input handling, polling,
// display sleep and settings persistence.
package app

import (
	"context"
	"time"

	"codeberg.org/mutker/cutiepi/internal/config"
	"codeberg.org/mutker/cutiepi/internal/display"
	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/history"
	"codeberg.org/mutker/cutiepi/internal/input"
	"codeberg.org/mutker/cutiepi/internal/logger"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"codeberg.org/mutker/cutiepi/internal/poll"
	"codeberg.org/mutker/cutiepi/internal/screen"
	"codeberg.org/mutker/cutiepi/internal/sysinfo"
	"codeberg.org/mutker/cutiepi/internal/theme"
)

const (
	DefaultFPS            = 30
	DefaultSystemInterval = 2 * time.Second
)

// Backlight is the panel power and brightness control.
type Backlight interface {
	SetPercent(percent int) error
	Sleep() error
	Wake(fallbackPercent int) error
}

// SettingsSaver persists settings when they are locked.
type SettingsSaver interface {
	Save(s config.Settings) error
}

// invalidator is implemented by sinks that skip unchanged frames.
type invalidator interface {
	Invalidate()
}

// Options wires the app to its collaborators. Backlight, Store and Logger may be nil.
type Options struct {
	Canvas         *gfx.Canvas
	Sink           display.Sink
	Backlight      Backlight
	Store          SettingsSaver
	Pihole         *pihole.Source
	System         *poll.Source[sysinfo.Snapshot]
	Events         <-chan input.Event
	Settings       config.Settings
	FPS            int
	SystemInterval time.Duration
	HistorySize    int
	Version        string
	Logger         logger.Logger
}

type App struct {
	canvas    *gfx.Canvas
	sink      display.Sink
	backlight Backlight
	store     SettingsSaver
	pihole    *pihole.Source
	system    *poll.Source[sysinfo.Snapshot]
	events    <-chan input.Event
	log       logger.Logger

	settings *config.Settings
	screens  *screen.Manager
	fps      int
	sysEvery time.Duration

	lastInput  time.Time
	asleep     bool
	swallow    bool
	quit       bool
	flushError bool
	meter      meter
}

func New(o Options) (*App, error) {
	errFactory := errors.New()
	if o.Canvas == nil || o.Sink == nil || o.Pihole == nil || o.System == nil {
		return nil, errFactory.WithMessage(errors.ErrInitApp, "canvas, sink and pollers are required")
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.SystemInterval <= 0 {
		o.SystemInterval = DefaultSystemInterval
	}
	if o.HistorySize <= 0 {
		o.HistorySize = history.DefaultSize
	}
	if o.Logger == nil {
		o.Logger = logger.Component("app")
	}

	s := o.Settings.Normalize()
	s.Locked = true
	a := &App{
		canvas:    o.Canvas,
		sink:      o.Sink,
		backlight: o.Backlight,
		store:     o.Store,
		pihole:    o.Pihole,
		system:    o.System,
		events:    o.Events,
		log:       o.Logger,
		settings:  &s,
		fps:       o.FPS,
		sysEvery:  o.SystemInterval,
	}
	a.screens = screen.NewManager(
		screen.NewStats(o.Pihole, o.System),
		screen.NewGraph(o.Pihole, o.HistorySize),
		screen.NewTopBlocked(o.Pihole),
		screen.NewTopClients(o.Pihole),
		screen.NewSystem(o.System),
		screen.NewSettings(o.Canvas.Layout(), a.settings, o.Version),
	)
	a.canvas.SetTheme(theme.Get(s.Theme))

	return a, nil
}

// Settings returns the live settings.
func (a *App) Settings() config.Settings {
	return *a.settings
}

func (a *App) Screens() *screen.Manager {
	return a.screens
}

func (a *App) Asleep() bool {
	return a.asleep
}

// Start applies the initial brightness and activates the first screen.
func (a *App) Start(now time.Time) {
	a.lastInput = now
	a.meter.reset(now)
	a.screens.Start(now)
	if a.backlight != nil {
		if err := a.backlight.SetPercent(a.settings.Brightness); err != nil {
			a.log.Debug().Err(err).Msg("initial brightness not applied")
		}
	}
	a.log.Info().
		Str("theme", a.settings.Theme).
		Int("fps", a.fps).
		Int("screens", a.screens.Len()).
		Msg("dashboard started")
}

// Run drives frames at the configured rate until ctx is done or a quit key
// is pressed.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

	a.Start(time.Now())
	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return nil
		case now := <-ticker.C:
			if !a.Frame(ctx, now) {
				a.log.Info().Msg("quit requested")
				cancel()
				a.shutdown()
				return nil
			}
		}
	}
}

// Frame runs one iteration of the loop and reports whether to keep going.
func (a *App) Frame(ctx context.Context, now time.Time) bool {
	a.drain(now)
	if a.quit {
		return false
	}
	a.checkTimeout(now)

	a.pihole.MaybeRefresh(ctx, now, time.Duration(a.settings.APIInterval)*time.Second)
	a.system.MaybeRefresh(ctx, now, a.sysEvery)
	a.screens.Update(now)
	a.meter.tick(now)

	if !a.asleep {
		a.render()
	}

	return true
}

func (a *App) drain(now time.Time) {
	for {
		select {
		case ev, ok := <-a.events:
			if !ok {
				a.events = nil
				return
			}
			a.handle(ev, now)
		default:
			return
		}
	}
}

func (a *App) handle(ev input.Event, now time.Time) {
	a.lastInput = now
	if a.asleep {
		a.wake()
		// the release that ends a waking touch is not a gesture
		a.swallow = ev.Kind == input.TouchDown
		return
	}
	if ev.Kind == input.TouchDown {
		// a new touch ends whatever the waking touch left behind
		a.swallow = false
	} else if a.swallow && ev.IsTouch() {
		a.swallow = false
		return
	}

	switch ev.Kind {
	case input.SwipeLeft, input.Next:
		a.screens.Next(now)
	case input.SwipeRight, input.Prev:
		a.screens.Prev(now)
	case input.Quit:
		a.quit = true
	case input.Tap:
		a.apply(a.screens.HandleInput(ev))
	}
}

func (a *App) apply(act screen.Action) {
	if act.Kind == screen.NoAction {
		return
	}
	a.log.Debug().Str("action", act.Kind.String()).Msg("settings action")

	switch act.Kind {
	case screen.ChangeTheme:
		a.canvas.SetTheme(theme.Get(act.Theme))
	case screen.SetBrightness:
		if a.backlight != nil {
			if err := a.backlight.SetPercent(act.Value); err != nil {
				a.log.Warn().Err(err).Int("brightness", act.Value).Msg("failed to set brightness")
			}
		}
	case screen.Lock:
		a.persist()
	}
}

func (a *App) persist() {
	if a.store == nil {
		return
	}
	if err := a.store.Save(*a.settings); err != nil {
		var coded errors.Error
		if errors.As(err, &coded) {
			a.log.ErrorWithCode(coded).Msg("failed to save settings")
		} else {
			a.log.Error().Err(err).Msg("failed to save settings")
		}
		return
	}
	a.log.Info().Str("theme", a.settings.Theme).Msg("settings saved")
}

func (a *App) checkTimeout(now time.Time) {
	if a.asleep || a.settings.ScreenTimeout <= 0 {
		return
	}
	if now.Sub(a.lastInput) >= time.Duration(a.settings.ScreenTimeout)*time.Minute {
		a.sleep()
	}
}

func (a *App) sleep() {
	a.asleep = true
	a.log.Info().Int("timeout_min", a.settings.ScreenTimeout).Msg("display sleeping")

	if a.backlight != nil {
		err := a.backlight.Sleep()
		if err == nil {
			return
		}
		a.log.Debug().Err(err).Msg("backlight sleep unavailable, blanking frame")
	}
	img := a.canvas.Image()
	clear(img.Pix)
	if err := a.sink.Flush(img); err != nil {
		a.log.Debug().Err(err).Msg("failed to blank display")
	}
}

func (a *App) wake() {
	a.asleep = false
	a.log.Info().Msg("display waking")

	if a.backlight != nil {
		if err := a.backlight.Wake(a.settings.Brightness); err != nil {
			a.log.Debug().Err(err).Msg("backlight wake failed")
		}
	}
	if inv, ok := a.sink.(invalidator); ok {
		inv.Invalidate()
	}
}

func (a *App) render() {
	c := a.canvas
	a.screens.Render(c)
	c.Indicators(a.screens.Len(), a.screens.Index())
	if a.settings.Scanlines {
		c.Scanlines()
	}
	if a.settings.ShowFPS {
		c.FPS(a.meter.rate)
	}

	if err := a.sink.Flush(c.Image()); err != nil {
		if !a.flushError {
			a.log.Error().Err(err).Msg("failed to flush frame")
		}
		a.flushError = true
		return
	}
	a.flushError = false
}

func (a *App) shutdown() {
	a.pihole.Wait()
	a.system.Wait()

	if a.backlight != nil {
		if err := a.backlight.Wake(a.settings.Brightness); err != nil {
			a.log.Debug().Err(err).Msg("backlight restore failed")
		}
	}
	if err := a.sink.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close display")
	}
	a.log.Info().Msg("Exiting...")
}

// meter measures the achieved frame rate over one-second windows.
type meter struct {
	start  time.Time
	frames int
	rate   float64
}

func (m *meter) reset(now time.Time) {
	m.start, m.frames = now, 0
}

func (m *meter) tick(now time.Time) {
	m.frames++
	if d := now.Sub(m.start); d >= time.Second {
		m.rate = float64(m.frames) / d.Seconds()
		m.reset(now)
	}
}
