package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"

	"codeberg.org/mutker/cutiepi/internal/app"
	"codeberg.org/mutker/cutiepi/internal/config"
	"codeberg.org/mutker/cutiepi/internal/display"
	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/input"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/logger"
	"codeberg.org/mutker/cutiepi/internal/pid"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"codeberg.org/mutker/cutiepi/internal/sysinfo"
	"codeberg.org/mutker/cutiepi/internal/theme"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const eventBuffer = 64

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "cutiepi",
		Short:         "Pi-hole dashboard for small framebuffer touchscreens",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []config.Option{config.WithFlags(cmd.Flags())}
			if configPath != "" {
				opts = append(opts, config.WithConfigFile(configPath))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultPath+")")
	f.String("api", "", "Pi-hole API base URL")
	f.String("theme", "", "initial theme, see 'cutiepi themes'")
	f.Int("fps", 0, "target frame rate")
	f.String("framebuffer", "", "framebuffer device")
	f.String("input", "", "comma separated input devices (default: all)")
	f.String("snapshot", "", "render into this PNG file instead of the framebuffer")
	f.String("log-level", "", "debug, info, warning or error")
	f.Bool("debug", false, "enable debug logging")
	f.Bool("verbose", false, "enable info logging")

	cmd.AddCommand(newThemesCmd(), newVersionCmd())

	return cmd
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available themes",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, id := range theme.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", id, theme.Get(id).Style())
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cutiepi %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func initLogger(cfg config.Provider) {
	logger.Init(cfg.IsDebug(), cfg.IsVerbose(), logger.IsService())
	if cfg.IsDebug() || cfg.IsVerbose() {
		return
	}
	level, err := logger.ParseLevel(cfg.GetLogLevel().String())
	if err != nil {
		logger.Warn().Err(err).Msg("invalid log level")
	}
	logger.SetLogLevel(level)
}

func run(parent context.Context, cfg config.Provider) error {
	initLogger(cfg)
	logger.Debug().Str("path", cfg.GetPath()).Msg("Config loaded")

	pidFile := pid.New()
	if err := pidFile.Write(); err != nil {
		logger.Error().Err(err).Msg("failed to write PID file")
		return err
	}
	defer func() {
		if err := pidFile.Remove(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	go handleSignals(ctx, cancel)

	sink, backlight, err := openDisplay(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open display")
		return err
	}

	size := sink.Size()
	l := layout.New(image.Pt(layout.DesignWidth, layout.DesignHeight), size)
	fonts, err := gfx.LoadFonts(l, cfg.GetFont())
	if err != nil {
		_ = sink.Close()
		return err
	}
	defer fonts.Close()
	settings := cfg.GetSettings()
	canvas := gfx.NewCanvas(l, theme.Get(settings.Theme), fonts)

	events := make(chan input.Event, eventBuffer)
	stopInput := startInput(ctx, cfg, size, events)
	defer stopInput()

	client := pihole.NewClient(cfg.GetAPIURL(), cfg.GetPassword())
	opts := app.Options{
		Canvas:         canvas,
		Sink:           sink,
		Store:          config.NewStore(cfg.GetPath()),
		Pihole:         pihole.NewSource(client, pihole.DefaultTopCount),
		System:         sysinfo.NewSource(sysinfo.NewCollector()),
		Events:         events,
		Settings:       settings,
		FPS:            cfg.GetFPS(),
		SystemInterval: cfg.GetSystemInterval(),
		Version:        Version,
	}
	if backlight != nil {
		opts.Backlight = backlight
	}
	dash, err := app.New(opts)
	if err != nil {
		_ = sink.Close()
		return err
	}

	logger.Info().
		Str("api", cfg.GetAPIURL()).
		Int("width", size.X).
		Int("height", size.Y).
		Float64("scale", l.Factor()).
		Msg("starting dashboard")

	if err := dash.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
		return err
	}

	return nil
}

// openDisplay picks the PNG sink in snapshot mode and the framebuffer
// otherwise. The backlight is nil in snapshot mode.
func openDisplay(cfg config.Provider) (display.Sink, *display.Backlight, error) {
	width, height := cfg.GetScreenSize()
	if path := cfg.GetSnapshot(); path != "" {
		return display.NewPNG(path, image.Pt(width, height)), nil, nil
	}

	dev := cfg.GetFramebuffer()
	fb, err := display.OpenFramebuffer(dev)
	if err != nil {
		return nil, nil, err
	}
	if f := fb.Format(); f.Width != width || f.Height != height {
		logger.Info().
			Int("width", f.Width).
			Int("height", f.Height).
			Int("bpp", f.BitsPerPixel).
			Msg("framebuffer size differs from configured size, using framebuffer")
	}

	return fb, display.NewBacklight(display.DefaultSysRoot, filepath.Base(dev)), nil
}

// startInput runs a reader per device and returns a func that stops them.
func startInput(ctx context.Context, cfg config.Provider, size image.Point, out chan<- input.Event) func() {
	ctx, cancel := context.WithCancel(ctx)
	devs := input.OpenAll(cfg.GetInputs(), size, cfg.GetSwipeThreshold())

	var wg sync.WaitGroup
	for _, d := range devs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.Run(ctx, out); err != nil {
				logger.Warn().Err(err).Str("device", d.Path()).Msg("input device stopped")
			}
		}()
	}

	return func() {
		cancel()
		for _, d := range devs {
			if err := d.Close(); err != nil {
				logger.Debug().Err(err).Str("device", d.Path()).Msg("failed to close input device")
			}
		}
		wg.Wait()
	}
}

func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal.")
		cancel()
	case <-ctx.Done():
	}
}
