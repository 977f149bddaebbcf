package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/cutiepi/internal/errors"
	"github.com/spf13/viper"
)

const (
	DefaultPath      = "/etc/cutie-pi/cutie-pi.conf"
	DefaultEnvPrefix = "CUTIE"
	DefaultLogLevel  = LogLevelWarning
)

// Keys, without the env prefix.
const (
	keyAPI            = "pihole_api"
	keyPassword       = "pihole_password"
	keyWidth          = "screen_width"
	keyHeight         = "screen_height"
	keyFPS            = "fps"
	keyTheme          = "theme"
	keyAPIInterval    = "api_interval"
	keySystemInterval = "system_interval"
	keySwipe          = "swipe_threshold"
	keyTimeout        = "screen_timeout"
	keyScanlines      = "scanlines"
	keyShowFPS        = "show_fps"
	keyBrightness     = "brightness"
	keyFramebuffer    = "framebuffer"
	keyInput          = "input"
	keyFont           = "font"
	keySnapshot       = "snapshot"
	keyLogLevel       = "log_level"
	keyDebug          = "debug"
	keyVerbose        = "verbose"
)

var defaults = map[string]any{
	keyAPI:            "http://localhost/api",
	keyPassword:       "",
	keyWidth:          480,
	keyHeight:         320,
	keyFPS:            30,
	keyTheme:          "default",
	keyAPIInterval:    5,
	keySystemInterval: 2,
	keySwipe:          50,
	keyTimeout:        0,
	keyScanlines:      true,
	keyShowFPS:        false,
	keyBrightness:     100,
	keyFramebuffer:    "/dev/fb0",
	keyInput:          "",
	keyFont:           "",
	keySnapshot:       "",
	keyLogLevel:       string(DefaultLogLevel),
	keyDebug:          false,
	keyVerbose:        false,
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"api":         keyAPI,
	"theme":       keyTheme,
	"fps":         keyFPS,
	"framebuffer": keyFramebuffer,
	"input":       keyInput,
	"snapshot":    keySnapshot,
	"log-level":   keyLogLevel,
	"debug":       keyDebug,
	"verbose":     keyVerbose,
}

type Config struct {
	Path           string
	APIURL         string
	Password       string
	Width          int
	Height         int
	FPS            int
	SystemInterval int
	SwipeThreshold int
	Framebuffer    string
	Inputs         []string
	Font           string
	Snapshot       string
	LogLevel       LogLevel
	Debug          bool
	Verbose        bool
	Settings       Settings
}

var _ Provider = (*Config)(nil)

// Load reads the config file, then applies environment and flag overrides.
func Load(opts ...Option) (*Config, error) {
	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	key := func(k string) string { return strings.ToLower(o.envPrefix) + "_" + k }

	for k, d := range defaults {
		v.SetDefault(key(k), d)
	}
	v.AutomaticEnv()

	if o.flags != nil {
		for name, k := range flagKeys {
			f := o.flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key(k), f); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	path := resolvePath(o)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err).WithData(path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err).WithData(path)
	}

	cfg := &Config{
		Path:           path,
		APIURL:         strings.TrimRight(v.GetString(key(keyAPI)), "/"),
		Password:       v.GetString(key(keyPassword)),
		Width:          v.GetInt(key(keyWidth)),
		Height:         v.GetInt(key(keyHeight)),
		FPS:            v.GetInt(key(keyFPS)),
		SystemInterval: v.GetInt(key(keySystemInterval)),
		SwipeThreshold: v.GetInt(key(keySwipe)),
		Framebuffer:    v.GetString(key(keyFramebuffer)),
		Inputs:         splitList(v.GetString(key(keyInput))),
		Font:           v.GetString(key(keyFont)),
		Snapshot:       v.GetString(key(keySnapshot)),
		LogLevel:       LogLevel(strings.ToLower(v.GetString(key(keyLogLevel)))),
		Debug:          v.GetBool(key(keyDebug)),
		Verbose:        v.GetBool(key(keyVerbose)),
		Settings: Settings{
			Theme:         v.GetString(key(keyTheme)),
			Scanlines:     v.GetBool(key(keyScanlines)),
			ShowFPS:       v.GetBool(key(keyShowFPS)),
			Brightness:    v.GetInt(key(keyBrightness)),
			APIInterval:   v.GetInt(key(keyAPIInterval)),
			ScreenTimeout: v.GetInt(key(keyTimeout)),
			Locked:        true,
		},
	}
	if cfg.LogLevel == "warn" {
		cfg.LogLevel = LogLevelWarning
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Settings = cfg.Settings.Normalize()

	return cfg, nil
}

// Validate checks values that would make the dashboard unusable.
func (c *Config) Validate() error {
	var errs []error

	if !c.LogLevel.IsValid() {
		return errFactory.Wrap(errors.ErrInvalidLogLevel,
			&fieldError{field: keyLogLevel, value: c.LogLevel, reason: "unknown level"})
	}
	if c.FPS <= 0 {
		errs = append(errs, &fieldError{field: keyFPS, value: c.FPS, reason: "must be positive"})
	}
	if c.Settings.APIInterval <= 0 {
		errs = append(errs, &fieldError{field: keyAPIInterval, value: c.Settings.APIInterval, reason: "must be positive"})
	}
	if c.SystemInterval <= 0 {
		errs = append(errs, &fieldError{field: keySystemInterval, value: c.SystemInterval, reason: "must be positive"})
	}
	if c.Settings.ScreenTimeout < 0 {
		errs = append(errs, &fieldError{field: keyTimeout, value: c.Settings.ScreenTimeout, reason: "must not be negative"})
	}
	if c.SwipeThreshold <= 0 {
		errs = append(errs, &fieldError{field: keySwipe, value: c.SwipeThreshold, reason: "must be positive"})
	}
	if c.APIURL == "" {
		errs = append(errs, &fieldError{field: keyAPI, value: c.APIURL, reason: "must not be empty"})
	}

	if len(errs) > 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

func (c *Config) GetAPIURL() string         { return c.APIURL }
func (c *Config) GetPassword() string       { return c.Password }
func (c *Config) GetScreenSize() (int, int) { return c.Width, c.Height }
func (c *Config) GetFPS() int               { return c.FPS }
func (c *Config) GetSwipeThreshold() int    { return c.SwipeThreshold }
func (c *Config) GetFramebuffer() string    { return c.Framebuffer }
func (c *Config) GetInputs() []string       { return c.Inputs }
func (c *Config) GetFont() string           { return c.Font }
func (c *Config) GetSnapshot() string       { return c.Snapshot }
func (c *Config) GetLogLevel() LogLevel     { return c.LogLevel }
func (c *Config) IsDebug() bool             { return c.Debug }
func (c *Config) IsVerbose() bool           { return c.Verbose }
func (c *Config) GetSettings() Settings     { return c.Settings }
func (c *Config) GetPath() string           { return c.Path }

func (c *Config) GetSystemInterval() time.Duration {
	return time.Duration(c.SystemInterval) * time.Second
}

func resolvePath(o *options) string {
	if o.configPath != "" {
		return o.configPath
	}
	if p := os.Getenv(o.envPrefix + "_CONFIG"); p != "" {
		return p
	}

	return DefaultPath
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
