package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Provider defines the interface for accessing configuration values.
// All values are immutable after loading; runtime changes go through Settings.
type Provider interface {
	// GetAPIURL returns the Pi-hole API base URL
	GetAPIURL() string

	// GetPassword returns the Pi-hole application password, empty for none
	GetPassword() string

	// GetScreenSize returns the configured screen size in pixels
	GetScreenSize() (width, height int)

	// GetFPS returns the target frame rate
	GetFPS() int

	// GetSystemInterval returns how often system stats are sampled
	GetSystemInterval() time.Duration

	// GetSwipeThreshold returns the minimum horizontal travel of a swipe
	GetSwipeThreshold() int

	// GetFramebuffer returns the framebuffer device path
	GetFramebuffer() string

	// GetInputs returns the input devices to read, empty for all
	GetInputs() []string

	// GetFont returns the TrueType font path, empty for the built-in face
	GetFont() string

	// GetSnapshot returns the PNG path used instead of the framebuffer, if any
	GetSnapshot() string

	// GetLogLevel returns the configured logging level
	GetLogLevel() LogLevel

	// IsDebug and IsVerbose report the logging overrides
	IsDebug() bool
	IsVerbose() bool

	// GetSettings returns the runtime-adjustable settings as loaded
	GetSettings() Settings

	// GetPath returns the config file the values were read from
	GetPath() string
}

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
	flags      *pflag.FlagSet
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom key prefix.
// Default is "CUTIE"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		if prefix == "" {
			return errFactory.WithData(ErrInvalidOption, "empty env prefix")
		}
		o.envPrefix = prefix
		return nil
	}
}

// WithFlags binds command line flags that override file and environment values.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *options) error {
		o.flags = fs
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// ValidationError represents a configuration validation error
type ValidationError interface {
	error
	// Field returns the name of the invalid field
	Field() string
	// Value returns the invalid value
	Value() interface{}
	// Reason returns why the value is invalid
	Reason() string
}

type fieldError struct {
	field  string
	value  interface{}
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.field, e.value, e.reason)
}

func (e *fieldError) Field() string      { return e.field }
func (e *fieldError) Value() interface{} { return e.value }
func (e *fieldError) Reason() string     { return e.reason }
