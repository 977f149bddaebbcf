package logger

import "codeberg.org/mutker/cutiepi/internal/errors"

// Logger defines the interface for logging operations.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
}

type packageLogger struct{}

func (packageLogger) Debug() *LogEvent                         { return Debug() }
func (packageLogger) Info() *LogEvent                          { return Info() }
func (packageLogger) Warn() *LogEvent                          { return Warn() }
func (packageLogger) Error() *LogEvent                         { return Error() }
func (packageLogger) ErrorWithCode(err errors.Error) *LogEvent { return ErrorWithCode(err) }

// Default returns a Logger backed by the package-level logger.
func Default() Logger {
	return packageLogger{}
}

type componentLogger string

func (c componentLogger) Debug() *LogEvent { return Debug().WithComponent(string(c)) }
func (c componentLogger) Info() *LogEvent  { return Info().WithComponent(string(c)) }
func (c componentLogger) Warn() *LogEvent  { return Warn().WithComponent(string(c)) }
func (c componentLogger) Error() *LogEvent { return Error().WithComponent(string(c)) }

func (c componentLogger) ErrorWithCode(err errors.Error) *LogEvent {
	return ErrorWithCode(err).WithComponent(string(c))
}

// Component returns a Logger that tags every event with the given subsystem.
func Component(name string) Logger {
	return componentLogger(name)
}
