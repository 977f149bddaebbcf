package errors

// ErrorCode identifies a failure independent of its message. Packages declare
// their own codes next to an errFactory in errors.go.
type ErrorCode string

// Error is a coded error that can carry a cause, a custom message and a
// context value such as a path or an out-of-range number.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
