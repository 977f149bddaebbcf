package input

import "codeberg.org/mutker/cutiepi/internal/errors"

const (
	ErrOpenDevice errors.ErrorCode = "input_open_failed"
	ErrReadDevice errors.ErrorCode = "input_read_failed"
)

var errFactory = errors.New()
