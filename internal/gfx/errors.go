package gfx

import "codeberg.org/mutker/cutiepi/internal/errors"

const (
	ErrLoadFont errors.ErrorCode = "load_font_failed"
)

var errFactory = errors.New()
