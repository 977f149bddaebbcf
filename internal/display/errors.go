package display

import "codeberg.org/mutker/cutiepi/internal/errors"

const (
	ErrOpenFramebuffer errors.ErrorCode = "framebuffer_open_failed"
	ErrScreenInfo      errors.ErrorCode = "framebuffer_info_failed"
	ErrMap             errors.ErrorCode = "framebuffer_map_failed"
	ErrPixelFormat     errors.ErrorCode = "unsupported_pixel_format"
	ErrWriteSnapshot   errors.ErrorCode = "snapshot_write_failed"
	ErrNoBacklight     errors.ErrorCode = "backlight_not_found"
	ErrBacklight       errors.ErrorCode = "backlight_write_failed"
)

var errFactory = errors.New()
