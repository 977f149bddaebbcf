package config

import "codeberg.org/mutker/cutiepi/internal/errors"

const (
	ErrInvalidOption errors.ErrorCode = "invalid_config_option"
	ErrSaveSettings  errors.ErrorCode = "save_settings_failed"
)

var errFactory = errors.New()
