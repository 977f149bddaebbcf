package sysinfo

import "codeberg.org/mutker/cutiepi/internal/errors"

const ErrProbe errors.ErrorCode = "system_probe_failed"

var errFactory = errors.New()
