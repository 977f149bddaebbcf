package pihole

import "codeberg.org/mutker/cutiepi/internal/errors"

const (
	ErrAuth        errors.ErrorCode = "pihole_auth_failed"
	ErrRequest     errors.ErrorCode = "pihole_request_failed"
	ErrStatus      errors.ErrorCode = "pihole_unexpected_status"
	ErrDecode      errors.ErrorCode = "pihole_decode_failed"
	ErrUnreachable errors.ErrorCode = "pihole_unreachable"
)

var errFactory = errors.New()
