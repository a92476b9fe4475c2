package mavlink

import "errors"

var (
	ErrChecksumMismatch = errors.New("mavlink: checksum mismatch")
	ErrPayloadDecode    = errors.New("mavlink: payload decode failed")
	ErrPayloadTooLarge  = errors.New("mavlink: payload too large")
	ErrSerialization    = errors.New("mavlink: message serialization failed")
	ErrUnknownMessage   = errors.New("mavlink: unknown message id")
)
