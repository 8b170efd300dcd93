package smc

import "codeberg.org/tessen/smcmon/internal/errors"

const (
	// Transport errors
	ErrServiceNotFound  = errors.ErrorCode("smc_service_not_found")
	ErrConnectionFailed = errors.ErrorCode("smc_connection_failed")
	ErrKeyInfoFailed    = errors.ErrorCode("smc_key_info_failed")
	ErrKeyReadFailed    = errors.ErrorCode("smc_key_read_failed")
	ErrCloseFailed      = errors.ErrorCode("smc_close_failed")

	// Decoder errors
	ErrUnsupportedType = errors.ErrorCode("smc_unsupported_type")
	ErrValueTruncated  = errors.ErrorCode("smc_value_truncated")

	// Key errors
	ErrInvalidKey = errors.ErrorCode("smc_invalid_key")
)

// OSCodeContext carries the kernel return code of a failed native call.
type OSCodeContext struct {
	Key    string
	OSCode int32
}

// TypeContext carries the key and type tag of an undecodable value.
type TypeContext struct {
	Key string
	Tag string
}
