package ioreg

import "codeberg.org/tessen/smcmon/internal/errors"

const (
	// Lifecycle errors
	ErrServiceNotFound = errors.ErrorCode("ioreg_service_not_found")
	ErrHandleReleased  = errors.ErrorCode("ioreg_handle_released")

	// Property errors
	ErrPropertyFailed = errors.ErrorCode("ioreg_property_failed")

	// Hierarchy errors
	ErrParentFailed = errors.ErrorCode("ioreg_parent_failed")
)

// PropertyContext carries the service and property involved in a failure.
type PropertyContext struct {
	Service  string
	Property string
	OSCode   int32
}
