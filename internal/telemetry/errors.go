package telemetry

import "codeberg.org/tessen/smcmon/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("telemetry_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("telemetry_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("telemetry_schema_validation_failed")
	ErrTransactionFailed      = errors.ErrorCode("telemetry_transaction_failed")

	// Storage Errors
	ErrStorageInit  = errors.ErrInitFailed
	ErrStorageClose = errors.ErrShutdownFailed

	// Recording Errors
	ErrInvalidReading  = errors.ErrorCode("telemetry_invalid_reading")
	ErrRecordingFailed = errors.ErrorCode("telemetry_recording_failed")

	// Operation Errors
	ErrOperationTimeout = errors.ErrTimeout
)
