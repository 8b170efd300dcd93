package monitor

import "codeberg.org/tessen/smcmon/internal/errors"

const (
	ErrFanIndexOutOfRange = errors.ErrorCode("monitor_fan_index_out_of_range")
	ErrGpuStatsFailed     = errors.ErrorCode("monitor_gpu_stats_failed")
	ErrFallbackExhausted  = errors.ErrorCode("fallback_exhausted")
)

func errFanIndex(index int) error {
	return errors.New().WithData(ErrFanIndexOutOfRange, index)
}
