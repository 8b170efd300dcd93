//go:build darwin

package frequency

import (
	"golang.org/x/sys/unix"

	"codeberg.org/tessen/smcmon/internal/errors"
)

// sysctlMHz reads hw.cpufrequency, which reports Hz.
func sysctlMHz() (float64, error) {
	hz, err := unix.SysctlUint64("hw.cpufrequency")
	if err != nil {
		return 0, errors.New().Wrap(ErrNoFrequency, err)
	}
	if hz == 0 {
		return 0, errors.New().WithMessage(ErrNoFrequency, "hw.cpufrequency reports zero")
	}

	return float64(hz) / 1e6, nil
}
