// Package frequency reports the CPU clock in MHz. The kernel sysctl is the
// preferred source; when it is unavailable (Apple Silicon stopped exposing
// hw.cpufrequency) the value falls back to the processor info table.
package frequency

import (
	"github.com/shirou/gopsutil/v3/cpu"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/monitor"
)

const ErrNoFrequency = errors.ErrorCode("frequency_unavailable")

// CurrentMHz returns the CPU frequency in MHz, trying the sysctl path first
// and the processor info table second.
func CurrentMHz() (float64, error) {
	return currentMHz(sysctlMHz, cpuInfoMHz)
}

func currentMHz(primary, secondary func() (float64, error)) (float64, error) {
	return monitor.Resolve(primary, secondary)
}

func cpuInfoMHz() (float64, error) {
	infos, err := cpu.Info()
	if err != nil {
		return 0, errors.New().Wrap(ErrNoFrequency, err)
	}

	for _, info := range infos {
		if info.Mhz > 0 {
			return info.Mhz, nil
		}
	}

	return 0, errors.New().WithMessage(ErrNoFrequency, "processor info reports no frequency")
}
