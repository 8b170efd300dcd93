//go:build !darwin

package frequency

import "codeberg.org/tessen/smcmon/internal/errors"

func sysctlMHz() (float64, error) {
	return 0, errors.New().WithMessage(ErrNoFrequency, "hw.cpufrequency sysctl is darwin only")
}
