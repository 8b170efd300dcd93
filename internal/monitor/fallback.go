package monitor

import (
	"fmt"

	"codeberg.org/tessen/smcmon/internal/errors"
)

// FallbackExhaustedError reports that both acquisition paths for a metric
// failed. The primary error is never discarded; both are carried for
// diagnostics.
type FallbackExhaustedError struct {
	Primary   error
	Secondary error
}

func (e *FallbackExhaustedError) Error() string {
	return fmt.Sprintf("all acquisition paths failed: primary: %v; secondary: %v", e.Primary, e.Secondary)
}

// Resolve tries the primary acquisition path and, on failure, the
// secondary. When both fail the returned error wraps a
// FallbackExhaustedError carrying both causes.
func Resolve[T any](primary, secondary func() (T, error)) (T, error) {
	v, primaryErr := primary()
	if primaryErr == nil {
		return v, nil
	}

	v, secondaryErr := secondary()
	if secondaryErr == nil {
		return v, nil
	}

	var zero T
	return zero, errors.New().Wrap(ErrFallbackExhausted, &FallbackExhaustedError{
		Primary:   primaryErr,
		Secondary: secondaryErr,
	})
}
