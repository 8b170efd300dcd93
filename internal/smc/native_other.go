//go:build !darwin || !cgo

package smc

import (
	"codeberg.org/tessen/smcmon/internal/errors"
)

// systemDialer on platforms without the SMC: the service can never be
// matched, so every Dial reports it as absent. Tests run against fake
// dialers and never reach this path.
type systemDialer struct{}

func (systemDialer) Dial() (Conn, error) {
	return nil, errors.New().WithData(ErrServiceNotFound, "AppleSMC")
}
