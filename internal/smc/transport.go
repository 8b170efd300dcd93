package smc

import (
	"codeberg.org/tessen/smcmon/internal/logger"
)

// Transport reads individual sensor values from the SMC.
//
// Every Read is a fully self-contained transaction: the SMC service is
// matched and opened, the key metadata and bytes are queried, and the
// connection is closed again before the call returns. No connection is ever
// shared across calls, so concurrent Reads need no coordination at this
// layer. Calls block in the kernel and cannot be cancelled once issued; a
// caller-side deadline only stops waiting for the result.
type Transport interface {
	Read(key Key) (float64, error)
}

// Conn is a single open connection to the SMC kernel service. The owner must
// call Close exactly once, on every exit path.
type Conn interface {
	KeyInfo(key Key) (KeyInfo, error)
	ReadBytes(key Key, info KeyInfo) (Value, error)
	Close() error
}

// Dialer matches, acquires and opens the SMC service, producing a Conn.
type Dialer interface {
	Dial() (Conn, error)
}

type transport struct {
	dialer Dialer
}

// NewTransport returns a Transport backed by the system SMC service.
func NewTransport() Transport {
	return &transport{dialer: systemDialer{}}
}

// NewTransportWith returns a Transport over a custom dialer. Used by tests
// and by callers that stub out the native layer.
func NewTransportWith(d Dialer) Transport {
	return &transport{dialer: d}
}

func (t *transport) Read(key Key) (float64, error) {
	conn, err := t.dialer.Dial()
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Debug().Str("key", key.String()).Err(cerr).Msg("SMC connection close failed")
		}
	}()

	info, err := conn.KeyInfo(key)
	if err != nil {
		return 0, err
	}

	value, err := conn.ReadBytes(key, info)
	if err != nil {
		return 0, err
	}

	return Decode(key, value)
}
