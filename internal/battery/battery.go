// Package battery reads battery health and charge state from the
// AppleSmartBattery registry entry. It consumes only the registry broker
// and the cache layer; the service handle is long-lived and parked in the
// resource pool so shutdown releases it exactly once.
package battery

import (
	"time"

	"codeberg.org/tessen/smcmon/internal/cache"
	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/ioreg"
)

const (
	serviceName = "AppleSmartBattery"
	poolClass   = "battery"
	cacheMetric = "battery.snapshot"

	// AppleSmartBattery reports Temperature in hundredths of a degree.
	temperatureScale = 100.0
)

const (
	ErrNoBattery       = errors.ErrorCode("battery_not_present")
	ErrMissingField    = errors.ErrorCode("battery_missing_field")
	ErrInvalidCapacity = errors.ErrorCode("battery_invalid_capacity")
)

// Snapshot is one point-in-time view of the battery.
type Snapshot struct {
	Percentage    float64
	Charging      bool
	ExternalPower bool
	FullyCharged  bool
	CycleCount    int
	Temperature   *float64
}

// Monitor reads battery snapshots with TTL caching.
type Monitor struct {
	broker ioreg.Broker
	store  *cache.Store
	pool   *cache.Pool
	ttl    time.Duration
}

// NewMonitor builds a battery monitor. ttl bounds how often the registry is
// queried for a fresh snapshot.
func NewMonitor(broker ioreg.Broker, store *cache.Store, pool *cache.Pool, ttl time.Duration) *Monitor {
	return &Monitor{broker: broker, store: store, pool: pool, ttl: ttl}
}

// Snapshot returns the cached battery state, refreshing it when stale.
func (m *Monitor) Snapshot() (Snapshot, error) {
	return cache.GetOrRefresh(m.store, cacheMetric, m.ttl, m.fetch)
}

func (m *Monitor) fetch() (Snapshot, error) {
	handle, err := m.handle()
	if err != nil {
		return Snapshot{}, err
	}

	props, err := handle.Properties()
	if err != nil {
		// The pooled handle may have been released under us (pool
		// replacement or shutdown race); re-acquire once.
		if !errors.HasCode(err, ioreg.ErrHandleReleased) {
			return Snapshot{}, err
		}
		if handle, err = m.acquire(); err != nil {
			return Snapshot{}, err
		}
		if props, err = handle.Properties(); err != nil {
			return Snapshot{}, err
		}
	}
	defer props.Release()

	return buildSnapshot(props)
}

func (m *Monitor) handle() (*ioreg.Handle, error) {
	if r, ok := m.pool.Get(poolClass); ok {
		if h, ok := r.(*ioreg.Handle); ok && !h.Released() {
			return h, nil
		}
	}

	return m.acquire()
}

func (m *Monitor) acquire() (*ioreg.Handle, error) {
	h, err := m.broker.Acquire(ioreg.Match(serviceName))
	if err != nil {
		return nil, err
	}
	m.pool.Store(poolClass, h)

	return h, nil
}

func buildSnapshot(props *ioreg.PropertySnapshot) (Snapshot, error) {
	errFactory := errors.New()

	if installed, ok := props.Bool("BatteryInstalled"); ok && !installed {
		return Snapshot{}, errFactory.New(ErrNoBattery)
	}

	current, ok := props.Number("CurrentCapacity")
	if !ok {
		return Snapshot{}, errFactory.WithData(ErrMissingField, "CurrentCapacity")
	}
	maxCap, ok := props.Number("MaxCapacity")
	if !ok {
		return Snapshot{}, errFactory.WithData(ErrMissingField, "MaxCapacity")
	}
	if maxCap <= 0 {
		return Snapshot{}, errFactory.WithData(ErrInvalidCapacity, maxCap)
	}

	s := Snapshot{
		Percentage: current / maxCap * 100.0,
	}

	if v, ok := props.Bool("IsCharging"); ok {
		s.Charging = v
	}
	if v, ok := props.Bool("ExternalConnected"); ok {
		s.ExternalPower = v
	}
	if v, ok := props.Bool("FullyCharged"); ok {
		s.FullyCharged = v
	}
	if v, ok := props.Number("CycleCount"); ok {
		s.CycleCount = int(v)
	}
	if v, ok := props.Number("Temperature"); ok {
		temp := v / temperatureScale
		s.Temperature = &temp
	}

	return s, nil
}
