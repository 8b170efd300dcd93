package battery_test

import (
	"testing"
	"time"

	"codeberg.org/tessen/smcmon/internal/battery"
	"codeberg.org/tessen/smcmon/internal/cache"
	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/ioreg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOps struct {
	services map[string]uint32
	props    map[uint32]map[string]any
	reads    int
	releases []uint32
}

func (f *fakeOps) MatchingService(name string) (uint32, error) {
	return f.services[name], nil
}

func (f *fakeOps) Properties(id uint32) (map[string]any, error) {
	f.reads++
	p, ok := f.props[id]
	if !ok {
		return nil, errors.New().WithData(ioreg.ErrPropertyFailed, id)
	}
	return p, nil
}

func (f *fakeOps) Parent(id uint32) (uint32, error) {
	return 0, nil
}

func (f *fakeOps) Release(id uint32) {
	f.releases = append(f.releases, id)
}

func healthyBattery() map[string]any {
	return map[string]any{
		"BatteryInstalled":  true,
		"CurrentCapacity":   int64(4200),
		"MaxCapacity":       int64(5600),
		"IsCharging":        true,
		"ExternalConnected": true,
		"FullyCharged":      false,
		"CycleCount":        int64(312),
		"Temperature":       int64(3045),
	}
}

func newMonitor(ops *fakeOps, ttl time.Duration) (*battery.Monitor, *cache.Pool) {
	pool := cache.NewPool()
	m := battery.NewMonitor(ioreg.NewBrokerWith(ops), cache.NewStore(), pool, ttl)
	return m, pool
}

func TestSnapshotReadsBatteryState(t *testing.T) {
	ops := &fakeOps{
		services: map[string]uint32{"AppleSmartBattery": 11},
		props:    map[uint32]map[string]any{11: healthyBattery()},
	}
	m, _ := newMonitor(ops, time.Minute)

	s, err := m.Snapshot()
	require.NoError(t, err)

	assert.InDelta(t, 75.0, s.Percentage, 0.001)
	assert.True(t, s.Charging)
	assert.True(t, s.ExternalPower)
	assert.False(t, s.FullyCharged)
	assert.Equal(t, 312, s.CycleCount)
	require.NotNil(t, s.Temperature)
	assert.InDelta(t, 30.45, *s.Temperature, 0.001)
}

func TestSnapshotCachedWithinTTL(t *testing.T) {
	ops := &fakeOps{
		services: map[string]uint32{"AppleSmartBattery": 11},
		props:    map[uint32]map[string]any{11: healthyBattery()},
	}
	m, _ := newMonitor(ops, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := m.Snapshot()
		require.NoError(t, err)
	}

	assert.Equal(t, 1, ops.reads, "cached snapshot must not touch the registry")
}

func TestSnapshotReusesPooledHandle(t *testing.T) {
	ops := &fakeOps{
		services: map[string]uint32{"AppleSmartBattery": 11},
		props:    map[uint32]map[string]any{11: healthyBattery()},
	}
	m, _ := newMonitor(ops, 0) // every read is a fresh fetch

	_, err := m.Snapshot()
	require.NoError(t, err)
	_, err = m.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, 2, ops.reads)
	assert.Empty(t, ops.releases, "handle must stay pooled between fetches")
}

func TestSnapshotReacquiresAfterCleanup(t *testing.T) {
	ops := &fakeOps{
		services: map[string]uint32{"AppleSmartBattery": 11},
		props:    map[uint32]map[string]any{11: healthyBattery()},
	}
	m, pool := newMonitor(ops, 0)

	_, err := m.Snapshot()
	require.NoError(t, err)

	pool.Cleanup()

	_, err = m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []uint32{11}, ops.releases)
}

func TestSnapshotMissingService(t *testing.T) {
	ops := &fakeOps{services: map[string]uint32{}}
	m, _ := newMonitor(ops, time.Minute)

	_, err := m.Snapshot()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ioreg.ErrServiceNotFound))
}

func TestSnapshotBatteryNotInstalled(t *testing.T) {
	ops := &fakeOps{
		services: map[string]uint32{"AppleSmartBattery": 11},
		props: map[uint32]map[string]any{11: {
			"BatteryInstalled": false,
		}},
	}
	m, _ := newMonitor(ops, time.Minute)

	_, err := m.Snapshot()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, battery.ErrNoBattery))
}

func TestSnapshotMissingCapacity(t *testing.T) {
	props := healthyBattery()
	delete(props, "MaxCapacity")

	ops := &fakeOps{
		services: map[string]uint32{"AppleSmartBattery": 11},
		props:    map[uint32]map[string]any{11: props},
	}
	m, _ := newMonitor(ops, time.Minute)

	_, err := m.Snapshot()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, battery.ErrMissingField))
}

func TestSnapshotOptionalTemperatureAbsent(t *testing.T) {
	props := healthyBattery()
	delete(props, "Temperature")

	ops := &fakeOps{
		services: map[string]uint32{"AppleSmartBattery": 11},
		props:    map[uint32]map[string]any{11: props},
	}
	m, _ := newMonitor(ops, time.Minute)

	s, err := m.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, s.Temperature)
}
