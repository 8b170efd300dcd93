package monitor_test

import (
	"testing"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/ioreg"
	"codeberg.org/tessen/smcmon/internal/monitor"
	"codeberg.org/tessen/smcmon/internal/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport serves readings from a map without any native calls.
type stubTransport struct {
	readings map[smc.Key]float64
	failures map[smc.Key]error
}

func (s *stubTransport) Read(key smc.Key) (float64, error) {
	if err, ok := s.failures[key]; ok {
		return 0, err
	}
	v, ok := s.readings[key]
	if !ok {
		return 0, errors.New().WithData(smc.ErrKeyInfoFailed, smc.OSCodeContext{Key: key.String(), OSCode: -1})
	}
	return v, nil
}

type stubOps struct {
	services   map[string]uint32
	properties map[uint32]map[string]any
}

func (s *stubOps) MatchingService(name string) (uint32, error) { return s.services[name], nil }
func (s *stubOps) Properties(id uint32) (map[string]any, error) {
	return s.properties[id], nil
}
func (s *stubOps) Parent(uint32) (uint32, error) { return 0, nil }
func (s *stubOps) Release(uint32)                {}

func emptyBroker() ioreg.Broker {
	return ioreg.NewBrokerWith(&stubOps{services: map[string]uint32{}})
}

func TestThermalInfoBestEffort(t *testing.T) {
	transport := &stubTransport{
		readings: map[smc.Key]float64{
			smc.KeyCPUTemp:     62.5,
			smc.KeyGPUTemp:     55.0,
			smc.KeyCPUPower:    18.25,
			smc.KeyCPUThrottle: 0,
			smc.KeyFanCount:    1,
			smc.FanSpeedKey(0): 2400,
			smc.FanMinKey(0):   1200,
			smc.FanMaxKey(0):   5600,
		},
		failures: map[smc.Key]error{
			// Ambient sensor missing on this machine.
			smc.KeyAmbientTemp: errors.New().WithData(smc.ErrKeyInfoFailed, smc.OSCodeContext{Key: "TA0P"}),
		},
	}

	hw := monitor.NewHardware(transport, emptyBroker())
	info, err := hw.ThermalInfo()
	require.NoError(t, err)

	assert.Equal(t, 62.5, info.CPUTemp)
	require.NotNil(t, info.GPUTemp)
	assert.Equal(t, 55.0, *info.GPUTemp)
	assert.Nil(t, info.AmbientTemp, "failed optional sensor degrades to absent")
	assert.Nil(t, info.BatteryTemp)
	require.NotNil(t, info.CPUPower)
	assert.Equal(t, 18.25, *info.CPUPower)
	assert.False(t, info.Throttling)

	require.Len(t, info.Fans, 1)
	assert.Equal(t, 2400.0, info.Fans[0].SpeedRPM)
	assert.InDelta(t, 27.27, info.Fans[0].Percentage, 0.01)
}

func TestThermalInfoRequiredSensorFailure(t *testing.T) {
	transport := &stubTransport{
		readings: map[smc.Key]float64{smc.KeyGPUTemp: 50},
		failures: map[smc.Key]error{
			smc.KeyCPUTemp: errors.New().WithData(smc.ErrKeyReadFailed, smc.OSCodeContext{Key: "TC0P", OSCode: -1}),
		},
	}

	hw := monitor.NewHardware(transport, emptyBroker())
	_, err := hw.ThermalInfo()
	require.Error(t, err, "required sensor failure fails the whole aggregate")
	assert.True(t, errors.HasCode(err, smc.ErrKeyReadFailed))
}

func TestFanPercentageZeroSpan(t *testing.T) {
	transport := &stubTransport{
		readings: map[smc.Key]float64{
			smc.FanSpeedKey(0): 2000,
			smc.FanMinKey(0):   2000,
			smc.FanMaxKey(0):   2000,
		},
	}

	hw := monitor.NewHardware(transport, emptyBroker())
	fan, err := hw.FanInfo(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fan.Percentage, "equal min and max must not divide by zero")
}

func TestFanPercentageClamped(t *testing.T) {
	transport := &stubTransport{
		readings: map[smc.Key]float64{
			smc.FanSpeedKey(0): 7000,
			smc.FanMinKey(0):   1000,
			smc.FanMaxKey(0):   5000,
		},
	}

	hw := monitor.NewHardware(transport, emptyBroker())
	fan, err := hw.FanInfo(0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, fan.Percentage)
}

func TestFanInfoMissingLimits(t *testing.T) {
	transport := &stubTransport{
		readings: map[smc.Key]float64{smc.FanSpeedKey(0): 1800},
	}

	hw := monitor.NewHardware(transport, emptyBroker())
	fan, err := hw.FanInfo(0)
	require.NoError(t, err)
	assert.Equal(t, 1800.0, fan.SpeedRPM)
	assert.Equal(t, 0.0, fan.Percentage)
}

func TestThrottlingFlag(t *testing.T) {
	transport := &stubTransport{
		readings: map[smc.Key]float64{
			smc.KeyCPUTemp:     95,
			smc.KeyCPUThrottle: 1,
		},
	}

	hw := monitor.NewHardware(transport, emptyBroker())
	info, err := hw.ThermalInfo()
	require.NoError(t, err)
	assert.True(t, info.Throttling)
}

func TestGpuStatsFromRegistry(t *testing.T) {
	ops := &stubOps{
		services: map[string]uint32{"IOAccelerator": 11},
		properties: map[uint32]map[string]any{
			11: {
				"model":                 "AGXAcceleratorG14X",
				"Device Utilization %":  int64(37),
				"gpu-core-memory-total": int64(8 << 30),
				"gpu-core-memory-used":  int64(2 << 30),
			},
		},
	}

	hw := monitor.NewHardware(&stubTransport{}, ioreg.NewBrokerWith(ops))
	stats, err := hw.GpuStats()
	require.NoError(t, err)
	assert.Equal(t, "AGXAcceleratorG14X", stats.Name)
	assert.Equal(t, 37.0, stats.Utilization)
	assert.Equal(t, uint64(8<<30), stats.MemoryTotal)
	assert.Equal(t, uint64(2<<30), stats.MemoryUsed)
}

func TestGpuStatsServiceMissing(t *testing.T) {
	hw := monitor.NewHardware(&stubTransport{}, emptyBroker())
	_, err := hw.GpuStats()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ioreg.ErrServiceNotFound))
}
