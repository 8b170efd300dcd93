package monitor

import (
	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/ioreg"
	"codeberg.org/tessen/smcmon/internal/logger"
	"codeberg.org/tessen/smcmon/internal/smc"
)

// Hardware is the production backend: temperatures, fans and power come from
// the SMC transport; GPU identity comes from the device registry. It holds
// no native state of its own, so a single instance is safe for concurrent
// use.
type Hardware struct {
	smc smc.Transport
	reg ioreg.Broker
}

// NewHardware builds the production backend over the given transport and
// broker.
func NewHardware(t smc.Transport, b ioreg.Broker) *Hardware {
	return &Hardware{smc: t, reg: b}
}

func (h *Hardware) Temperature() (float64, error) {
	return h.smc.Read(smc.KeyCPUTemp)
}

func (h *Hardware) Power() (float64, error) {
	return h.smc.Read(smc.KeyCPUPower)
}

func (h *Hardware) FanCount() (int, error) {
	count, err := h.smc.Read(smc.KeyFanCount)
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

func (h *Hardware) FanInfo(index int) (FanInfo, error) {
	errFactory := errors.New()

	if index < 0 {
		return FanInfo{}, errFactory.WithData(ErrFanIndexOutOfRange, index)
	}

	speed, err := h.smc.Read(smc.FanSpeedKey(index))
	if err != nil {
		return FanInfo{}, err
	}

	// Min and max are optional: some machines expose only the actual
	// speed. Missing limits zero the span, which reports 0%.
	minRPM := h.optional(smc.FanMinKey(index))
	maxRPM := h.optional(smc.FanMaxKey(index))

	info := FanInfo{
		Index:    index,
		SpeedRPM: speed,
	}
	if minRPM != nil {
		info.MinRPM = *minRPM
	}
	if maxRPM != nil {
		info.MaxRPM = *maxRPM
	}
	info.Percentage = fanPercentage(info.SpeedRPM, info.MinRPM, info.MaxRPM)

	return info, nil
}

// ThermalInfo reads the full thermal snapshot. Only the CPU temperature is
// required; every other sensor degrades to absent when it fails, since lots
// of machines simply lack them.
func (h *Hardware) ThermalInfo() (ThermalInfo, error) {
	cpuTemp, err := h.smc.Read(smc.KeyCPUTemp)
	if err != nil {
		return ThermalInfo{}, err
	}

	info := ThermalInfo{
		CPUTemp:      cpuTemp,
		GPUTemp:      h.optional(smc.KeyGPUTemp),
		AmbientTemp:  h.optional(smc.KeyAmbientTemp),
		BatteryTemp:  h.optional(smc.KeyBatteryTemp),
		HeatsinkTemp: h.optional(smc.KeyHeatsinkTemp),
		CPUPower:     h.optional(smc.KeyCPUPower),
	}

	if throttle := h.optional(smc.KeyCPUThrottle); throttle != nil {
		info.Throttling = *throttle != 0
	}

	if count, err := h.FanCount(); err == nil {
		info.FanCount = count
		for i := 0; i < count; i++ {
			fan, err := h.FanInfo(i)
			if err != nil {
				logger.Debug().Int("fan", i).Err(err).Msg("Fan read failed, skipping")
				continue
			}
			info.Fans = append(info.Fans, fan)
		}
	}

	return info, nil
}

// GpuStats reads GPU identity and memory from the IOAccelerator registry
// entry. The handle and snapshot are scoped to this call.
func (h *Hardware) GpuStats() (GpuStats, error) {
	handle, err := h.reg.Acquire(ioreg.Match("IOAccelerator"))
	if err != nil {
		return GpuStats{}, err
	}
	defer handle.Release()

	snapshot, err := handle.Properties()
	if err != nil {
		return GpuStats{}, err
	}
	defer snapshot.Release()

	var stats GpuStats
	if name, ok := snapshot.String("model"); ok {
		stats.Name = name
	} else if name, ok := snapshot.String("IOGLBundleName"); ok {
		stats.Name = name
	}
	if util, ok := snapshot.Number("Device Utilization %"); ok {
		stats.Utilization = util
	}
	if total, ok := snapshot.Number("gpu-core-memory-total"); ok {
		stats.MemoryTotal = uint64(total)
	}
	if used, ok := snapshot.Number("gpu-core-memory-used"); ok {
		stats.MemoryUsed = uint64(used)
	}

	return stats, nil
}

// optional reads a sensor that is allowed to be missing. Failures are
// logged at debug level and reported as absence.
func (h *Hardware) optional(key smc.Key) *float64 {
	v, err := h.smc.Read(key)
	if err != nil {
		logger.Debug().Str("key", key.String()).Err(err).Msg("Optional sensor unavailable")
		return nil
	}

	return &v
}
