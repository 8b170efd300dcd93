// Package monitor defines the capability interfaces the rest of the system
// reads hardware state through, with one production backend over the SMC
// transport and registry broker, and one deterministic backend for tests.
package monitor

// TemperatureMonitor reads the primary CPU temperature in Celsius.
type TemperatureMonitor interface {
	Temperature() (float64, error)
}

// FanMonitor enumerates fans and reads per-fan speed data.
type FanMonitor interface {
	FanCount() (int, error)
	FanInfo(index int) (FanInfo, error)
}

// ThermalAggregateMonitor assembles a best-effort thermal snapshot from many
// individual sensors in one call.
type ThermalAggregateMonitor interface {
	ThermalInfo() (ThermalInfo, error)
}

// PowerMonitor reads the CPU package power draw in watts.
type PowerMonitor interface {
	Power() (float64, error)
}
