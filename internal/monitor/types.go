package monitor

// FanInfo is a snapshot of one fan's state.
type FanInfo struct {
	Index      int
	SpeedRPM   float64
	MinRPM     float64
	MaxRPM     float64
	Percentage float64
}

// ThermalInfo is a best-effort aggregate of the machine's thermal sensors.
// CPUTemp is always populated; a failure reading it fails the whole
// aggregate. The optional fields are nil when their sensor is missing or
// failed, which is expected on many machines and not an error.
type ThermalInfo struct {
	CPUTemp      float64
	GPUTemp      *float64
	AmbientTemp  *float64
	BatteryTemp  *float64
	HeatsinkTemp *float64
	CPUPower     *float64
	Throttling   bool
	FanCount     int
	Fans         []FanInfo
}

// GpuStats describes the GPU by identity and memory, read from the device
// registry rather than any compute API.
type GpuStats struct {
	Name        string
	Utilization float64
	MemoryUsed  uint64
	MemoryTotal uint64
}

// fanPercentage maps a speed inside [min, max] onto 0-100. A zero or
// inverted span reports 0 rather than dividing by zero.
func fanPercentage(speed, minRPM, maxRPM float64) float64 {
	if maxRPM <= minRPM {
		return 0.0
	}

	pct := (speed - minRPM) / (maxRPM - minRPM) * 100.0
	if pct < 0 {
		return 0.0
	}
	if pct > 100 {
		return 100.0
	}

	return pct
}
