package telemetry

import (
	"context"
	"time"
)

// Collector is the recording surface the daemon loop writes to.
type Collector interface {
	Record(ctx context.Context, reading *Reading) error
	Close() error
}

// Repository persists readings.
type Repository interface {
	Record(reading *Reading) error
	Close() error
}

// Reading is one sampled thermal state. Optional sensors are nil when the
// hardware did not report them; they are stored as SQL NULLs.
type Reading struct {
	Timestamp    time.Time
	CPUTemp      float64
	GPUTemp      *float64
	AmbientTemp  *float64
	BatteryTemp  *float64
	HeatsinkTemp *float64
	CPUPower     *float64
	Throttling   bool
	FanCount     int
	MaxFanRPM    float64
}
