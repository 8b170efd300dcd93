package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/tessen/smcmon/internal/battery"
	"codeberg.org/tessen/smcmon/internal/cache"
	"codeberg.org/tessen/smcmon/internal/config"
	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/frequency"
	"codeberg.org/tessen/smcmon/internal/ioreg"
	"codeberg.org/tessen/smcmon/internal/logger"
	"codeberg.org/tessen/smcmon/internal/monitor"
	"codeberg.org/tessen/smcmon/internal/netstat"
	"codeberg.org/tessen/smcmon/internal/pid"
	"codeberg.org/tessen/smcmon/internal/process"
	"codeberg.org/tessen/smcmon/internal/smc"
	"codeberg.org/tessen/smcmon/internal/telemetry"
)

const thermalMetric = "thermal.aggregate"

var (
	cfg      *config.Config
	hardware *monitor.Hardware
	batteryM *battery.Monitor
	store    *cache.Store
	recorder telemetry.Collector
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		if errors.HasCode(err, errors.ErrAlreadyRunning) {
			logger.Fatal().Err(err).Msg("Another smcmon instance is running")
		}
		logger.Fatal().Err(err).Msg("Failed to write pid file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove pid file")
		}
	}()

	transport := smc.NewTransport()
	broker := ioreg.NewBroker()
	hardware = monitor.NewHardware(transport, broker)

	store = cache.NewStore()
	pool := cache.Shared()
	defer pool.Cleanup()

	ttl := time.Duration(cfg.CacheTTL) * time.Second
	batteryM = battery.NewMonitor(broker, store, pool, ttl)

	var err error
	recorder, err = telemetry.NewService(telemetry.Config{
		DBPath:  cfg.TelemetryDB,
		Enabled: cfg.Telemetry,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close telemetry")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}

	logger.Info().Msg("Exiting...")
}

func loop(ctx context.Context) error {
	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ttl := time.Duration(cfg.CacheTTL) * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			thermal, err := cache.GetOrRefresh(store, thermalMetric, ttl, hardware.ThermalInfo)
			if err != nil {
				return errors.New().Wrap(errors.ErrMainLoop, err)
			}

			logThermalState(thermal)
			logBatteryState()
			logSystemState()
			record(ctx, thermal)
		}
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func logThermalState(thermal monitor.ThermalInfo) {
	event := logger.Info().
		Float64("cpu_temp", thermal.CPUTemp).
		Bool("throttling", thermal.Throttling).
		Int("fan_count", thermal.FanCount)

	if thermal.GPUTemp != nil {
		event = event.Float64("gpu_temp", *thermal.GPUTemp)
	}
	if thermal.CPUPower != nil {
		event = event.Float64("cpu_power", *thermal.CPUPower)
	}
	for _, fan := range thermal.Fans {
		event = event.Float64(fmt.Sprintf("fan%d_rpm", fan.Index), fan.SpeedRPM)
	}

	if mhz, err := frequency.CurrentMHz(); err == nil {
		event = event.Float64("cpu_mhz", mhz)
	}

	event.Msg("Thermal state")
}

func logBatteryState() {
	snapshot, err := batteryM.Snapshot()
	if err != nil {
		logger.Debug().Err(err).Msg("Battery snapshot unavailable")
		return
	}

	event := logger.Info().
		Float64("battery_pct", snapshot.Percentage).
		Bool("charging", snapshot.Charging).
		Int("cycles", snapshot.CycleCount)
	if snapshot.Temperature != nil {
		event = event.Float64("battery_temp", *snapshot.Temperature)
	}
	event.Msg("Battery state")
}

// logSystemState reports traffic totals and the busiest process at debug
// level. Both sources are best effort; the thermal loop never fails on them.
func logSystemState() {
	if counters, err := netstat.Interfaces(); err == nil {
		var recv, sent uint64
		for _, c := range counters {
			recv += c.BytesRecv
			sent += c.BytesSent
		}
		logger.Debug().
			Uint64("bytes_recv", recv).
			Uint64("bytes_sent", sent).
			Int("interfaces", len(counters)).
			Msg("Network state")
	}

	if procs, err := process.List(); err == nil && len(procs) > 0 {
		top := procs[0]
		logger.Debug().
			Int32("pid", top.PID).
			Str("name", top.Name).
			Float64("cpu_pct", top.CPUPercent).
			Uint64("rss", top.RSS).
			Msg("Busiest process")
	}
}

func record(ctx context.Context, thermal monitor.ThermalInfo) {
	reading := &telemetry.Reading{
		Timestamp:    time.Now(),
		CPUTemp:      thermal.CPUTemp,
		GPUTemp:      thermal.GPUTemp,
		AmbientTemp:  thermal.AmbientTemp,
		BatteryTemp:  thermal.BatteryTemp,
		HeatsinkTemp: thermal.HeatsinkTemp,
		CPUPower:     thermal.CPUPower,
		Throttling:   thermal.Throttling,
		FanCount:     thermal.FanCount,
	}
	for _, fan := range thermal.Fans {
		if fan.SpeedRPM > reading.MaxFanRPM {
			reading.MaxFanRPM = fan.SpeedRPM
		}
	}

	if err := recorder.Record(ctx, reading); err != nil {
		logger.Error().Err(err).Msg("Failed to record telemetry")
	}
}
