// Package netstat reports per-interface traffic counters. gopsutil reads
// them directly from the kernel; when that fails the counters are recovered
// by parsing netstat -ib output, which survives on systems where the
// sysctl route table layout has drifted.
package netstat

import (
	"os/exec"

	"github.com/shirou/gopsutil/v3/net"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/monitor"
)

const (
	ErrCountersFailed = errors.ErrorCode("netstat_counters_failed")
	ErrParseFailed    = errors.ErrorCode("netstat_parse_failed")
)

// Counters holds cumulative traffic totals for one interface.
type Counters struct {
	Interface   string
	BytesRecv   uint64
	BytesSent   uint64
	PacketsRecv uint64
	PacketsSent uint64
}

// Interfaces returns traffic counters for every interface, preferring the
// kernel counters and falling back to parsed netstat output.
func Interfaces() ([]Counters, error) {
	return interfaces(kernelCounters, commandCounters)
}

func interfaces(primary, secondary func() ([]Counters, error)) ([]Counters, error) {
	return monitor.Resolve(primary, secondary)
}

func kernelCounters() ([]Counters, error) {
	stats, err := net.IOCounters(true)
	if err != nil {
		return nil, errors.New().Wrap(ErrCountersFailed, err)
	}

	out := make([]Counters, 0, len(stats))
	for _, s := range stats {
		out = append(out, Counters{
			Interface:   s.Name,
			BytesRecv:   s.BytesRecv,
			BytesSent:   s.BytesSent,
			PacketsRecv: s.PacketsRecv,
			PacketsSent: s.PacketsSent,
		})
	}

	return out, nil
}

func commandCounters() ([]Counters, error) {
	out, err := exec.Command("netstat", "-ib").Output()
	if err != nil {
		return nil, errors.New().Wrap(ErrCountersFailed, err)
	}

	return parseNetstatOutput(string(out))
}
