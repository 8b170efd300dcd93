package netstat

import (
	"strconv"
	"strings"

	"codeberg.org/tessen/smcmon/internal/errors"
)

// parseNetstatOutput extracts link-level counters from netstat -ib output.
// Only the <Link#N> row of each interface carries hardware totals; the
// per-protocol rows below it are skipped. The Address column can be empty
// (loopback has no link address), so counters are taken from the tail of
// the row rather than by fixed column index.
func parseNetstatOutput(out string) ([]Counters, error) {
	var counters []Counters
	seen := make(map[string]bool)

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 10 {
			continue
		}
		if !strings.Contains(fields[2], "<Link#") {
			continue
		}

		name := fields[0]
		if seen[name] {
			continue
		}

		// Trailing columns: Ipkts Ierrs Ibytes Opkts Oerrs Obytes Coll
		tail := fields[len(fields)-7:]
		c := Counters{Interface: name}

		var err error
		if c.PacketsRecv, err = parseCounter(tail[0]); err != nil {
			return nil, errors.New().WithData(ErrParseFailed, line)
		}
		if c.BytesRecv, err = parseCounter(tail[2]); err != nil {
			return nil, errors.New().WithData(ErrParseFailed, line)
		}
		if c.PacketsSent, err = parseCounter(tail[3]); err != nil {
			return nil, errors.New().WithData(ErrParseFailed, line)
		}
		if c.BytesSent, err = parseCounter(tail[5]); err != nil {
			return nil, errors.New().WithData(ErrParseFailed, line)
		}

		seen[name] = true
		counters = append(counters, c)
	}

	if len(counters) == 0 {
		return nil, errors.New().WithMessage(ErrParseFailed, "no link rows in netstat output")
	}

	return counters, nil
}

func parseCounter(s string) (uint64, error) {
	// netstat prints "-" for counters it does not track.
	if s == "-" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
