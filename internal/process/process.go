// Package process lists running processes with their resource usage. The
// bulk gopsutil enumeration is preferred; if it fails the list is rebuilt
// per pid, skipping processes that vanish mid-walk.
package process

import (
	"sort"

	"github.com/shirou/gopsutil/v3/process"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/logger"
	"codeberg.org/tessen/smcmon/internal/monitor"
)

const ErrListFailed = errors.ErrorCode("process_list_failed")

// Info describes one running process.
type Info struct {
	PID        int32
	Name       string
	CPUPercent float64
	RSS        uint64
}

// List returns running processes sorted by descending CPU usage.
func List() ([]Info, error) {
	infos, err := monitor.Resolve(bulkList, perPidList)
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CPUPercent > infos[j].CPUPercent
	})

	return infos, nil
}

func bulkList() ([]Info, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, errors.New().Wrap(ErrListFailed, err)
	}

	return collect(procs), nil
}

func perPidList() ([]Info, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, errors.New().Wrap(ErrListFailed, err)
	}

	procs := make([]*process.Process, 0, len(pids))
	for _, pid := range pids {
		p, err := process.NewProcess(pid)
		if err != nil {
			// Process exited between enumeration and inspection.
			continue
		}
		procs = append(procs, p)
	}

	return collect(procs), nil
}

func collect(procs []*process.Process) []Info {
	infos := make([]Info, 0, len(procs))

	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			logger.Debug().Int32("pid", p.Pid).Err(err).Msg("Skipping unreadable process")
			continue
		}

		info := Info{PID: p.Pid, Name: name}
		if pct, err := p.CPUPercent(); err == nil {
			info.CPUPercent = pct
		}
		if mem, err := p.MemoryInfo(); err == nil && mem != nil {
			info.RSS = mem.RSS
		}

		infos = append(infos, info)
	}

	return infos
}
