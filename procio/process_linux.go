package procio

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"

	"github.com/targodan/go-errors"
)

// GetRunningPIDs returns the PIDs of all running processes.
func GetRunningPIDs() ([]int, error) {
	entries, err := os.ReadDir(procPath)
	if err != nil {
		return nil, err
	}

	pids := make([]int, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			// Not a process directory, e.g. /proc/meminfo
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	return pids, nil
}

type processLinux struct {
	pid int
}

func open(pid int) (Process, error) {
	_, err := os.Stat(fmt.Sprintf("%s/%d", procPath, pid))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("process does not exist")
	}
	if os.IsPermission(err) {
		return nil, fmt.Errorf("insufficient permissions")
	}
	if err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return &processLinux{pid: pid}, nil
}

func (p *processLinux) PID() int {
	return p.pid
}

func (p *processLinux) String() string {
	return FormatPID(p.pid)
}

func (p *processLinux) Info() (*ProcessInfo, error) {
	var err error

	info := &ProcessInfo{
		PID: p.pid,
	}

	procInfo, tmpErr := os.Stat(fmt.Sprintf("%s/%d", procPath, p.pid))
	if tmpErr != nil {
		err = errors.NewMultiError(err, fmt.Errorf("could not determine process owner, reason: %w", tmpErr))
	} else if stat, ok := procInfo.Sys().(*syscall.Stat_t); ok {
		u, tmpErr := user.LookupId(fmt.Sprintf("%v", stat.Uid))
		if tmpErr != nil {
			err = errors.NewMultiError(err, fmt.Errorf("could not determine process owner, reason: %w", tmpErr))
		} else {
			info.Username = u.Username
		}
	}

	info.ExecutablePath, tmpErr = os.Readlink(fmt.Sprintf("%s/%d/exe", procPath, p.pid))
	if tmpErr != nil {
		err = errors.NewMultiError(err, fmt.Errorf("could not determine executable path, reason: %w", tmpErr))
	}

	threads, tmpErr := p.Threads()
	if tmpErr != nil {
		err = errors.NewMultiError(err, fmt.Errorf("could not enumerate threads, reason: %w", tmpErr))
	} else {
		info.NumThreads = len(threads)
	}

	return info, err
}

func (p *processLinux) Threads() ([]Thread, error) {
	taskDir := fmt.Sprintf("%s/%d/task", procPath, p.pid)
	entries, err := os.ReadDir(taskDir)
	if err != nil {
		return nil, errors.Newf("could not enumerate threads of process %d, reason: %w", p.pid, err)
	}

	threads := make([]Thread, 0, len(entries))
	for _, entry := range entries {
		tid, err := strconv.Atoi(filepath.Base(entry.Name()))
		if err != nil {
			continue
		}
		threads = append(threads, &threadLinux{pid: p.pid, tid: tid})
	}
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].TID() < threads[j].TID()
	})

	return threads, nil
}

func (p *processLinux) Close() error {
	return nil
}
