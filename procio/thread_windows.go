package procio

import (
	"golang.org/x/sys/windows"

	"github.com/fkie-cad/loadscan/procio/customWin32"

	"github.com/targodan/go-errors"
)

type threadWindows struct {
	pid uint32
	tid uint32
}

func (t *threadWindows) TID() int {
	return int(t.tid)
}

func (t *threadWindows) String() string {
	return FormatTID(int(t.pid), int(t.tid))
}

func (t *threadWindows) openHandle() (windows.Handle, error) {
	return windows.OpenThread(windows.THREAD_QUERY_LIMITED_INFORMATION, false, t.tid)
}

func (t *threadWindows) Name() (string, error) {
	handle, err := t.openHandle()
	if err != nil {
		return "", errors.Newf("could not open thread %d, reason: %w", t.tid, err)
	}
	defer windows.CloseHandle(handle)

	return customWin32.GetThreadDescription(handle)
}

// CPUTimes queries GetThreadTimes. Both counters tick in 100ns units, but
// the kernel accounts them with timer-interrupt granularity, so short
// intervals carry heavy quantization noise.
func (t *threadWindows) CPUTimes() (user, total int64, err error) {
	handle, err := t.openHandle()
	if err != nil {
		return 0, 0, errors.Newf("could not open thread %d, reason: %w", t.tid, err)
	}
	defer windows.CloseHandle(handle)

	kernelTime, userTime, err := customWin32.GetThreadTimes(handle)
	if err != nil {
		return 0, 0, errors.Newf("could not query thread times of thread %d, reason: %w", t.tid, err)
	}

	return userTime, userTime + kernelTime, nil
}
