package procio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/targodan/go-errors"
)

// GetRunningPIDs returns the PIDs of all running processes.
func GetRunningPIDs() ([]int, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(snap)

	pids := make([]int, 0)

	procEntry := windows.ProcessEntry32{
		Size: uint32(unsafe.Sizeof(windows.ProcessEntry32{})),
	}

	err = windows.Process32First(snap, &procEntry)
	if err != nil && err != windows.ERROR_NO_MORE_FILES {
		return nil, err
	}
	pids = append(pids, int(procEntry.ProcessID))
	for {
		err = windows.Process32Next(snap, &procEntry)
		if err != nil {
			break
		}
		pids = append(pids, int(procEntry.ProcessID))
	}
	if err != windows.ERROR_NO_MORE_FILES {
		return nil, err
	}
	return pids, nil
}

type processWindows struct {
	pid        uint32
	procHandle windows.Handle
}

func open(pid int) (Process, error) {
	handle, err := windows.OpenProcess(
		windows.PROCESS_QUERY_LIMITED_INFORMATION,
		false,
		uint32(pid),
	)
	if err != nil {
		return nil, err
	}

	return &processWindows{pid: uint32(pid), procHandle: handle}, nil
}

func (p *processWindows) PID() int {
	return int(p.pid)
}

func (p *processWindows) String() string {
	return FormatPID(int(p.pid))
}

func (p *processWindows) Info() (*ProcessInfo, error) {
	var err error

	info := &ProcessInfo{
		PID: int(p.pid),
	}

	info.ExecutablePath, err = p.executablePath()
	if err != nil {
		err = fmt.Errorf("could not determine executable path, reason: %w", err)
	}

	username, tmpErr := p.username()
	if tmpErr != nil {
		err = errors.NewMultiError(err, fmt.Errorf("could not determine process owner, reason: %w", tmpErr))
	} else {
		info.Username = username
	}

	threads, tmpErr := p.Threads()
	if tmpErr != nil {
		err = errors.NewMultiError(err, fmt.Errorf("could not enumerate threads, reason: %w", tmpErr))
	} else {
		info.NumThreads = len(threads)
	}

	return info, err
}

func (p *processWindows) executablePath() (string, error) {
	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	err := windows.QueryFullProcessImageName(p.procHandle, 0, &buf[0], &size)
	if err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf[:size]), nil
}

func (p *processWindows) username() (string, error) {
	var token windows.Token
	err := windows.OpenProcessToken(p.procHandle, windows.TOKEN_QUERY, &token)
	if err != nil {
		return "", err
	}
	defer token.Close()

	tokenUser, err := token.GetTokenUser()
	if err != nil {
		return "", err
	}
	account, domain, _, err := tokenUser.User.Sid.LookupAccount("")
	if err != nil {
		return "", err
	}
	return domain + "\\" + account, nil
}

func (p *processWindows) Threads() ([]Thread, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return nil, errors.Newf("could not snapshot threads of process %d, reason: %w", p.pid, err)
	}
	defer windows.CloseHandle(snap)

	threads := make([]Thread, 0)

	threadEntry := windows.ThreadEntry32{
		Size: uint32(unsafe.Sizeof(windows.ThreadEntry32{})),
	}

	err = windows.Thread32First(snap, &threadEntry)
	for err == nil {
		if threadEntry.OwnerProcessID == p.pid {
			threads = append(threads, &threadWindows{pid: p.pid, tid: threadEntry.ThreadID})
		}
		err = windows.Thread32Next(snap, &threadEntry)
	}
	if err != windows.ERROR_NO_MORE_FILES {
		return nil, err
	}

	return threads, nil
}

func (p *processWindows) Close() error {
	return windows.CloseHandle(p.procHandle)
}
