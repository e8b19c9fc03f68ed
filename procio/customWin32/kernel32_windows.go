// Package customWin32 provides a small subset of win32 bindings.
// Most win32 calls in this project go through golang.org/x/sys/windows,
// however a few of the required functions have no wrapper there, thus
// these are implemented here.
package customWin32

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	getThreadTimes       = kernel32.NewProc("GetThreadTimes")
	getThreadDescription = kernel32.NewProc("GetThreadDescription")
	getSystemTimes       = kernel32.NewProc("GetSystemTimes")
	globalMemoryStatusEx = kernel32.NewProc("GlobalMemoryStatusEx")
)

// GetThreadTimes returns the cumulative kernel-mode and user-mode execution
// times of the given thread in nanoseconds. The underlying counters have
// 100ns units and a much coarser actual resolution.
func GetThreadTimes(hThread windows.Handle) (kernelTime, userTime int64, err error) {
	var creation, exit, kernel, user windows.Filetime
	r1, _, lastErr := getThreadTimes.Call(
		uintptr(hThread),
		uintptr(unsafe.Pointer(&creation)),
		uintptr(unsafe.Pointer(&exit)),
		uintptr(unsafe.Pointer(&kernel)),
		uintptr(unsafe.Pointer(&user)))
	if r1 == 0 {
		return 0, 0, lastErr
	}
	return filetimeToNanoseconds(&kernel), filetimeToNanoseconds(&user), nil
}

// GetThreadDescription returns the description assigned to a thread via
// SetThreadDescription. Available since Windows 10 1607.
func GetThreadDescription(hThread windows.Handle) (string, error) {
	var buf *uint16
	r1, _, lastErr := getThreadDescription.Call(
		uintptr(hThread),
		uintptr(unsafe.Pointer(&buf)))
	// Returns an HRESULT, negative values indicate failure.
	if int32(r1) < 0 {
		return "", lastErr
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(buf)))
	return windows.UTF16PtrToString(buf), nil
}

// GetSystemTimes returns the cumulative system-wide idle, kernel and user
// execution times in nanoseconds. The kernel time includes the idle time.
func GetSystemTimes() (idleTime, kernelTime, userTime int64, err error) {
	var idle, kernel, user windows.Filetime
	r1, _, lastErr := getSystemTimes.Call(
		uintptr(unsafe.Pointer(&idle)),
		uintptr(unsafe.Pointer(&kernel)),
		uintptr(unsafe.Pointer(&user)))
	if r1 == 0 {
		return 0, 0, 0, lastErr
	}
	return filetimeToNanoseconds(&idle), filetimeToNanoseconds(&kernel), filetimeToNanoseconds(&user), nil
}

// GlobalMemoryStatusEx queries the current physical and virtual memory
// status of the host.
func GlobalMemoryStatusEx() (*MemoryStatusEx, error) {
	memStat := new(MemoryStatusEx)
	memStat.Length = uint32(unsafe.Sizeof(*memStat))
	r1, _, lastErr := globalMemoryStatusEx.Call(uintptr(unsafe.Pointer(memStat)))
	if r1 == 0 {
		return nil, lastErr
	}
	return memStat, nil
}

func filetimeToNanoseconds(ft *windows.Filetime) int64 {
	// Filetime counts 100ns intervals.
	return (int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)) * 100
}
