package system

import (
	"github.com/fkie-cad/loadscan/procio/customWin32"
)

// GetTotalRAM returns the total amount of installed RAM in bytes.
func GetTotalRAM() (uint64, error) {
	status, err := customWin32.GlobalMemoryStatusEx()
	if err != nil {
		return 0, err
	}
	return status.TotalPhys, nil
}

// GetFreeRAM returns the amount of free RAM available for allocation in bytes.
func GetFreeRAM() (uint64, error) {
	status, err := customWin32.GlobalMemoryStatusEx()
	if err != nil {
		return 0, err
	}
	return status.AvailPhys, nil
}
