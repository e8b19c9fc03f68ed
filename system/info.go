package system

import (
	"net"
	"os"
	"runtime"

	"github.com/targodan/go-errors"
)

// Info contains information about the running system.
type Info struct {
	OSName    string   `json:"osName"`
	OSVersion string   `json:"osVersion"`
	OSFlavour string   `json:"osFlavour"`
	OSArch    string   `json:"osArch"`
	Hostname  string   `json:"hostname"`
	IPs       []string `json:"ips"`
	NumCPUs   int      `json:"numCPUs"`
	TotalRAM  uint64   `json:"totalRAM"`
}

var cachedInfo *Info

// GetInfo returns information about the currently running system.
// The information is cached after the first call.
func GetInfo() (*Info, error) {
	if cachedInfo != nil {
		return cachedInfo, nil
	}

	var err error
	info := new(Info)
	info.OSName, info.OSVersion, info.OSFlavour, err = getOSInfo()
	if err != nil {
		return nil, errors.Newf("could not determine OS info, reason: %w", err)
	}
	info.OSArch = runtime.GOARCH
	info.NumCPUs = runtime.NumCPU()

	info.Hostname, err = os.Hostname()
	if err != nil {
		return nil, errors.Newf("could not determine hostname, reason: %w", err)
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, errors.Newf("could not determine IPs, reason: %w", err)
	}
	info.IPs = make([]string, len(addrs))
	for i := range addrs {
		info.IPs[i] = addrs[i].String()
	}

	info.TotalRAM, err = GetTotalRAM()
	if err != nil {
		return nil, errors.Newf("could not determine total RAM, reason: %w", err)
	}

	cachedInfo = info
	return cachedInfo, nil
}
