package system

import (
	"os"
	"os/exec"
	"strings"
)

func getOSInfo() (name, version, flavour string, err error) {
	var buf []byte

	cmd := exec.Command("uname", "-s")
	buf, err = cmd.Output()
	if err != nil {
		return
	}
	name = strings.TrimSpace(string(buf))

	cmd = exec.Command("uname", "-r")
	buf, err = cmd.Output()
	if err != nil {
		return
	}
	version = strings.TrimSpace(string(buf))

	flavour = osReleaseName()

	return
}

// osReleaseName extracts the distribution name from /etc/os-release.
// Returns an empty string if it cannot be determined.
func osReleaseName() string {
	buf, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(buf), "\n") {
		if !strings.HasPrefix(line, "NAME=") {
			continue
		}
		return strings.Trim(strings.TrimPrefix(line, "NAME="), "\"")
	}
	return ""
}
