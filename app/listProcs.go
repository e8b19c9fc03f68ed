package app

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"

	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/procio"
)

func listProcesses(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	pids, err := procio.GetRunningPIDs()
	if err != nil {
		return errors.Newf("could not enumerate PIDs, reason: %w", err)
	}

	procInfos := make([]*procio.ProcessInfo, len(pids))
	maxPidlen := 0
	maxNamelen := 0
	maxUserlen := 0
	for i, pid := range pids {
		info := &procio.ProcessInfo{
			PID:            pid,
			ExecutablePath: "ERROR",
			Username:       "ERROR",
		}

		proc, err := procio.OpenProcess(pid)
		if err == nil {
			tmp, err := proc.Info()
			if err == nil {
				info = tmp
			}
			proc.Close()
		}

		procInfos[i] = info
		pidLen := len(strconv.Itoa(pid))
		if maxPidlen < pidLen {
			maxPidlen = pidLen
		}
		namelen := len(filepath.Base(info.ExecutablePath))
		if maxNamelen < namelen {
			maxNamelen = namelen
		}
		userlen := len(info.Username)
		if maxUserlen < userlen {
			maxUserlen = userlen
		}
	}

	if maxPidlen < 5 {
		maxPidlen = 5
	}

	headerFmt := fmt.Sprintf("%%%ds %%-%ds %%-%ds %%7s\n", maxPidlen, maxNamelen, maxUserlen)
	rowFmt := fmt.Sprintf("%%%dd %%-%ds %%-%ds %%7d\n", maxPidlen, maxNamelen, maxUserlen)
	fmt.Printf(headerFmt, "PID", "Name", "User", "Threads")
	fmt.Println(strings.Repeat("-", maxPidlen) + "+" + strings.Repeat("-", maxNamelen) + "+" + strings.Repeat("-", maxUserlen) + "+-------")
	for _, info := range procInfos {
		fmt.Printf(rowFmt, info.PID, filepath.Base(info.ExecutablePath), info.Username, info.NumThreads)
	}

	return nil
}

func listThreads(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	if c.NArg() != 1 {
		return errors.Newf("expected exactly one argument, got %d", c.NArg())
	}
	pid, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return errors.Newf("\"%s\" is not a pid", c.Args().Get(0))
	}

	filter, err := buildThreadFilter(c)
	if err != nil {
		return err
	}

	proc, err := procio.OpenProcess(pid)
	if err != nil {
		return errors.Newf("could not open process with pid %d, reason: %w", pid, err)
	}
	defer proc.Close()

	threads, err := proc.Threads()
	if err != nil {
		return errors.Newf("could not enumerate threads of process %d, reason: %w", pid, err)
	}

	fmt.Printf("%8s %-24s %12s %12s\n", "TID", "Name", "User [ms]", "Total [ms]")
	for _, thread := range threads {
		name, err := thread.Name()
		if err != nil {
			name = fmt.Sprintf("<unknown: %v>", err)
		}

		if filter != nil {
			match := filter.Filter(&loadscan.ThreadIdentity{TID: thread.TID(), Name: name})
			if !match.Result {
				continue
			}
		}

		user, total, err := thread.CPUTimes()
		if err != nil {
			fmt.Printf("%8d %-24s could not sample: %v\n", thread.TID(), name, err)
			continue
		}
		fmt.Printf("%8d %-24s %12d %12d\n", thread.TID(), name, user/1000000, total/1000000)
	}

	return nil
}
