package procio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/targodan/go-errors"
)

// userHZ is the tick rate underlying the utime field of /proc/<pid>/stat.
// The kernel exposes USER_HZ as 100 regardless of the scheduler frequency.
const userHZ = 100

const nanosecondsPerTick = int64(1000*1000*1000) / userHZ

// threadLinux reads the cumulative CPU times of a single thread from the
// /proc pseudo-filesystem. The total time comes from schedstat, which has
// nanosecond resolution, while the user-only time is available in stat
// with USER_HZ tick granularity only. The two values are therefore backed
// by clocks of very different resolution; during short intervals the
// derived system time can appear to regress.
type threadLinux struct {
	pid int
	tid int
}

func (t *threadLinux) TID() int {
	return t.tid
}

func (t *threadLinux) String() string {
	return FormatTID(t.pid, t.tid)
}

func (t *threadLinux) taskPath(file string) string {
	return fmt.Sprintf("%s/%d/task/%d/%s", procPath, t.pid, t.tid, file)
}

func (t *threadLinux) Name() (string, error) {
	buf, err := os.ReadFile(t.taskPath("comm"))
	if err != nil {
		return "", errors.Newf("could not read thread name, reason: %w", err)
	}
	return strings.TrimSpace(string(buf)), nil
}

func (t *threadLinux) CPUTimes() (user, total int64, err error) {
	buf, err := os.ReadFile(t.taskPath("schedstat"))
	if err != nil {
		return 0, 0, errors.Newf("could not read thread schedstat, reason: %w", err)
	}
	total, err = parseSchedstatRuntime(string(buf))
	if err != nil {
		return 0, 0, err
	}

	buf, err = os.ReadFile(t.taskPath("stat"))
	if err != nil {
		return 0, 0, errors.Newf("could not read thread stat, reason: %w", err)
	}
	userTicks, err := parseStatUserTime(string(buf))
	if err != nil {
		return 0, 0, err
	}
	user = userTicks * nanosecondsPerTick

	return user, total, nil
}

// parseSchedstatRuntime extracts the cumulative on-CPU time in nanoseconds
// from the contents of /proc/<pid>/task/<tid>/schedstat.
func parseSchedstatRuntime(text string) (int64, error) {
	fields := strings.Fields(text)
	if len(fields) < 1 {
		return 0, errors.New("schedstat is empty")
	}
	runtime, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, errors.Newf("could not parse schedstat runtime, reason: %w", err)
	}
	return runtime, nil
}

// parseStatUserTime extracts the cumulative user time in USER_HZ ticks from
// the contents of /proc/<pid>/task/<tid>/stat. The comm field may contain
// spaces and parentheses, fields are counted from the last closing paren.
func parseStatUserTime(text string) (int64, error) {
	commEnd := strings.LastIndex(text, ")")
	if commEnd == -1 {
		return 0, errors.New("stat has no comm field")
	}
	fields := strings.Fields(text[commEnd+1:])
	// utime is the 14th field of stat; 11 fields after state follow comm.
	const utimeIndex = 11
	if len(fields) <= utimeIndex {
		return 0, errors.Newf("stat has only %d fields after comm", len(fields))
	}
	utime, err := strconv.ParseInt(fields[utimeIndex], 10, 64)
	if err != nil {
		return 0, errors.Newf("could not parse stat utime, reason: %w", err)
	}
	return utime, nil
}
