package procio

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSchedstatRuntime(t *testing.T) {
	Convey("Parsing a regular schedstat line", t, func() {
		runtime, err := parseSchedstatRuntime("12345678901 2066 178\n")
		So(err, ShouldBeNil)
		So(runtime, ShouldEqual, 12345678901)
	})

	Convey("Parsing an empty schedstat", t, func() {
		_, err := parseSchedstatRuntime("")
		So(err, ShouldNotBeNil)
	})
}

func TestParseStatUserTime(t *testing.T) {
	Convey("Parsing a regular stat line", t, func() {
		utime, err := parseStatUserTime(
			"1234 (loadscan) S 1 1234 1234 0 -1 4194560 1424 0 12 0 427 27 0 0 20 0 8 0 2287 225123328 1110\n")
		So(err, ShouldBeNil)
		So(utime, ShouldEqual, 427)
	})

	Convey("Parsing a stat line whose comm contains spaces and parens", t, func() {
		utime, err := parseStatUserTime(
			"1234 (tricky (name) x) S 1 1234 1234 0 -1 4194560 1424 0 12 0 99 27 0 0 20 0 8 0 2287 225123328 1110\n")
		So(err, ShouldBeNil)
		So(utime, ShouldEqual, 99)
	})

	Convey("Parsing a truncated stat line", t, func() {
		_, err := parseStatUserTime("1234 (loadscan) S 1 1234")
		So(err, ShouldNotBeNil)
	})

	Convey("Parsing a stat line without a comm field", t, func() {
		_, err := parseStatUserTime("garbage")
		So(err, ShouldNotBeNil)
	})
}

func mockProcFS(t *testing.T, pid, tid int, statUtimeTicks, schedstatNanos int64) {
	t.Helper()

	origProcPath := procPath
	procPath = t.TempDir()
	t.Cleanup(func() {
		procPath = origProcPath
	})

	taskDir := filepath.Join(procPath, fmt.Sprint(pid), "task", fmt.Sprint(tid))
	if err := os.MkdirAll(taskDir, 0700); err != nil {
		t.Fatal(err)
	}

	stat := fmt.Sprintf(
		"%d (mock) S 1 %d %d 0 -1 4194560 1424 0 12 0 %d 27 0 0 20 0 8 0 2287 225123328 1110\n",
		tid, pid, pid, statUtimeTicks)
	if err := os.WriteFile(filepath.Join(taskDir, "stat"), []byte(stat), 0600); err != nil {
		t.Fatal(err)
	}
	schedstat := fmt.Sprintf("%d 2066 178\n", schedstatNanos)
	if err := os.WriteFile(filepath.Join(taskDir, "schedstat"), []byte(schedstat), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(taskDir, "comm"), []byte("mock\n"), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestThreadCPUTimes(t *testing.T) {
	mockProcFS(t, 1234, 1237, 250, 3500000000)

	Convey("Reading CPU times from a mocked proc fs", t, func() {
		thread := &threadLinux{pid: 1234, tid: 1237}

		user, total, err := thread.CPUTimes()
		So(err, ShouldBeNil)

		Convey("should convert utime ticks to nanoseconds.", func() {
			So(user, ShouldEqual, 250*nanosecondsPerTick)
		})
		Convey("should take the total from schedstat verbatim.", func() {
			So(total, ShouldEqual, 3500000000)
		})

		Convey("and the thread name should come from comm.", func() {
			name, err := thread.Name()
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "mock")
		})
	})
}
