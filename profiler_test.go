package loadscan

import (
	"context"
	"regexp"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fkie-cad/loadscan/procio"
)

type mockThread struct {
	tid       int
	name      string
	userTime  int64
	totalTime int64
}

func (t *mockThread) TID() int {
	return t.tid
}

func (t *mockThread) String() string {
	return procio.FormatTID(1, t.tid)
}

func (t *mockThread) Name() (string, error) {
	return t.name, nil
}

func (t *mockThread) CPUTimes() (user, total int64, err error) {
	return t.userTime, t.totalTime, nil
}

type mockProcess struct {
	pid     int
	threads []procio.Thread
}

func (p *mockProcess) PID() int {
	return p.pid
}

func (p *mockProcess) String() string {
	return procio.FormatPID(p.pid)
}

func (p *mockProcess) Info() (*procio.ProcessInfo, error) {
	return &procio.ProcessInfo{PID: p.pid, NumThreads: len(p.threads)}, nil
}

func (p *mockProcess) Threads() ([]procio.Thread, error) {
	return p.threads, nil
}

func (p *mockProcess) Close() error {
	return nil
}

func TestThreadProfilerRun(t *testing.T) {
	Convey("Profiling a process with one busy and one filtered thread", t, func() {
		busy := &mockThread{tid: 10, name: "worker-1", userTime: 5 * millisecond, totalTime: 10 * millisecond}
		ignored := &mockThread{tid: 11, name: "gc", userTime: 5 * millisecond, totalTime: 10 * millisecond}
		proc := procio.Cache(&mockProcess{pid: 1, threads: []procio.Thread{busy, ignored}})

		stats := NewStatistics()
		profiler := NewThreadProfiler(
			proc,
			NewNameFilter(regexp.MustCompile("^worker-")),
			10*time.Millisecond,
			1,
		).WithStatistics(stats)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		progress, err := profiler.Run(ctx)
		So(err, ShouldBeNil)

		prog := <-progress
		cancel()
		for range progress {
			// drain until closed
		}

		Convey("should only ever report the matching thread.", func() {
			So(prog.TID, ShouldEqual, 10)
			So(prog.ThreadName, ShouldEqual, "worker-1")
		})

		Convey("should emit a bounded load for it.", func() {
			So(prog.Error, ShouldBeNil)
			So(prog.Emitted, ShouldBeTrue)
			So(prog.Result, ShouldNotBeNil)
			So(prog.Result.UserFraction, ShouldBeBetweenOrEqual, 0, 1)
			So(prog.Result.SystemFraction, ShouldBeBetweenOrEqual, 0, 1)
			So(prog.Result.UserFraction+prog.Result.SystemFraction, ShouldBeLessThanOrEqualTo, 1)
		})

		Convey("should account the run in the statistics.", func() {
			So(stats.NumberOfThreadsProfiled, ShouldEqual, 1)
			So(stats.NumberOfSamplesTaken, ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}

func TestThreadProfilerColdStart(t *testing.T) {
	Convey("The first sample of a previously unseen thread", t, func() {
		busy := &mockThread{tid: 10, name: "worker-1", userTime: 3 * millisecond, totalTime: 4 * millisecond}
		proc := procio.Cache(&mockProcess{pid: 1, threads: []procio.Thread{busy}})

		profiler := NewThreadProfiler(proc, NewTIDFilter(nil), 5*time.Millisecond, 1)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		progress, err := profiler.Run(ctx)
		So(err, ShouldBeNil)

		prog := <-progress
		cancel()
		for range progress {
		}

		Convey("should measure against the zero snapshot and emit.", func() {
			So(prog.Emitted, ShouldBeTrue)
			So(prog.Result, ShouldNotBeNil)
		})
	})
}
