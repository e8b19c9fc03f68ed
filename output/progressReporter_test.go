package output

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fkie-cad/loadscan"
)

func TestPrettyFormatterFormatThreadName(t *testing.T) {
	Convey("Formatting thread names", t, func() {
		p := prettyFormatter{}

		Convey("should pad short names to the requested length.", func() {
			So(p.FormatThreadName("gc", 8), ShouldEqual, "gc      ")
		})

		Convey("should truncate long names with an ellipsis.", func() {
			So(p.FormatThreadName("compiler-thread-7", 10), ShouldEqual, "compile...")
		})

		Convey("should never panic or exceed the requested length.", func() {
			names := []string{"", "a", "worker", "a-very-long-thread-name-indeed"}
			for _, name := range names {
				for maxlen := 1; maxlen < 24; maxlen++ {
					So(func() { p.FormatThreadName(name, maxlen) }, ShouldNotPanic)
					So(len(p.FormatThreadName(name, maxlen)), ShouldEqual, maxlen)
				}
			}
		})
	})
}

func TestPrettyFormatterFormatProfileProgress(t *testing.T) {
	Convey("Formatting profile progress", t, func() {
		p := NewPrettyFormatter()

		Convey("should yield an empty line for suppressed samples.", func() {
			prog := &loadscan.ProfileProgress{TID: 7, ThreadName: "idle", Emitted: false}
			So(p.FormatProfileProgress(prog), ShouldEqual, "")
		})

		Convey("should mention the thread for emitted events.", func() {
			prog := &loadscan.ProfileProgress{
				TID:        42,
				ThreadName: "worker",
				Emitted:    true,
				Result:     &loadscan.LoadResult{UserFraction: 0.25, SystemFraction: 0.125},
			}
			line := p.FormatProfileProgress(prog)
			So(line, ShouldContainSubstring, "worker")
			So(line, ShouldContainSubstring, "42")
			So(line, ShouldContainSubstring, "25.0%")
			So(line, ShouldContainSubstring, "12.5%")
		})

		Convey("should not panic on errors.", func() {
			prog := &loadscan.ProfileProgress{
				TID:        42,
				ThreadName: "worker",
				Error:      fmt.Errorf("thread exited"),
			}
			So(func() { p.FormatProfileProgress(prog) }, ShouldNotPanic)
			So(p.FormatProfileProgress(prog), ShouldContainSubstring, "could not sample")
		})
	})
}
