package loadscan

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTIDFilter(t *testing.T) {
	Convey("A TID filter", t, func() {
		f := NewTIDFilter([]int{10, 20})

		Convey("should match a listed TID.", func() {
			So(f.Filter(&ThreadIdentity{TID: 10}).Result, ShouldBeTrue)
		})
		Convey("should not match an unlisted TID and give a reason.", func() {
			match := f.Filter(&ThreadIdentity{TID: 30})
			So(match.Result, ShouldBeFalse)
			So(match.Reason, ShouldContainSubstring, "30")
			So(match.Reason, ShouldContainSubstring, "10, 20")
		})
	})

	Convey("A TID filter without TIDs", t, func() {
		f := NewTIDFilter(nil)

		Convey("should match everything.", func() {
			So(f.Filter(&ThreadIdentity{TID: 42}).Result, ShouldBeTrue)
		})
	})
}

func TestNameFilter(t *testing.T) {
	Convey("A name filter", t, func() {
		f := NewNameFilter(regexp.MustCompile("^worker-"))

		Convey("should match a matching name.", func() {
			So(f.Filter(&ThreadIdentity{Name: "worker-3"}).Result, ShouldBeTrue)
		})
		Convey("should not match anything else.", func() {
			match := f.Filter(&ThreadIdentity{Name: "gc"})
			So(match.Result, ShouldBeFalse)
			So(match.Reason, ShouldContainSubstring, "gc")
		})
	})
}

func TestAndFilter(t *testing.T) {
	Convey("An and-filter", t, func() {
		f := NewAndFilter(
			NewTIDFilter([]int{10}),
			NewNameFilter(regexp.MustCompile("^worker-")),
			nil,
		)

		Convey("should match only if all parts match.", func() {
			So(f.Filter(&ThreadIdentity{TID: 10, Name: "worker-1"}).Result, ShouldBeTrue)
			So(f.Filter(&ThreadIdentity{TID: 10, Name: "main"}).Result, ShouldBeFalse)
			So(f.Filter(&ThreadIdentity{TID: 11, Name: "worker-1"}).Result, ShouldBeFalse)
		})

		Convey("should carry the reason of the first mismatch.", func() {
			match := f.Filter(&ThreadIdentity{TID: 11, Name: "worker-1"})
			So(match.Reason, ShouldContainSubstring, "TID")
		})
	})
}
