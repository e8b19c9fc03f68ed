package output

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fkie-cad/loadscan"
)

func TestNoEmptyProgressFilter(t *testing.T) {
	Convey("A no-empty-progress filter", t, func() {
		filter := NewNoEmptyProgressFilter()

		Convey("should pass emitted progress unchanged.", func() {
			prog := &loadscan.ProfileProgress{
				Emitted: true,
				Result:  &loadscan.LoadResult{UserFraction: 0.5, SystemFraction: 0.25},
			}
			So(filter.FilterProfileProgress(prog), ShouldEqual, prog)
		})

		Convey("should drop non-emitted progress.", func() {
			prog := &loadscan.ProfileProgress{Emitted: false}
			So(filter.FilterProfileProgress(prog), ShouldBeNil)
		})
	})
}

func TestMinLoadFilter(t *testing.T) {
	Convey("A min-load filter with a threshold of 0.5", t, func() {
		filter := NewMinLoadFilter(0.5)

		Convey("should pass progress at or above the threshold.", func() {
			prog := &loadscan.ProfileProgress{
				Emitted: true,
				Result:  &loadscan.LoadResult{UserFraction: 0.3, SystemFraction: 0.2},
			}
			So(filter.FilterProfileProgress(prog), ShouldEqual, prog)
		})

		Convey("should drop emitted progress below the threshold.", func() {
			prog := &loadscan.ProfileProgress{
				Emitted: true,
				Result:  &loadscan.LoadResult{UserFraction: 0.2, SystemFraction: 0.2},
			}
			So(filter.FilterProfileProgress(prog), ShouldBeNil)
		})

		Convey("should pass non-emitted progress untouched.", func() {
			prog := &loadscan.ProfileProgress{Emitted: false}
			So(filter.FilterProfileProgress(prog), ShouldEqual, prog)
		})
	})
}

func TestChainedFilter(t *testing.T) {
	Convey("Chaining a no-empty filter with a min-load filter", t, func() {
		filter := NewNoEmptyProgressFilter().Chain(NewMinLoadFilter(0.5))

		Convey("should apply both filters.", func() {
			dropped := &loadscan.ProfileProgress{Emitted: false}
			tooLow := &loadscan.ProfileProgress{
				Emitted: true,
				Result:  &loadscan.LoadResult{UserFraction: 0.1, SystemFraction: 0.1},
			}
			passed := &loadscan.ProfileProgress{
				Emitted: true,
				Result:  &loadscan.LoadResult{UserFraction: 0.9, SystemFraction: 0.0},
			}

			So(filter.FilterProfileProgress(dropped), ShouldBeNil)
			So(filter.FilterProfileProgress(tooLow), ShouldBeNil)
			So(filter.FilterProfileProgress(passed), ShouldEqual, passed)
		})
	})
}
