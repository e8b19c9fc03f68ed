package system

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGetInfo(t *testing.T) {
	Convey("Retrieving system information should yield plausible results", t, func() {
		info, err := GetInfo()
		So(err, ShouldBeNil)
		So(info.OSName, ShouldNotBeEmpty)
		So(info.OSVersion, ShouldNotBeEmpty)
		So(info.OSArch, ShouldNotBeEmpty)
		So(info.Hostname, ShouldNotBeEmpty)
		So(info.NumCPUs, ShouldBeGreaterThan, 0)
		So(info.TotalRAM, ShouldBeGreaterThan, 0)
	})

	Convey("Retrieving system information twice should hit the cache", t, func() {
		first, err := GetInfo()
		So(err, ShouldBeNil)
		second, err := GetInfo()
		So(err, ShouldBeNil)
		So(second, ShouldEqual, first)
	})
}
