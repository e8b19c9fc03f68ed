package system

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCPULoad(t *testing.T) {
	Convey("Retrieving CPU load should yield normalized values", t, func() {
		// wait for two cycles
		time.Sleep(MaxCPULoadResolution * 2)

		avg1, avg5, avg15 := CPULoad()
		So(avg1, ShouldBeGreaterThanOrEqualTo, 0.)
		So(avg5, ShouldBeGreaterThanOrEqualTo, 0.)
		So(avg15, ShouldBeGreaterThanOrEqualTo, 0.)
	})
}
