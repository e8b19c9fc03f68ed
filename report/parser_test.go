package report

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"golang.org/x/crypto/openpgp"
)

type bufferReader struct {
	meta        string
	systemInfo  string
	stats       string
	processes   string
	threadLoads string
}

func (rdr *bufferReader) SetPassword(password string)           {}
func (rdr *bufferReader) SetKeyring(keyring openpgp.EntityList) {}
func (rdr *bufferReader) Close() error                          { return nil }

func (rdr *bufferReader) open(s string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte(s))), nil
}

func (rdr *bufferReader) OpenMeta() (io.ReadCloser, error) {
	return rdr.open(rdr.meta)
}

func (rdr *bufferReader) OpenSystemInformation() (io.ReadCloser, error) {
	return rdr.open(rdr.systemInfo)
}

func (rdr *bufferReader) OpenStatistics() (io.ReadCloser, error) {
	return rdr.open(rdr.stats)
}

func (rdr *bufferReader) OpenProcesses() (io.ReadCloser, error) {
	return rdr.open(rdr.processes)
}

func (rdr *bufferReader) OpenThreadLoads() (io.ReadCloser, error) {
	return rdr.open(rdr.threadLoads)
}

func metaJSON(formatVersion string) string {
	return fmt.Sprintf(`{"loadscanVersion":"0.1.0","formatVersion":"%s","schemaURLs":{}}`, formatVersion)
}

const statsJSON = `{"start":"2023-04-01T12:00:00.000000Z","end":"2023-04-01T12:05:00.000000Z","numberOfThreadsProfiled":3,"numberOfSamplesTaken":100,"numberOfEventsEmitted":42,"profilingInformation":[]}`
const systemInfoJSON = `{"osName":"linux","osVersion":"6.1.0","osFlavour":"debian","osArch":"amd64","hostname":"box","ips":["10.0.0.1"],"numCPUs":8,"totalRAM":1024}`
const processesJSON = `{"pid":1234,"executablePath":"/usr/bin/someserver","username":"daemon","numThreads":3}
`

func TestParseLatestFormat(t *testing.T) {
	Convey("Parsing a report in the current format", t, func() {
		rdr := &bufferReader{
			meta:       metaJSON(FormatVersion.String()),
			systemInfo: systemInfoJSON,
			stats:      statsJSON,
			processes:  processesJSON,
			threadLoads: `{"pid":1234,"tid":17,"threadName":"worker","time":"2023-04-01T12:00:01.000000Z","userLoad":0.25,"systemLoad":0.125}
`,
		}

		rprt, err := NewParser().Parse(rdr)

		Convey("should succeed.", func() {
			So(err, ShouldBeNil)
			So(rprt, ShouldNotBeNil)
		})

		Convey("should yield the parsed parts.", func() {
			So(rprt.Meta.FormatVersion.String(), ShouldEqual, FormatVersion.String())
			So(rprt.SystemInfo.Hostname, ShouldEqual, "box")
			So(rprt.Stats.NumberOfEventsEmitted, ShouldEqual, 42)
			So(rprt.Processes, ShouldHaveLength, 1)
			So(rprt.Processes[0].PID, ShouldEqual, 1234)
			So(rprt.ThreadLoads, ShouldHaveLength, 1)
			So(rprt.ThreadLoads[0].TID, ShouldEqual, 17)
			So(rprt.ThreadLoads[0].UserLoad, ShouldEqual, 0.25)
			So(rprt.ThreadLoads[0].SystemLoad, ShouldEqual, 0.125)
		})
	})
}

func TestParseV100Format(t *testing.T) {
	Convey("Parsing a v1.0.0 report", t, func() {
		rdr := &bufferReader{
			meta:       metaJSON("1.0.0"),
			systemInfo: systemInfoJSON,
			stats:      statsJSON,
			processes:  processesJSON,
			threadLoads: `{"pid":1234,"tid":17,"threadName":"worker","time":"2023-04-01T12:00:01.000000Z","userLoadPercent":25,"systemLoadPercent":12.5}
`,
		}

		rprt, err := NewParser().Parse(rdr)

		Convey("should succeed.", func() {
			So(err, ShouldBeNil)
		})

		Convey("should migrate the percentages to fractions.", func() {
			So(rprt.ThreadLoads, ShouldHaveLength, 1)
			So(rprt.ThreadLoads[0].UserLoad, ShouldEqual, 0.25)
			So(rprt.ThreadLoads[0].SystemLoad, ShouldEqual, 0.125)
		})
	})
}

func TestParseUnsupportedVersion(t *testing.T) {
	Convey("Parsing a report with an unsupported version", t, func() {
		rdr := &bufferReader{meta: metaJSON("0.9.0")}

		_, err := NewParser().Parse(rdr)

		Convey("should fail.", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTimeRoundtrip(t *testing.T) {
	Convey("A report time", t, func() {
		orig := Time{time.Date(2023, 4, 1, 12, 0, 1, 500000000, time.UTC)}

		Convey("should survive a JSON roundtrip.", func() {
			b, err := orig.MarshalJSON()
			So(err, ShouldBeNil)

			var parsed Time
			So(parsed.UnmarshalJSON(b), ShouldBeNil)
			So(parsed.Unix(), ShouldEqual, orig.Unix())
		})

		Convey("should parse RFC3339 as emitted for a plain time.Time.", func() {
			var parsed Time
			So(parsed.UnmarshalJSON([]byte(`"2023-04-01T12:00:01.5Z"`)), ShouldBeNil)
			So(parsed.Nanosecond(), ShouldEqual, 500000000)
		})
	})
}
