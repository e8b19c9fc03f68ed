package output

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"

	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/procio"
	"github.com/fkie-cad/loadscan/report"
)

type mockArchiver struct {
	mock.Mock

	buffers map[string]*bytes.Buffer
}

func newMockArchiver() *mockArchiver {
	return &mockArchiver{
		buffers: make(map[string]*bytes.Buffer),
	}
}

func (m *mockArchiver) Create(name string) (io.WriteCloser, error) {
	args := m.Called(name)

	buf := &bytes.Buffer{}
	m.buffers[name] = buf
	return NewNopWriteCloser(buf), args.Error(0)
}

func (m *mockArchiver) Close() error {
	args := m.Called()
	return args.Error(0)
}

type stubProcess struct {
	pid  int
	info *procio.ProcessInfo
}

func (p *stubProcess) Close() error                       { return nil }
func (p *stubProcess) String() string                     { return procio.FormatPID(p.pid) }
func (p *stubProcess) PID() int                           { return p.pid }
func (p *stubProcess) Info() (*procio.ProcessInfo, error) { return p.info, nil }
func (p *stubProcess) Threads() ([]procio.Thread, error)  { return nil, nil }

func TestTelemetryReporter(t *testing.T) {
	archiver := newMockArchiver()
	defer archiver.AssertExpectations(t)

	Convey("A telemetry reporter", t, func() {
		archiver.On("Create", report.MetaFileName).Return(nil).Once()

		reporter, err := NewTelemetryReporterFactory(archiver).Build()
		So(err, ShouldBeNil)

		Convey("should report meta information on build.", func() {
			var meta report.MetaInformation
			err := json.Unmarshal(archiver.buffers[report.MetaFileName].Bytes(), &meta)
			So(err, ShouldBeNil)
			So(meta.FormatVersion.String(), ShouldEqual, report.FormatVersion.String())
		})

		Convey("consuming emitted progress", func() {
			archiver.On("Create", report.ProcessesFileName).Return(nil).Once()
			archiver.On("Create", report.ThreadLoadsFileName).Return(nil).Once()

			proc := &stubProcess{
				pid: 1234,
				info: &procio.ProcessInfo{
					PID:            1234,
					ExecutablePath: "/usr/bin/someserver",
					Username:       "daemon",
					NumThreads:     2,
				},
			}

			progress := make(chan *loadscan.ProfileProgress, 3)
			progress <- &loadscan.ProfileProgress{
				Process: proc, TID: 17, ThreadName: "worker",
				Emitted: true,
				Result:  &loadscan.LoadResult{UserFraction: 0.25, SystemFraction: 0.125},
			}
			progress <- &loadscan.ProfileProgress{
				Process: proc, TID: 18, ThreadName: "idle",
				Emitted: false,
			}
			progress <- &loadscan.ProfileProgress{
				Process: proc, TID: 17, ThreadName: "worker",
				Emitted: true,
				Result:  &loadscan.LoadResult{UserFraction: 0.5, SystemFraction: 0},
			}
			close(progress)

			So(reporter.ConsumeProfileProgress(progress), ShouldBeNil)

			Convey("should report the process once.", func() {
				var info procio.ProcessInfo
				err := json.Unmarshal(archiver.buffers[report.ProcessesFileName].Bytes(), &info)
				So(err, ShouldBeNil)
				So(info.PID, ShouldEqual, 1234)
			})

			Convey("should report only the emitted load events.", func() {
				dec := json.NewDecoder(archiver.buffers[report.ThreadLoadsFileName])

				loads := make([]*report.ThreadLoad, 0)
				for dec.More() {
					var load report.ThreadLoad
					So(dec.Decode(&load), ShouldBeNil)
					loads = append(loads, &load)
				}

				So(loads, ShouldHaveLength, 2)
				So(loads[0].TID, ShouldEqual, 17)
				So(loads[0].UserLoad, ShouldEqual, 0.25)
				So(loads[0].SystemLoad, ShouldEqual, 0.125)
				So(loads[1].UserLoad, ShouldEqual, 0.5)
			})

			So(reporter.Close(), ShouldBeNil)
		})
	})
}
