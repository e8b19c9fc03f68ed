package output

import (
	"io"

	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/system"
)

// Reporter provides capability to report on profiling progress.
type Reporter interface {
	ReportSystemInfo(info *system.Info) error
	ReportStatistics(stats *loadscan.Statistics) error
	ConsumeProfileProgress(progress <-chan *loadscan.ProfileProgress) error
	io.Closer
}
