package output

import (
	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/system"
)

// Filter decides which parts of the profiling output reach the wrapped
// Reporter. Returning nil drops the record.
type Filter interface {
	Chain(f Filter) Filter

	FilterSystemInfo(info *system.Info) *system.Info
	FilterStatistics(stats *loadscan.Statistics) *loadscan.Statistics
	FilterProfileProgress(prog *loadscan.ProfileProgress) *loadscan.ProfileProgress
}

// FilteringReporter wraps a Reporter, discarding everything its Filter
// drops.
type FilteringReporter struct {
	Reporter Reporter
	Filter   Filter
}

func (r *FilteringReporter) ReportSystemInfo(info *system.Info) error {
	info = r.Filter.FilterSystemInfo(info)
	if info == nil {
		return nil
	}
	return r.Reporter.ReportSystemInfo(info)
}

func (r *FilteringReporter) ReportStatistics(stats *loadscan.Statistics) error {
	stats = r.Filter.FilterStatistics(stats)
	if stats == nil {
		return nil
	}
	return r.Reporter.ReportStatistics(stats)
}

func (r *FilteringReporter) ConsumeProfileProgress(progress <-chan *loadscan.ProfileProgress) error {
	c := make(chan *loadscan.ProfileProgress)

	go func() {
		defer close(c)

		for prog := range progress {
			prog = r.Filter.FilterProfileProgress(prog)
			if prog == nil {
				continue
			}
			c <- prog
		}
	}()

	return r.Reporter.ConsumeProfileProgress(c)
}

func (r *FilteringReporter) Close() error {
	return r.Reporter.Close()
}

type chainedFilter struct {
	first  Filter
	second Filter
}

func (f *chainedFilter) Chain(other Filter) Filter {
	return &chainedFilter{
		first:  f,
		second: other,
	}
}

func (f *chainedFilter) FilterSystemInfo(info *system.Info) *system.Info {
	info = f.first.FilterSystemInfo(info)
	if info == nil {
		return nil
	}
	return f.second.FilterSystemInfo(info)
}

func (f *chainedFilter) FilterStatistics(stats *loadscan.Statistics) *loadscan.Statistics {
	stats = f.first.FilterStatistics(stats)
	if stats == nil {
		return nil
	}
	return f.second.FilterStatistics(stats)
}

func (f *chainedFilter) FilterProfileProgress(prog *loadscan.ProfileProgress) *loadscan.ProfileProgress {
	prog = f.first.FilterProfileProgress(prog)
	if prog == nil {
		return nil
	}
	return f.second.FilterProfileProgress(prog)
}

type noEmptyProgressFilter struct{}

// NewNoEmptyProgressFilter creates a Filter which drops suppressed samples
// and sampling errors, keeping only actually emitted load events.
func NewNoEmptyProgressFilter() Filter {
	return &noEmptyProgressFilter{}
}

func (f *noEmptyProgressFilter) Chain(other Filter) Filter {
	return &chainedFilter{
		first:  f,
		second: other,
	}
}

func (f *noEmptyProgressFilter) FilterSystemInfo(info *system.Info) *system.Info {
	return info
}

func (f *noEmptyProgressFilter) FilterStatistics(stats *loadscan.Statistics) *loadscan.Statistics {
	return stats
}

func (f *noEmptyProgressFilter) FilterProfileProgress(prog *loadscan.ProfileProgress) *loadscan.ProfileProgress {
	if prog.Error != nil || !prog.Emitted {
		return nil
	}
	return prog
}

type minLoadFilter struct {
	minLoad float64
}

// NewMinLoadFilter creates a Filter which drops emitted load events whose
// combined user and system fraction is below the given minimum. Suppressed
// samples and errors pass through unchanged.
func NewMinLoadFilter(minLoad float64) Filter {
	return &minLoadFilter{minLoad: minLoad}
}

func (f *minLoadFilter) Chain(other Filter) Filter {
	return &chainedFilter{
		first:  f,
		second: other,
	}
}

func (f *minLoadFilter) FilterSystemInfo(info *system.Info) *system.Info {
	return info
}

func (f *minLoadFilter) FilterStatistics(stats *loadscan.Statistics) *loadscan.Statistics {
	return stats
}

func (f *minLoadFilter) FilterProfileProgress(prog *loadscan.ProfileProgress) *loadscan.ProfileProgress {
	if prog.Result != nil && prog.Result.UserFraction+prog.Result.SystemFraction < f.minLoad {
		return nil
	}
	return prog
}
