package output

import (
	"sync"

	"github.com/targodan/go-errors"

	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/system"
)

// MultiReporter is a Reporter which reports all information it receives
// to all given Reporters.
type MultiReporter struct {
	Reporters []Reporter
}

// ReportSystemInfo reports the given info about the running system.
func (r *MultiReporter) ReportSystemInfo(info *system.Info) error {
	var err error
	for _, rep := range r.Reporters {
		err = errors.NewMultiError(err, rep.ReportSystemInfo(info))
	}
	return err
}

// ReportStatistics reports the given statistics about the profiling run.
func (r *MultiReporter) ReportStatistics(stats *loadscan.Statistics) error {
	var err error
	for _, rep := range r.Reporters {
		err = errors.NewMultiError(err, rep.ReportStatistics(stats))
	}
	return err
}

// ConsumeProfileProgress consumes and reports all *loadscan.ProfileProgress
// instances sent in the given channel.
func (r *MultiReporter) ConsumeProfileProgress(progress <-chan *loadscan.ProfileProgress) error {
	wg := &sync.WaitGroup{}
	chans := make([]chan *loadscan.ProfileProgress, len(r.Reporters))
	wg.Add(len(chans))
	for i := range chans {
		chans[i] = make(chan *loadscan.ProfileProgress)

		go func(i int) {
			r.Reporters[i].ConsumeProfileProgress(chans[i])
			wg.Done()
		}(i)
	}
	for prog := range progress {
		for i := range chans {
			chans[i] <- prog
		}
	}
	for i := range chans {
		close(chans[i])
	}
	wg.Wait()
	return nil
}

// Close closes all reporters.
func (r *MultiReporter) Close() error {
	var err error
	for _, rep := range r.Reporters {
		err = errors.NewMultiError(err, rep.Close())
	}
	return err
}
