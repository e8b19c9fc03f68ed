package loadscan

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fkie-cad/loadscan/procio"
)

// ProfileProgress contains all information generated for a single thread
// during one sampling pass.
type ProfileProgress struct {
	// Process contains information about the process being profiled.
	Process procio.Process
	// TID is the thread the sample belongs to.
	TID int
	// ThreadName is the thread's name at sampling time, may be empty.
	ThreadName string
	// Result contains the load fractions, or nil if nothing was emitted.
	Result *LoadResult
	// Emitted is false if the sample was suppressed by the estimator.
	Emitted bool
	// Error contains the encountered error or nil, if no error was encountered.
	Error error
}

// ThreadProfiler samples the CPU load of all threads of a single process at
// a fixed cadence. It owns one ThreadLoadState per thread; each state is
// only ever touched by the profiler's single sampling goroutine, while
// sampling that same thread.
type ThreadProfiler struct {
	proc           procio.CachingProcess
	filter         ThreadFilter
	interval       time.Duration
	processorCount int

	estimator LoadEstimator
	epoch     time.Time
	states    map[int]*ThreadLoadState
	stats     *Statistics
}

// NewThreadProfiler creates a new ThreadProfiler for the given process.
// Threads not matching the given ThreadFilter are never sampled. The
// processorCount is used to normalize the per-thread load to total machine
// capacity.
func NewThreadProfiler(proc procio.CachingProcess, filter ThreadFilter, interval time.Duration, processorCount int) *ThreadProfiler {
	return &ThreadProfiler{
		proc:           proc,
		filter:         filter,
		interval:       interval,
		processorCount: processorCount,
		epoch:          time.Now(),
		states:         make(map[int]*ThreadLoadState),
	}
}

// WithStatistics registers a *Statistics instance, which will be updated
// during profiling.
func (p *ThreadProfiler) WithStatistics(stats *Statistics) *ThreadProfiler {
	p.stats = stats
	return p
}

// Run starts asynchronous profiling.
// The returned unbuffered channel will yield ProfileProgress instances for
// every sampled thread on every tick. The channel will be closed when the
// context is cancelled or the profiled process has exited.
func (p *ThreadProfiler) Run(ctx context.Context) (<-chan *ProfileProgress, error) {
	// Fail early if the threads cannot be enumerated at all.
	_, err := p.proc.Threads()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"process":       p.proc,
			logrus.ErrorKey: err,
		}).Error("Could not enumerate threads of process.")
		return nil, err
	}

	progress := make(chan *ProfileProgress)

	go func() {
		defer close(progress)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if !p.samplingPass(ctx, progress) {
				return
			}
		}
	}()

	return progress, nil
}

// samplingPass samples every matching thread once. It returns false when
// profiling cannot continue because the process is gone.
func (p *ThreadProfiler) samplingPass(ctx context.Context, progress chan<- *ProfileProgress) bool {
	p.proc.InvalidateCache()
	threads, err := p.proc.Threads()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"process":       p.proc,
			logrus.ErrorKey: err,
		}).Info("Profiled process has exited.")
		return false
	}

	seen := make(map[int]bool, len(threads))
	for _, thread := range threads {
		seen[thread.TID()] = true

		prog := p.sampleThread(thread)
		if prog == nil {
			continue
		}
		select {
		case progress <- prog:
		case <-ctx.Done():
			return false
		}
	}

	// Forget states of threads that have exited, their TIDs may be reused.
	for tid := range p.states {
		if !seen[tid] {
			delete(p.states, tid)
		}
	}

	return true
}

func (p *ThreadProfiler) sampleThread(thread procio.Thread) *ProfileProgress {
	name, err := thread.Name()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"thread":        thread,
			logrus.ErrorKey: err,
		}).Debug("Could not determine thread name.")
	}

	if match := p.filter.Filter(&ThreadIdentity{TID: thread.TID(), Name: name}); !match.Result {
		logrus.WithFields(logrus.Fields{
			"thread": thread,
			"reason": match.Reason,
		}).Debug("Thread skipped.")
		return nil
	}

	user, total, err := thread.CPUTimes()
	if err != nil {
		// The thread may have exited between enumeration and query.
		return &ProfileProgress{
			Process:    p.proc,
			TID:        thread.TID(),
			ThreadName: name,
			Error:      err,
		}
	}

	state, ok := p.states[thread.TID()]
	if !ok {
		state = &ThreadLoadState{}
		p.states[thread.TID()] = state
		if p.stats != nil {
			p.stats.IncrementThreadsProfiled()
		}
	}

	emitted, result := p.estimator.Update(state, Sample{
		WallClockNow:        time.Since(p.epoch).Nanoseconds(),
		CumulativeUserTime:  user,
		CumulativeTotalTime: total,
		ProcessorCount:      p.processorCount,
	})

	if p.stats != nil {
		p.stats.IncrementSamplesTaken()
		if emitted {
			p.stats.IncrementEventsEmitted()
		}
	}

	prog := &ProfileProgress{
		Process:    p.proc,
		TID:        thread.TID(),
		ThreadName: name,
		Emitted:    emitted,
	}
	if emitted {
		prog.Result = &result
	}
	return prog
}
