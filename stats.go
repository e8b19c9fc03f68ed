package loadscan

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fkie-cad/loadscan/system"
)

// ProfilingInformation is a point-in-time snapshot of the host's own load,
// gathered while profiling runs. It makes visible how much the observed
// load was influenced by overall system pressure.
type ProfilingInformation struct {
	Time               time.Time `json:"time"`
	FreeRAM            uint64    `json:"freeRAM"`
	LoadAvgOneMinute   float64   `json:"loadAvgOneMinute"`
	LoadAvgFiveMinutes float64   `json:"loadAvgFiveMinutes"`
}

// Statistics holds statistic information about a profiling run.
type Statistics struct {
	Start                   time.Time               `json:"start"`
	End                     time.Time               `json:"end"`
	NumberOfThreadsProfiled uint64                  `json:"numberOfThreadsProfiled"`
	NumberOfSamplesTaken    uint64                  `json:"numberOfSamplesTaken"`
	NumberOfEventsEmitted   uint64                  `json:"numberOfEventsEmitted"`
	ProfilingInformation    []*ProfilingInformation `json:"profilingInformation"`

	mux *sync.Mutex
}

func NewStatistics() *Statistics {
	return &Statistics{
		Start:                time.Now(),
		ProfilingInformation: make([]*ProfilingInformation, 0),
		mux:                  &sync.Mutex{},
	}
}

// StartHostPolling periodically gathers host load information until the
// given context is cancelled.
func (s *Statistics) StartHostPolling(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.gatherHostInformation()
			}
		}
	}()
}

func (s *Statistics) gatherHostInformation() {
	info := &ProfilingInformation{
		Time: time.Now(),
	}

	freeRAM, err := system.GetFreeRAM()
	if err != nil {
		logrus.WithError(err).Warn("Could not determine free RAM.")
	} else {
		info.FreeRAM = freeRAM
	}
	info.LoadAvgOneMinute, info.LoadAvgFiveMinutes, _ = system.CPULoad()

	s.mux.Lock()
	defer s.mux.Unlock()
	s.ProfilingInformation = append(s.ProfilingInformation, info)
}

func (s *Statistics) IncrementThreadsProfiled() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.NumberOfThreadsProfiled++
}

func (s *Statistics) IncrementSamplesTaken() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.NumberOfSamplesTaken++
}

func (s *Statistics) IncrementEventsEmitted() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.NumberOfEventsEmitted++
}

// Finalize sets the end time of the profiling run.
func (s *Statistics) Finalize() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.End = time.Now()
}
