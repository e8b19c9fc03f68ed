package system

import (
	"sync"
	"time"

	"github.com/fkie-cad/loadscan/procio/customWin32"

	"github.com/sirupsen/logrus"
)

const fifteenMinutes = 15
const valuesPerMinute = 5 // 1 / 0.2 = 5

// Windows has no native load average, so one is tracked from the
// system-wide idle/kernel/user times polled every loadPollIntervalWindows.
type cpuLoadTracker struct {
	mux               *sync.Mutex
	minuteAvgBuffer   []float64
	bufferInitialized bool
}

func newCpuLoadTracker() *cpuLoadTracker {
	return &cpuLoadTracker{
		mux:               new(sync.Mutex),
		minuteAvgBuffer:   make([]float64, fifteenMinutes*valuesPerMinute),
		bufferInitialized: false,
	}
}

func (t *cpuLoadTracker) addValue(value float64) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.bufferInitialized {
		t.minuteAvgBuffer = append(t.minuteAvgBuffer[1:], value)
	} else {
		for i := range t.minuteAvgBuffer {
			t.minuteAvgBuffer[i] = value
		}
		t.bufferInitialized = true
	}
}

func (t *cpuLoadTracker) average(numValues int) float64 {
	t.mux.Lock()
	defer t.mux.Unlock()

	last := len(t.minuteAvgBuffer) - 1

	var sum float64
	for i := 0; i < numValues; i++ {
		sum += t.minuteAvgBuffer[last-i]
	}

	return sum / float64(numValues)
}

func (t *cpuLoadTracker) track() {
	lastIdle, lastKernel, lastUser, err := customWin32.GetSystemTimes()
	if err != nil {
		logrus.WithError(err).Error("could not query system load")
	}

	for range time.Tick(loadPollIntervalWindows) {
		idle, kernel, user, err := customWin32.GetSystemTimes()
		if err != nil {
			logrus.WithError(err).Error("could not query system load")
			continue
		}

		// Kernel time includes idle time.
		idleDelta := idle - lastIdle
		totalDelta := (kernel - lastKernel) + (user - lastUser)
		if totalDelta > 0 {
			t.addValue(float64(totalDelta-idleDelta) / float64(totalDelta))
		}

		lastIdle, lastKernel, lastUser = idle, kernel, user
	}
}

var loadTracker *cpuLoadTracker

func init() {
	loadTracker = newCpuLoadTracker()
	go loadTracker.track()
}

func cpuLoad() (oneMinuteAvg, fiveMinuteAvg, fifteenMinuteAvg float64) {
	return loadTracker.average(valuesPerMinute),
		loadTracker.average(valuesPerMinute * 5),
		loadTracker.average(valuesPerMinute * 15)
}
