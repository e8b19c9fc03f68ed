package loadscan

import "time"

// MinCPUTimeResolution is the smallest cumulative CPU time delta considered
// to carry reliable signal. Intervals with a smaller total delta are
// suppressed entirely instead of being reported as a plausible percentage.
const MinCPUTimeResolution = int64(time.Millisecond)

// ThreadLoadState is the per-thread snapshot kept between two samples of the
// same thread. All values are cumulative nanoseconds. A zero ThreadLoadState
// is the valid cold-start baseline, the first sample is measured against it.
//
// After a clamped interval the snapshot is advanced only by the time that was
// actually reported. The unreported excess therefore remains part of the next
// interval's deltas and is credited then, instead of being lost to the clamp.
type ThreadLoadState struct {
	LastWallClock int64 `json:"lastWallClock"`
	LastUserTime  int64 `json:"lastUserTime"`
	LastTotalTime int64 `json:"lastTotalTime"`
}

// Sample is a single observation of a thread's cumulative CPU time counters,
// taken at WallClockNow. CumulativeTotalTime is user plus system time. The
// user and total counters may tick on different underlying clocks; only the
// derived system component may appear to regress because of this.
type Sample struct {
	WallClockNow        int64
	CumulativeUserTime  int64
	CumulativeTotalTime int64
	ProcessorCount      int
}

// LoadResult is the thread's share of total machine capacity over the
// sampled interval, split into user and system time.
// UserFraction+SystemFraction never exceeds 1.
type LoadResult struct {
	UserFraction   float64 `json:"userFraction"`
	SystemFraction float64 `json:"systemFraction"`
}

// LoadEstimator converts successive cumulative CPU time samples of a thread
// into bounded utilization fractions. It is a pure transformation of
// (previous snapshot, new sample) into (updated snapshot, result): it does
// not allocate, block or panic and is safe to call from restricted execution
// contexts. It is not safe for concurrent use on the same ThreadLoadState.
type LoadEstimator struct{}

// Update measures sample against state and advances state accordingly.
// It returns false without touching state if the interval carries no
// reliable signal (total CPU time delta below MinCPUTimeResolution), if the
// wall clock did not advance, or if the processor count is invalid. All
// noisy-counter conditions are handled by clamping or suppression, never by
// an error.
func (LoadEstimator) Update(state *ThreadLoadState, sample Sample) (bool, LoadResult) {
	userDelta := sample.CumulativeUserTime - state.LastUserTime
	totalDelta := sample.CumulativeTotalTime - state.LastTotalTime

	if totalDelta < MinCPUTimeResolution {
		return false, LoadResult{}
	}
	if sample.ProcessorCount < 1 {
		return false, LoadResult{}
	}
	wallDelta := sample.WallClockNow - state.LastWallClock
	if wallDelta <= 0 {
		// Driver contract violation, refuse to divide by it or to
		// corrupt the snapshot.
		return false, LoadResult{}
	}

	// The user and total counters can have different resolutions, which can
	// make the derived system time appear to shrink. Time does not go
	// backwards, so the shortfall is discarded for this interval.
	systemDelta := totalDelta - userDelta
	if systemDelta < 0 {
		systemDelta = 0
	}

	// A single thread can never exceed the machine's total capacity over
	// the interval. Anything above it is measurement coarseness; the excess
	// is removed from the user share first and, because the snapshot below
	// only advances by the reported amounts, credited to the next interval.
	totalAvailable := wallDelta * int64(sample.ProcessorCount)
	if userDelta+systemDelta > totalAvailable {
		excess := userDelta + systemDelta - totalAvailable
		if userDelta > excess {
			userDelta -= excess
		} else {
			excess -= userDelta
			userDelta = 0
			systemDelta -= excess
		}
	}

	state.LastWallClock = sample.WallClockNow
	state.LastUserTime += userDelta
	state.LastTotalTime += userDelta + systemDelta

	return true, LoadResult{
		UserFraction:   float64(userDelta) / float64(totalAvailable),
		SystemFraction: float64(systemDelta) / float64(totalAvailable),
	}
}
