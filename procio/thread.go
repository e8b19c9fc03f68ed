package procio

import "fmt"

// Thread provides access to a single thread's cumulative CPU time counters.
// It is the time source driving the load estimation: counters are expected
// to be non-decreasing, but the user and total counters may be backed by
// different clocks with different resolutions, so the derived system
// component (total minus user) can regress slightly between two queries.
// Consumers must tolerate that.
type Thread interface {
	fmt.Stringer

	TID() int
	Name() (string, error)

	// CPUTimes returns the cumulative user CPU time and the cumulative
	// user+system CPU time consumed by this thread since its creation,
	// both in nanoseconds.
	CPUTimes() (user, total int64, err error)
}
