package procio

import (
	"fmt"
	"io"
	"sync"
)

// ProcessInfo represents information about a Process.
type ProcessInfo struct {
	PID            int    `json:"pid"`
	ExecutablePath string `json:"executablePath"`
	Username       string `json:"username"`
	NumThreads     int    `json:"numThreads"`
}

// Process provides capability to retrieve information about another process
// and to enumerate its threads.
type Process interface {
	io.Closer
	fmt.Stringer

	PID() int
	Info() (*ProcessInfo, error)
	Threads() ([]Thread, error)
}

// CachingProcess is a Process that caches *ProcessInfo and the thread list.
// This cache will only be updated after InvalidateCache was called.
type CachingProcess interface {
	Process
	InvalidateCache()
}

// OpenProcess opens another process for thread enumeration and CPU time
// sampling.
func OpenProcess(pid int) (CachingProcess, error) {
	proc, err := open(pid)
	if err != nil {
		return nil, err
	}
	return Cache(proc), nil
}

func Cache(proc Process) CachingProcess {
	return &cachingProcess{
		proc:        proc,
		infoMutex:   &sync.RWMutex{},
		threadMutex: &sync.RWMutex{},
	}
}

type cachingProcess struct {
	proc        Process
	infoCache   *ProcessInfo
	threadCache []Thread
	infoMutex   *sync.RWMutex
	threadMutex *sync.RWMutex
}

func (c *cachingProcess) Close() error {
	return c.proc.Close()
}

func (c *cachingProcess) String() string {
	return c.proc.String()
}

func (c *cachingProcess) PID() int {
	return c.proc.PID()
}

func (c *cachingProcess) Info() (*ProcessInfo, error) {
	info := func() *ProcessInfo {
		c.infoMutex.RLock()
		defer c.infoMutex.RUnlock()

		return c.infoCache
	}()

	var err error
	if info == nil {
		info, err = func() (*ProcessInfo, error) {
			c.infoMutex.Lock()
			defer c.infoMutex.Unlock()

			c.infoCache, err = c.proc.Info()
			return c.infoCache, err
		}()
	}
	return info, err
}

func (c *cachingProcess) Threads() ([]Thread, error) {
	threads := func() []Thread {
		c.threadMutex.RLock()
		defer c.threadMutex.RUnlock()

		return c.threadCache
	}()

	var err error
	if threads == nil {
		threads, err = func() ([]Thread, error) {
			c.threadMutex.Lock()
			defer c.threadMutex.Unlock()

			c.threadCache, err = c.proc.Threads()
			return c.threadCache, err
		}()
	}

	return threads, err
}

func (c *cachingProcess) InvalidateCache() {
	func() {
		c.threadMutex.Lock()
		defer c.threadMutex.Unlock()
		c.threadCache = nil
	}()
	func() {
		c.infoMutex.Lock()
		defer c.infoMutex.Unlock()
		c.infoCache = nil
	}()
}
