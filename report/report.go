package report

// Report is a fully parsed profiling report.
type Report struct {
	Meta        *MetaInformation
	Stats       *Statistics
	SystemInfo  *SystemInfo
	Processes   []*ProcessInfo
	ThreadLoads []*ThreadLoad
}

type ProfilingInformation struct {
	Time               Time    `json:"time"`
	FreeRAM            uint64  `json:"freeRAM"`
	LoadAvgOneMinute   float64 `json:"loadAvgOneMinute"`
	LoadAvgFiveMinutes float64 `json:"loadAvgFiveMinutes"`
}

// Statistics holds statistic information about a profiling run.
type Statistics struct {
	Start                   Time                    `json:"start"`
	End                     Time                    `json:"end"`
	NumberOfThreadsProfiled uint64                  `json:"numberOfThreadsProfiled"`
	NumberOfSamplesTaken    uint64                  `json:"numberOfSamplesTaken"`
	NumberOfEventsEmitted   uint64                  `json:"numberOfEventsEmitted"`
	ProfilingInformation    []*ProfilingInformation `json:"profilingInformation"`
}

// SystemInfo contains information about the profiled system.
type SystemInfo struct {
	OSName    string   `json:"osName"`
	OSVersion string   `json:"osVersion"`
	OSFlavour string   `json:"osFlavour"`
	OSArch    string   `json:"osArch"`
	Hostname  string   `json:"hostname"`
	IPs       []string `json:"ips"`
	NumCPUs   int      `json:"numCPUs"`
	TotalRAM  uint64   `json:"totalRAM"`
}

// ProcessInfo represents information about a profiled process.
type ProcessInfo struct {
	PID            int    `json:"pid"`
	ExecutablePath string `json:"executablePath"`
	Username       string `json:"username"`
	NumThreads     int    `json:"numThreads"`
}

// ThreadLoad is a single emitted load event of one thread. The loads are
// fractions of one processor, in the interval [0; 1].
type ThreadLoad struct {
	PID        int     `json:"pid"`
	TID        int     `json:"tid"`
	ThreadName string  `json:"threadName"`
	Time       Time    `json:"time"`
	UserLoad   float64 `json:"userLoad"`
	SystemLoad float64 `json:"systemLoad"`
}
