package output

import "github.com/targodan/go-errors"

type TelemetryReporterFactory struct {
	reporter *TelemetryReporter
}

func NewTelemetryReporterFactory(archiver Archiver) *TelemetryReporterFactory {
	return &TelemetryReporterFactory{
		reporter: &TelemetryReporter{
			archiver:      archiver,
			seenProcesses: make(map[int]bool),
		},
	}
}

// AutoCloseArchiver makes the built reporter close its Archiver when the
// reporter itself is closed.
func (f *TelemetryReporterFactory) AutoCloseArchiver() *TelemetryReporterFactory {
	f.reporter.closeArchiver = true
	return f
}

func (f *TelemetryReporterFactory) WithFilenamePrefix(prefix string) *TelemetryReporterFactory {
	f.reporter.filenamePrefix = prefix
	return f
}

func (f *TelemetryReporterFactory) Build() (*TelemetryReporter, error) {
	err := f.reporter.reportMeta()
	if err != nil {
		return nil, errors.NewMultiError(err, f.reporter.Close())
	}
	return f.reporter, nil
}
