package output

import (
	"encoding/json"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"

	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/report"
	"github.com/fkie-cad/loadscan/system"
)

// TelemetryReporter implements a Reporter which stores the emitted load
// events and the run's surrounding information as a report, intended for
// later analysis. One JSON document per line is written per report file.
type TelemetryReporter struct {
	archiver       Archiver
	closeArchiver  bool
	filenamePrefix string

	threadLoadsOut io.WriteCloser
	processesOut   io.WriteCloser

	seenProcesses map[int]bool
}

func (r *TelemetryReporter) reportMeta() error {
	out, err := r.archiver.Create(r.filenamePrefix + report.MetaFileName)
	if err != nil {
		return err
	}
	err = json.NewEncoder(out).Encode(report.GetMetaInformation())
	return errors.NewMultiError(err, out.Close())
}

// ReportSystemInfo reports the given info about the running system.
func (r *TelemetryReporter) ReportSystemInfo(info *system.Info) error {
	out, err := r.archiver.Create(r.filenamePrefix + report.SystemInfoFileName)
	if err != nil {
		return err
	}
	err = json.NewEncoder(out).Encode(info)
	return errors.NewMultiError(err, out.Close())
}

// ReportStatistics reports the given statistics about the profiling run.
func (r *TelemetryReporter) ReportStatistics(stats *loadscan.Statistics) error {
	out, err := r.archiver.Create(r.filenamePrefix + report.StatisticsFileName)
	if err != nil {
		return err
	}
	err = json.NewEncoder(out).Encode(stats)
	return errors.NewMultiError(err, out.Close())
}

func (r *TelemetryReporter) reportProcess(proc *loadscan.ProfileProgress) error {
	if r.seenProcesses[proc.Process.PID()] {
		return nil
	}
	r.seenProcesses[proc.Process.PID()] = true

	info, err := proc.Process.Info()
	if err != nil {
		logrus.WithError(err).Warn("Could not retrieve complete process info.")
	}

	if r.processesOut == nil {
		r.processesOut, err = r.archiver.Create(r.filenamePrefix + report.ProcessesFileName)
		if err != nil {
			return err
		}
	}
	return json.NewEncoder(r.processesOut).Encode(info)
}

// ConsumeProfileProgress consumes and reports all *loadscan.ProfileProgress
// instances sent in the given channel. Suppressed samples and thread errors
// are not part of the report.
func (r *TelemetryReporter) ConsumeProfileProgress(progress <-chan *loadscan.ProfileProgress) error {
	var err error
	for prog := range progress {
		err = errors.NewMultiError(err, r.receive(prog))
	}
	return err
}

func (r *TelemetryReporter) receive(prog *loadscan.ProfileProgress) error {
	err := r.reportProcess(prog)

	if prog.Error != nil {
		logrus.WithFields(logrus.Fields{
			"process":       prog.Process,
			"tid":           prog.TID,
			logrus.ErrorKey: prog.Error,
		}).Debug("Could not sample thread.")
		return err
	}
	if !prog.Emitted {
		return err
	}

	if r.threadLoadsOut == nil {
		var tmpErr error
		r.threadLoadsOut, tmpErr = r.archiver.Create(r.filenamePrefix + report.ThreadLoadsFileName)
		if tmpErr != nil {
			return errors.NewMultiError(err, tmpErr)
		}
	}

	return errors.NewMultiError(err, json.NewEncoder(r.threadLoadsOut).Encode(&report.ThreadLoad{
		PID:        prog.Process.PID(),
		TID:        prog.TID,
		ThreadName: prog.ThreadName,
		Time:       report.Now(),
		UserLoad:   prog.Result.UserFraction,
		SystemLoad: prog.Result.SystemFraction,
	}))
}

// Close closes the TelemetryReporter and all of its still open report files.
func (r *TelemetryReporter) Close() error {
	var err error
	if r.threadLoadsOut != nil {
		err = errors.NewMultiError(err, r.threadLoadsOut.Close())
		r.threadLoadsOut = nil
	}
	if r.processesOut != nil {
		err = errors.NewMultiError(err, r.processesOut.Close())
		r.processesOut = nil
	}
	if r.closeArchiver {
		err = errors.NewMultiError(err, r.archiver.Close())
	}
	return err
}
