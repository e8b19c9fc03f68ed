package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/procio"
	"github.com/fkie-cad/loadscan/system"
)

type progressReporter struct {
	out       io.WriteCloser
	formatter ProgressFormatter

	pid           int
	samplesTaken  uint64
	eventsEmitted uint64
}

// NewProgressReporter creates a new Reporter, which will write profiling
// progress to the given io.WriteCloser out using the ProgressFormatter
// formatter for formatting.
// This Reporter is intended for live updates to the console, hence
// ReportSystemInfo() and ReportStatistics() do nothing.
func NewProgressReporter(out io.WriteCloser, formatter ProgressFormatter) Reporter {
	return &progressReporter{out: out, formatter: formatter, pid: -1}
}

func (r *progressReporter) ReportSystemInfo(info *system.Info) error {
	// Don't report systeminfo to stdout
	return nil
}

func (r *progressReporter) ReportStatistics(stats *loadscan.Statistics) error {
	// Don't report statistics to stdout, the summary happens on Close
	return nil
}

func (r *progressReporter) reportProcess(proc procio.Process) error {
	info, err := proc.Info()
	if err != nil {
		logrus.WithError(err).Warn("Could not retrieve complete process info.")
	}
	_, err = fmt.Fprintf(r.out, "\nProfiling process \"%s\" (%d) by user \"%s\"...\n",
		info.ExecutablePath, proc.PID(), info.Username)
	return err
}

func (r *progressReporter) receive(prog *loadscan.ProfileProgress) {
	if r.pid != prog.Process.PID() {
		r.pid = prog.Process.PID()
		err := r.reportProcess(prog.Process)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"process":       prog.Process.PID(),
				logrus.ErrorKey: err,
			}).Error("Could not report on process.")
		}
	}

	r.samplesTaken++
	if prog.Emitted {
		r.eventsEmitted++
	}

	line := r.formatter.FormatProfileProgress(prog)
	if line != "" {
		fmt.Fprintln(r.out, line)
	}
}

// ConsumeProfileProgress consumes and prints all *loadscan.ProfileProgress
// instances sent in the given channel.
func (r *progressReporter) ConsumeProfileProgress(progress <-chan *loadscan.ProfileProgress) error {
	for prog := range progress {
		r.receive(prog)
	}
	return nil
}

func (r *progressReporter) Close() error {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Took %s samples, emitted %s load events.\n",
		humanize.Comma(int64(r.samplesTaken)), humanize.Comma(int64(r.eventsEmitted)))
	return r.out.Close()
}

// ProgressFormatter formats ProfileProgress instances for display.
type ProgressFormatter interface {
	FormatProfileProgress(prog *loadscan.ProfileProgress) string
}

type prettyFormatter struct{}

func NewPrettyFormatter() ProgressFormatter {
	return &prettyFormatter{}
}

// FormatThreadName pads or truncates the given thread name to exactly
// maxlen characters. Truncation is marked with "...".
func (p prettyFormatter) FormatThreadName(name string, maxlen int) string {
	if len(name) <= maxlen {
		return fmt.Sprintf("%-*s", maxlen, name)
	}
	if maxlen <= 3 {
		return name[:maxlen]
	}
	return name[:maxlen-3] + "..."
}

func (p prettyFormatter) formatPercent(fraction float64) string {
	return fmt.Sprintf("%5.1f%%", fraction*100.)
}

func (p prettyFormatter) FormatProfileProgress(prog *loadscan.ProfileProgress) string {
	if prog.Error != nil {
		return color.YellowString(
			fmt.Sprintf("%s (%d): could not sample", p.FormatThreadName(prog.ThreadName, 16), prog.TID))
	}
	if !prog.Emitted {
		return ""
	}

	total := prog.Result.UserFraction + prog.Result.SystemFraction
	colorize := color.GreenString
	if total >= 0.8 {
		colorize = color.RedString
	} else if total >= 0.5 {
		colorize = color.YellowString
	}

	return fmt.Sprintf("%s (%6d): user %s, system %s",
		p.FormatThreadName(prog.ThreadName, 16),
		prog.TID,
		colorize(p.formatPercent(prog.Result.UserFraction)),
		colorize(p.formatPercent(prog.Result.SystemFraction)))
}
