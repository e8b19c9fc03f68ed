package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"

	"github.com/fkie-cad/loadscan"
	"github.com/fkie-cad/loadscan/archiver"
	"github.com/fkie-cad/loadscan/output"
	"github.com/fkie-cad/loadscan/pgp"
	"github.com/fkie-cad/loadscan/procio"
	"github.com/fkie-cad/loadscan/system"
)

const defaultSampleInterval = 1 * time.Second

const hostPollingInterval = 1 * time.Minute

func buildWriteCloserBuilder(c *cli.Context) (*output.WriteCloserBuilder, error) {
	if c.String("password") != "" && c.String("pgpkey") != "" {
		return nil, fmt.Errorf("cannot encrypt with both pgp key and a password")
	}

	wcBuilder := output.NewWriteCloserBuilder()
	if c.String("password") != "" {
		wcBuilder.Append(output.PGPSymmetricEncryptionDecorator(c.String("password"), true))
	}
	if c.String("pgpkey") != "" {
		ring, err := pgp.ReadKeyRing(c.String("pgpkey"))
		if err != nil {
			return nil, fmt.Errorf("could not read specified public pgp key, reason: %w", err)
		}
		wcBuilder.Append(output.PGPEncryptionDecorator(ring, true))
	}
	wcBuilder.Append(output.ZSTDCompressionDecorator())
	return wcBuilder, nil
}

func buildTelemetryArchiver(c *cli.Context, reportName string) (output.Archiver, error) {
	if c.String("forward-to") != "" {
		remote, err := archiver.NewRemoteArchiver(c.String("forward-to"))
		if err != nil {
			return nil, fmt.Errorf("could not initialize remote archiver, reason: %w", err)
		}
		if c.String("server-ca") != "" {
			err = remote.SetServerCA(c.String("server-ca"))
			if err != nil {
				return nil, err
			}
		}
		if c.String("client-cert") != "" {
			err = remote.SetClientCert(c.String("client-cert"), c.String("client-key"))
			if err != nil {
				return nil, err
			}
		}
		err = remote.InitReport(reportName)
		if err != nil {
			return nil, fmt.Errorf("could not register report with remote server, reason: %w", err)
		}
		return remote, nil
	}

	wcBuilder, err := buildWriteCloserBuilder(c)
	if err != nil {
		return nil, err
	}

	archivePath := filepath.Join(
		c.String("report-dir"),
		fmt.Sprintf("%s.tar%s", reportName, wcBuilder.SuggestedFileExtension()))
	archiveFile, err := os.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return nil, errors.Errorf("could not create report archive \"%s\", reason: %w", archivePath, err)
	}
	// archiveFile is closed by the decorated WriteCloser

	decorated, err := wcBuilder.Build(archiveFile)
	if err != nil {
		return nil, errors.Errorf("could not initialize report archive, reason: %w", err)
	}

	fmt.Printf("Full report will be written to \"%s\".\n", archivePath)
	return archiver.NewTarArchiver(decorated), nil
}

func mergeProgress(channels []<-chan *loadscan.ProfileProgress) <-chan *loadscan.ProfileProgress {
	merged := make(chan *loadscan.ProfileProgress)

	wg := &sync.WaitGroup{}
	wg.Add(len(channels))
	for _, c := range channels {
		go func(c <-chan *loadscan.ProfileProgress) {
			defer wg.Done()
			for prog := range c {
				merged <- prog
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	return merged
}

func profile(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	filter, err := buildThreadFilter(c)
	if err != nil {
		return err
	}

	if c.NArg() == 0 && !c.Bool("all") {
		return errors.Newf("expected at least one argument or flag \"--all\", got zero")
	}

	var pids []int
	if c.Bool("all") {
		pids, err = procio.GetRunningPIDs()
		if err != nil {
			return errors.Newf("could not enumerate PIDs, reason: %w", err)
		}
	} else {
		pids = make([]int, c.NArg())
		for i := 0; i < c.NArg(); i += 1 {
			pids[i], err = strconv.Atoi(c.Args().Get(i))
			if err != nil {
				return errors.Newf("argument \"%s\" is not a pid: %w", c.Args().Get(i), err)
			}
		}
	}

	sysinfo, err := system.GetInfo()
	if err != nil {
		logrus.WithError(err).Warn("Could not determine complete system info.")
		hostname, _ := os.Hostname()
		sysinfo = &system.Info{
			Hostname: hostname,
			NumCPUs:  runtime.NumCPU(),
		}
	}

	processorCount := sysinfo.NumCPUs
	if processorCount < 1 {
		processorCount = runtime.NumCPU()
	}

	var reporter output.Reporter
	reporter = output.NewProgressReporter(os.Stdout, output.NewPrettyFormatter())
	if c.Bool("full-report") || c.String("forward-to") != "" {
		reportName := fmt.Sprintf("%s_%s", sysinfo.Hostname, time.Now().UTC().Format("2006-01-02_15-04-05"))
		telemetryArchiver, err := buildTelemetryArchiver(c, reportName)
		if err != nil {
			return err
		}
		telemetry, err := output.NewTelemetryReporterFactory(telemetryArchiver).
			AutoCloseArchiver().
			WithFilenamePrefix(sysinfo.Hostname + "/").
			Build()
		if err != nil {
			return errors.Errorf("could not initialize telemetry reporter, reason: %w", err)
		}
		reporter = &output.MultiReporter{
			Reporters: []output.Reporter{
				reporter,
				telemetry,
			},
		}
	}
	if c.Float64("min-load") > 0 {
		reporter = &output.FilteringReporter{
			Reporter: reporter,
			Filter:   output.NewMinLoadFilter(c.Float64("min-load")),
		}
	}
	defer func() {
		err := reporter.Close()
		if err != nil {
			fmt.Println(err)
			logrus.WithError(err).Error("Error closing reporter.")
		}
	}()

	err = reporter.ReportSystemInfo(sysinfo)
	if err != nil {
		logrus.WithError(err).Error("Could not report on system infos.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if c.Duration("duration") > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.Duration("duration"))
	}
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	go func() {
		<-signalChan
		logrus.Info("Received interrupt, stopping profiling...")
		cancel()
	}()

	stats := loadscan.NewStatistics()
	stats.StartHostPolling(ctx, hostPollingInterval)

	procs := make([]procio.CachingProcess, 0, len(pids))
	channels := make([]<-chan *loadscan.ProfileProgress, 0, len(pids))
	for _, pid := range pids {
		proc, err := procio.OpenProcess(pid)
		if err != nil {
			logrus.WithError(err).Errorf("could not open process %d for profiling", pid)
			continue
		}
		procs = append(procs, proc)

		profiler := loadscan.NewThreadProfiler(proc, filter, c.Duration("sample-interval"), processorCount).
			WithStatistics(stats)
		progress, err := profiler.Run(ctx)
		if err != nil {
			logrus.WithError(err).Errorf("could not start profiling of process %d", pid)
			continue
		}
		channels = append(channels, progress)
	}
	defer func() {
		for _, proc := range procs {
			if err := proc.Close(); err != nil {
				logrus.Error(err)
			}
		}
	}()

	if len(channels) == 0 {
		return errors.New("could not profile any of the requested processes")
	}

	err = reporter.ConsumeProfileProgress(mergeProgress(channels))
	if err != nil {
		logrus.WithError(err).Error("an error occurred during progress report, there may be no other output")
	}

	stats.Finalize()
	err = reporter.ReportStatistics(stats)
	if err != nil {
		logrus.WithError(err).Error("Could not report on statistics.")
	}

	return nil
}
