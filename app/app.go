package app

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"

	"github.com/fkie-cad/loadscan/version"
)

var onExit func()

func initAppAction(c *cli.Context) error {
	lvl, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	switch c.String("log-path") {
	case "-":
		logrus.SetOutput(os.Stdout)
	case "--":
		logrus.SetOutput(os.Stderr)
	default:
		logfile, err := os.OpenFile(c.String("log-path"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return errors.Errorf("could not open logfile for writing, reason: %w", err)
		}
		logrus.SetOutput(logfile)
		logrus.StandardLogger().ExitFunc = func(code int) {
			if onExit != nil {
				onExit()
			}
			os.Exit(code)
		}
		onExit = func() {
			logfile.Close()
		}
	}
	logrus.WithField("arguments", os.Args).Debug("Program started.")
	return nil
}

func RunApp(args []string) {
	filterFlags := []cli.Flag{
		&cli.IntSliceFlag{
			Name:    "filter-tid",
			Aliases: []string{"f-tid"},
			Usage:   "comma separated list of thread IDs to be considered, all threads if empty",
		},
		&cli.StringFlag{
			Name:    "filter-name",
			Aliases: []string{"f-name"},
			Usage:   "regular expression matched against thread names, all threads if empty",
		},
	}

	app := &cli.App{
		Name:        "loadscan",
		HelpName:    "loadscan",
		Description: "A sampling per-thread CPU load profiler for running processes with some extras.",
		Version:     version.LoadscanVersion.String(),
		Authors: []*cli.Author{
			{
				Name:  "Luca Corbatto",
				Email: "luca.corbatto@fkie.fraunhofer.de",
			},
		},
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "one of [trace, debug, info, warn, error, fatal, panic]",
				Value:   "panic",
			},
			&cli.StringFlag{
				Name:  "log-path",
				Usage: "path to the logfile, or \"-\" for stdout, or \"--\" for stderr",
				Value: "--",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "list-processes",
				Aliases: []string{"ps", "lsproc"},
				Usage:   "lists all running processes",
				Action:  listProcesses,
			},
			{
				Name:      "list-threads",
				Aliases:   []string{"lsthread"},
				Usage:     "lists all threads of a process",
				ArgsUsage: "<pid>",
				Flags:     filterFlags,
				Action:    listThreads,
			},
			{
				Name:      "profile",
				Usage:     "profiles the per-thread CPU load of processes",
				Action:    profile,
				ArgsUsage: "[pid...]",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "profile all running processes",
						Value: false,
					},
					&cli.DurationFlag{
						Name:    "sample-interval",
						Aliases: []string{"i"},
						Usage:   "time between two samples of each thread",
						Value:   defaultSampleInterval,
					},
					&cli.DurationFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "how long to profile, 0 means until interrupted",
						Value:   0,
					},
					&cli.Float64Flag{
						Name:  "min-load",
						Usage: "only display load events with at least this combined load, e.g. 0.05 for 5% of one processor",
						Value: 0,
					},
					&cli.BoolFlag{
						Name:  "full-report",
						Usage: "create a full report archive",
						Value: false,
					},
					&cli.StringFlag{
						Name:  "report-dir",
						Usage: "directory for report archives, ignored without --full-report",
						Value: ".",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "encrypt the report archive with this password, ignored without --full-report or --forward-to",
					},
					&cli.StringFlag{
						Name:  "pgpkey",
						Usage: "encrypt the report archive for this public pgp key, ignored without --full-report or --forward-to",
					},
					&cli.StringFlag{
						Name:  "forward-to",
						Usage: "URL of a loadscan receive server to forward the report to instead of storing it locally",
					},
					&cli.StringFlag{
						Name:  "server-ca",
						Usage: "file with a PEM CA certificate the forward server is verified against, ignored without --forward-to",
					},
					&cli.StringFlag{
						Name:  "client-cert",
						Usage: "file with a PEM client certificate for the forward server, ignored without --forward-to",
					},
					&cli.StringFlag{
						Name:  "client-key",
						Usage: "file with the PEM key of --client-cert, ignored without --forward-to",
					},
				}, filterFlags...),
			},
			{
				Name:      "receive",
				Usage:     "receives forwarded reports and stores them as archives",
				Action:    receive,
				ArgsUsage: "<listen address>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "report-dir",
						Aliases: []string{"o"},
						Usage:   "directory for received report archives",
						Value:   ".",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "encrypt received report archives with this password",
					},
					&cli.StringFlag{
						Name:  "pgpkey",
						Usage: "encrypt received report archives for this public pgp key",
					},
					&cli.StringFlag{
						Name:  "server-cert",
						Usage: "file with a PEM certificate to serve TLS with",
					},
					&cli.StringFlag{
						Name:  "server-key",
						Usage: "file with the PEM key of --server-cert",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "enable verbose request logging",
						Value: false,
					},
				},
			},
			{
				Name:      "export",
				Usage:     "re-packs report archives, changing their encryption",
				Action:    export,
				ArgsUsage: "<report file>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "decrypt-password",
						Usage: "password the input report archives are encrypted with",
					},
					&cli.StringFlag{
						Name:  "decrypt-pgpkey",
						Usage: "file with the private pgp key the input report archives are encrypted for",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "encrypt the output report archives with this password",
					},
					&cli.StringFlag{
						Name:  "pgpkey",
						Usage: "encrypt the output report archives for this public pgp key",
					},
					&cli.BoolFlag{
						Name:  "decrypt",
						Usage: "permanently decrypt encrypted input reports",
						Value: false,
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "directory for the re-packed report archives, next to the input if empty",
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "validates a report archive against the report schemas",
				Action:    validateReport,
				ArgsUsage: "<report file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "password",
						Usage: "password the report archive is encrypted with",
					},
					&cli.StringFlag{
						Name:  "pgpkey",
						Usage: "file with the private pgp key the report archive is encrypted for",
					},
					&cli.StringFlag{
						Name:  "schema-dir",
						Usage: "directory with the report schemas, schemas are fetched via HTTP if empty",
					},
				},
			},
		},
	}

	err := app.Run(args)
	if err != nil {
		fmt.Println(err)
		logrus.Error(err)
		logrus.Fatal("Aborting.")
	}
	if onExit != nil {
		onExit()
	}
}
