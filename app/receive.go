package app

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"

	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"

	"github.com/fkie-cad/loadscan/archiver"
)

func receive(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	if c.NArg() != 1 {
		return errors.Newf("expected exactly one argument <listen address>")
	}

	if c.Bool("verbose") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	wcBuilder, err := buildWriteCloserBuilder(c)
	if err != nil {
		return err
	}

	reportServer := archiver.NewArchiverServer(c.Args().First(), c.String("report-dir"), wcBuilder)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	shutdownComplete := make(chan interface{})

	go func() {
		<-signalChan

		shutdownTimeout := 5 * time.Second
		logrus.Infof("Received interrupt, shutting down server (timeout: %v)...", shutdownTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := reportServer.Shutdown(ctx)
		if err != nil {
			logrus.WithError(err).Error("Error during closing of open reports.")
		} else {
			logrus.Info("Closed open reports.")
		}

		close(shutdownComplete)
	}()

	err = reportServer.Start(c.String("server-cert"), c.String("server-key"))
	if err != nil {
		return err
	}
	<-shutdownComplete
	return nil
}
