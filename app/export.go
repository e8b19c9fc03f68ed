package app

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"

	"github.com/fkie-cad/loadscan/archiver"
	"github.com/fkie-cad/loadscan/output"
	"github.com/fkie-cad/loadscan/pgp"
	"github.com/fkie-cad/loadscan/report"
)

func export(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	if c.NArg() == 0 {
		return errors.Newf("expected at least one report path argument, got none")
	}

	rdrFactory := report.NewReaderFactory()

	inputWasEncrypted := false
	if c.String("decrypt-password") != "" && c.String("decrypt-pgpkey") != "" {
		return fmt.Errorf("cannot decrypt with both pgp key and a password")
	}
	if pass := c.String("decrypt-password"); pass != "" {
		inputWasEncrypted = true
		rdrFactory.SetPassword(pass)
	}
	if keypath := c.String("decrypt-pgpkey"); keypath != "" {
		inputWasEncrypted = true
		ring, err := pgp.ReadKeyRing(keypath)
		if err != nil {
			return fmt.Errorf("could not read specified pgp key, reason: %w", err)
		}
		rdrFactory.SetKeyring(ring)
	}

	if c.String("password") != "" && c.String("pgpkey") != "" {
		return fmt.Errorf("cannot encrypt with both pgp key and a password")
	}
	if inputWasEncrypted && c.String("password") == "" && c.String("pgpkey") == "" && !c.Bool("decrypt") {
		fmt.Println("The input reports were encrypted. " +
			"You must either specify --pgpkey or --password for reencryption. " +
			"Alternatively you can specify --decrypt for permanent decryption of the reports.")
		return fmt.Errorf("no encryption options specified and decryption was not requested")
	}

	wcBuilder := output.NewWriteCloserBuilder()
	if c.String("password") != "" {
		wcBuilder.Append(output.PGPSymmetricEncryptionDecorator(c.String("password"), true))
	}
	if c.String("pgpkey") != "" {
		ring, err := pgp.ReadKeyRing(c.String("pgpkey"))
		if err != nil {
			return fmt.Errorf("could not read specified public pgp key, reason: %w", err)
		}
		wcBuilder.Append(output.PGPEncryptionDecorator(ring, true))
	}
	wcBuilder.Append(output.ZSTDCompressionDecorator())

	var multiErr error
	for _, inputPath := range c.Args().Slice() {
		fmt.Printf("Exporting %s...", inputPath)
		outputPath, err := exportReport(inputPath, rdrFactory, wcBuilder, c.String("output-dir"))
		multiErr = errors.NewMultiError(multiErr, err)
		if err == nil {
			fmt.Printf(" -> %s\n", outputPath)
		} else {
			fmt.Printf(" ERROR: %v\n", err)
		}
	}

	return multiErr
}

var reportNameRe = regexp.MustCompile("^(.+)_(.+)\\.tar.*$")

func exportReport(
	inputPath string, rdrFactory *report.ReaderFactory,
	wcBuilder *output.WriteCloserBuilder,
	outDir string) (string, error) {
	inDir, inFile := filepath.Split(inputPath)

	rprt, err := func() (*report.Report, error) {
		rdr := rdrFactory.OpenFile(inputPath)
		defer func() {
			err := rdr.Close()
			if err != nil {
				fmt.Println(err)
				logrus.WithError(err).Error("Error closing the reader.")
			}
		}()

		rprt, err := report.NewParser().Parse(rdr)
		if err != nil {
			return nil, errors.Newf("could not read report, reason: %w", err)
		}
		return rprt, nil
	}()
	if err != nil {
		return "", err
	}

	nameParts := reportNameRe.FindStringSubmatch(inFile)
	if len(nameParts) != 3 {
		return "", errors.Newf("report filename \"%s\" has invalid format, "+
			"expected \"<hostname>_<timestamp>.tar[additionalExtensions]\"", inputPath)
	}
	hostname, timestamp := nameParts[1], nameParts[2]

	outPath := fmt.Sprintf("%s_%s.tar%s", hostname, timestamp, wcBuilder.SuggestedFileExtension())
	if outDir != "" {
		outPath = filepath.Join(outDir, outPath)
	} else {
		outPath = filepath.Join(inDir, outPath)
	}
	if outPath == inputPath {
		return "", errors.Newf("output would overwrite the input report \"%s\", "+
			"use --output-dir or different encryption options", inputPath)
	}

	reportTar, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return outPath, fmt.Errorf("could not create output report archive, reason: %w", err)
	}
	// reportTar is closed by the wrapping WriteCloser

	decoratedReportTar, err := wcBuilder.Build(reportTar)
	if err != nil {
		return outPath, fmt.Errorf("could not initialize archive, reason: %w", err)
	}
	reportArchiver := archiver.NewTarArchiver(decoratedReportTar)
	defer func() {
		err := reportArchiver.Close()
		if err != nil {
			fmt.Println(err)
			logrus.WithError(err).Error("Error closing the archiver.")
		}
	}()

	writer := report.NewReportWriter(reportArchiver)
	return outPath, writer.WriteReport(rprt)
}
