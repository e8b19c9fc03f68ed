package app

import (
	"fmt"

	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"

	"github.com/fkie-cad/loadscan/pgp"
	"github.com/fkie-cad/loadscan/report"
)

func validateReport(c *cli.Context) error {
	err := initAppAction(c)
	if err != nil {
		return err
	}

	if c.NArg() != 1 {
		return errors.Newf("expected exactly one argument <report file>")
	}

	factory := report.NewReaderFactory()
	if c.String("password") != "" {
		factory.SetPassword(c.String("password"))
	}
	if c.String("pgpkey") != "" {
		ring, err := pgp.ReadKeyRing(c.String("pgpkey"))
		if err != nil {
			return fmt.Errorf("could not read specified pgp key, reason: %w", err)
		}
		factory.SetKeyring(ring)
	}

	rdr := factory.OpenFile(c.Args().First())
	defer rdr.Close()

	var validator *report.Validator
	if c.String("schema-dir") != "" {
		validator = report.NewOfflineValidator(c.String("schema-dir"))
	} else {
		validator = report.NewOnlineValidator()
	}

	err = validator.ValidateReport(rdr)
	if err != nil {
		return fmt.Errorf("report is invalid, reason: %w", err)
	}

	fmt.Println("Report is valid.")
	return nil
}
