package app

import (
	"regexp"

	"github.com/targodan/go-errors"
	"github.com/urfave/cli/v2"

	"github.com/fkie-cad/loadscan"
)

func buildThreadFilter(c *cli.Context) (loadscan.ThreadFilter, error) {
	filters := make([]loadscan.ThreadFilter, 0, 2)

	if tids := c.IntSlice("filter-tid"); len(tids) > 0 {
		filters = append(filters, loadscan.NewTIDFilter(tids))
	}

	if pattern := c.String("filter-name"); pattern != "" {
		rex, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Errorf("invalid flag \"--filter-name\", reason: %w", err)
		}
		filters = append(filters, loadscan.NewNameFilter(rex))
	}

	if len(filters) == 0 {
		// Matches everything
		return loadscan.NewTIDFilter(nil), nil
	}

	return loadscan.NewAndFilter(filters...), nil
}
