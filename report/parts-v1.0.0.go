package report

import (
	"encoding/json"
	"io"

	"github.com/rjNemo/underscore"
)

// ThreadLoadV100 is the v1.0.0 representation of a load event. Loads were
// stored as percentages of one processor instead of fractions.
type ThreadLoadV100 struct {
	PID               int     `json:"pid"`
	TID               int     `json:"tid"`
	ThreadName        string  `json:"threadName"`
	Time              Time    `json:"time"`
	UserLoadPercent   float64 `json:"userLoadPercent"`
	SystemLoadPercent float64 `json:"systemLoadPercent"`
}

func buildPartsParser100() partsParser {
	parser, _ := buildPartsParser("1.1.0")
	return &partsParserV100{
		latest: parser,
	}
}

type partsParserV100 struct {
	latest partsParser
}

func (p *partsParserV100) ParseStatistics(rdr Reader) (*Statistics, error) {
	return p.latest.ParseStatistics(rdr)
}

func (p *partsParserV100) ParseSystemInformation(rdr Reader) (*SystemInfo, error) {
	return p.latest.ParseSystemInformation(rdr)
}

func (p *partsParserV100) ParseProcesses(rdr Reader) ([]*ProcessInfo, error) {
	return p.latest.ParseProcesses(rdr)
}

func (p *partsParserV100) ParseThreadLoads(rdr Reader) ([]*ThreadLoad, error) {
	r, err := rdr.OpenThreadLoads()
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(r)

	data := make([]*ThreadLoadV100, 0)
	for {
		var obj ThreadLoadV100
		err = decoder.Decode(&obj)
		if err != nil {
			break
		}
		data = append(data, &obj)
	}
	if err != io.EOF {
		return nil, err
	}

	return underscore.Map(data, func(l *ThreadLoadV100) *ThreadLoad {
		return &ThreadLoad{
			PID:        l.PID,
			TID:        l.TID,
			ThreadName: l.ThreadName,
			Time:       l.Time,
			UserLoad:   l.UserLoadPercent / 100.,
			SystemLoad: l.SystemLoadPercent / 100.,
		}
	}), nil
}
