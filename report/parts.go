package report

import "fmt"

type partsParser interface {
	ParseStatistics(rdr Reader) (*Statistics, error)
	ParseSystemInformation(rdr Reader) (*SystemInfo, error)
	ParseProcesses(rdr Reader) ([]*ProcessInfo, error)
	ParseThreadLoads(rdr Reader) ([]*ThreadLoad, error)
}

type partsParserBuilder func() partsParser

var partsParserBuilders map[string]partsParserBuilder

func init() {
	partsParserBuilders = map[string]partsParserBuilder{
		"1.0.0": buildPartsParser100,
		"1.1.0": buildPartsParserLatest,
	}
}

func buildPartsParser(version string) (partsParser, error) {
	builder, ok := partsParserBuilders[version]
	if !ok {
		return nil, fmt.Errorf("unsupported report version \"%v\"", version)
	}
	return builder(), nil
}
