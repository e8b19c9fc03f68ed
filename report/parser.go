package report

import (
	"encoding/json"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(rdr Reader) (*Report, error) {
	meta, err := p.parseMeta(rdr)
	if err != nil {
		return nil, err
	}

	parts, err := buildPartsParser(meta.FormatVersion.String())
	if err != nil {
		return nil, err
	}

	stats, err := parts.ParseStatistics(rdr)
	if err != nil {
		return nil, err
	}

	sysInfo, err := parts.ParseSystemInformation(rdr)
	if err != nil {
		return nil, err
	}

	processes, err := parts.ParseProcesses(rdr)
	if err != nil {
		return nil, err
	}

	threadLoads, err := parts.ParseThreadLoads(rdr)
	if err != nil {
		return nil, err
	}

	return &Report{
		Meta:        meta,
		Stats:       stats,
		SystemInfo:  sysInfo,
		Processes:   processes,
		ThreadLoads: threadLoads,
	}, nil
}

func (p *Parser) parseMeta(rdr Reader) (*MetaInformation, error) {
	r, err := rdr.OpenMeta()
	if err != nil {
		return nil, err
	}
	var data MetaInformation
	err = json.NewDecoder(r).Decode(&data)
	return &data, err
}
