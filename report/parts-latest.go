package report

import (
	"encoding/json"
	"io"
)

func buildPartsParserLatest() partsParser {
	return &partsParserLatest{}
}

type partsParserLatest struct{}

func (p *partsParserLatest) ParseStatistics(rdr Reader) (*Statistics, error) {
	r, err := rdr.OpenStatistics()
	if err != nil {
		return nil, err
	}
	var data Statistics
	err = json.NewDecoder(r).Decode(&data)
	return &data, err
}

func (p *partsParserLatest) ParseSystemInformation(rdr Reader) (*SystemInfo, error) {
	r, err := rdr.OpenSystemInformation()
	if err != nil {
		return nil, err
	}
	var data SystemInfo
	err = json.NewDecoder(r).Decode(&data)
	return &data, err
}

func (p *partsParserLatest) ParseProcesses(rdr Reader) ([]*ProcessInfo, error) {
	r, err := rdr.OpenProcesses()
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(r)

	data := make([]*ProcessInfo, 0)
	for {
		var obj ProcessInfo
		err = decoder.Decode(&obj)
		if err != nil {
			break
		}
		data = append(data, &obj)
	}
	if err != io.EOF {
		return nil, err
	}

	return data, nil
}

func (p *partsParserLatest) ParseThreadLoads(rdr Reader) ([]*ThreadLoad, error) {
	r, err := rdr.OpenThreadLoads()
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(r)

	data := make([]*ThreadLoad, 0)
	for {
		var obj ThreadLoad
		err = decoder.Decode(&obj)
		if err != nil {
			break
		}
		data = append(data, &obj)
	}
	if err != io.EOF {
		return nil, err
	}

	return data, nil
}
