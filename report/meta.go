package report

import (
	"fmt"
	"strings"

	"github.com/fkie-cad/loadscan/version"
)

// MetaFileName is the name of the file containing meta information about the report format.
const MetaFileName = "meta.json"

// SystemInfoFileName is the name of the file, where system info is stored.
const SystemInfoFileName = "systeminfo.json"

// StatisticsFileName is the name of the file used to report statistics about a profiling run.
const StatisticsFileName = "stats.json"

// ProcessesFileName is the name of the file used to report information about profiled processes.
const ProcessesFileName = "processes.json"

// ThreadLoadsFileName is the name of the file used to report the emitted thread load events.
const ThreadLoadsFileName = "thread-loads.json"

var FormatVersion = version.Version{
	Major:  1,
	Minor:  1,
	Bugfix: 0,
}
var schemaURLBase = "https://loadscan.targodan.de/reportFormat/%s/%s"

// MetaV1Schema is the URL of the schema all v1 meta files adhere to.
var MetaV1Schema = fmt.Sprintf(schemaURLBase, "1.0.0", "meta.schema.json")

type MetaInformation struct {
	LoadscanVersion version.Version   `json:"loadscanVersion"`
	FormatVersion   version.Version   `json:"formatVersion"`
	SchemaURLs      map[string]string `json:"schemaURLs"`
}

func generateSchemaURLs(files []string) map[string]string {
	ret := make(map[string]string)
	for _, file := range files {
		fileParts := strings.Split(file, ".")
		schemaFile := strings.Join(fileParts[0:len(fileParts)-1], ".") + ".schema." + fileParts[len(fileParts)-1]
		ret[file] = fmt.Sprintf(schemaURLBase, FormatVersion, schemaFile)
	}
	return ret
}

func GetMetaInformation() *MetaInformation {
	return &MetaInformation{
		LoadscanVersion: version.LoadscanVersion,
		FormatVersion:   FormatVersion,
		SchemaURLs: generateSchemaURLs([]string{
			MetaFileName,
			SystemInfoFileName,
			StatisticsFileName,
			ProcessesFileName,
			ThreadLoadsFileName,
		}),
	}
}
