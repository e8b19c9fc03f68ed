package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// ArchiverTarget is the part of an archiver a ReportWriter needs.
type ArchiverTarget interface {
	Create(name string) (io.WriteCloser, error)
}

// ReportWriter writes a parsed Report back out into an archiver, one
// JSON document per line for the multi-object parts.
type ReportWriter struct {
	archiver ArchiverTarget
}

func NewReportWriter(archiver ArchiverTarget) *ReportWriter {
	return &ReportWriter{
		archiver: archiver,
	}
}

func (w *ReportWriter) WriteReport(rprt *Report) (err error) {
	dir := rprt.SystemInfo.Hostname

	err = w.writeJSON(fmt.Sprintf("%s/%s", dir, MetaFileName), rprt.Meta)
	if err != nil {
		return err
	}

	err = w.writeJSON(fmt.Sprintf("%s/%s", dir, SystemInfoFileName), rprt.SystemInfo)
	if err != nil {
		return err
	}

	err = w.writeJSON(fmt.Sprintf("%s/%s", dir, StatisticsFileName), rprt.Stats)
	if err != nil {
		return err
	}

	err = w.writeMultiJSON(fmt.Sprintf("%s/%s", dir, ProcessesFileName), len(rprt.Processes), func(i int) interface{} {
		return rprt.Processes[i]
	})
	if err != nil {
		return err
	}

	err = w.writeMultiJSON(fmt.Sprintf("%s/%s", dir, ThreadLoadsFileName), len(rprt.ThreadLoads), func(i int) interface{} {
		return rprt.ThreadLoads[i]
	})
	return err
}

func (w *ReportWriter) writeJSON(path string, data interface{}) error {
	file, err := w.archiver.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	return enc.Encode(data)
}

func (w *ReportWriter) writeMultiJSON(path string, count int, get func(i int) interface{}) error {
	file, err := w.archiver.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for i := 0; i < count; i++ {
		err = enc.Encode(get(i))
		if err != nil {
			return err
		}
	}
	return nil
}
