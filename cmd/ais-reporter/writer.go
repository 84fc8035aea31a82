package main

import (
	"os"

	"ais-reporter/internal/reporter"
)

// newReportWriters sets up the report activity log based on flags and env
// vars. It returns the writer (possibly nil) and a cleanup function.
func newReportWriters(printOnly bool, logFile string) (reporter.ReportWriter, func(), error) {
	cleanup := func() {}

	writer, err := baseReportWriter(printOnly)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := reporter.NewFileWriter(logFile)
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { fw.Close() }
	if writer == nil {
		return fw, cleanup, nil
	}
	return reporter.NewMultiWriter(writer, fw), cleanup, nil
}

// baseReportWriter chooses the underlying writer: GreptimeDB when an
// endpoint is configured, STDOUT JSONL when printing, else none.
func baseReportWriter(printOnly bool) (reporter.ReportWriter, error) {
	if printOnly {
		return &reporter.StdoutWriter{}, nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}
	return reporter.NewGreptimeDBWriter(endpoint, "public")
}
