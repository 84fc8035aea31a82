package reporter

// MultiWriter fans report rows out to multiple writers.
type MultiWriter struct {
	writers []ReportWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...ReportWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// WriteReport sends a row to all writers.
func (mw *MultiWriter) WriteReport(row ReportRow) error {
	for _, w := range mw.writers {
		if err := w.WriteReport(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteReports sends multiple rows to all writers, using batch mode where
// supported.
func (mw *MultiWriter) WriteReports(rows []ReportRow) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchReportWriter); ok {
			if err := bw.WriteReports(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteReport(r); err != nil {
				return err
			}
		}
	}
	return nil
}
