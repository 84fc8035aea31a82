package reporter

import (
	"encoding/json"
	"os"
)

// FileWriter appends report rows to a JSONL file.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates the log file, truncating any previous content.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// WriteReport logs a single row.
func (w *FileWriter) WriteReport(row ReportRow) error {
	return w.enc.Encode(row)
}

// WriteReports logs multiple rows.
func (w *FileWriter) WriteReports(rows []ReportRow) error {
	for _, r := range rows {
		if err := w.WriteReport(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	return w.file.Close()
}
