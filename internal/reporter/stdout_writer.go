// Writer implementation printing report rows to STDOUT
package reporter

import (
	"encoding/json"
	"fmt"
)

// StdoutWriter prints report rows as JSON lines.
type StdoutWriter struct{}

// WriteReport outputs a single row.
func (w *StdoutWriter) WriteReport(row ReportRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteReports outputs multiple rows.
func (w *StdoutWriter) WriteReports(rows []ReportRow) error {
	for _, r := range rows {
		_ = w.WriteReport(r)
	}
	return nil
}
