package reporter

import (
	"context"
	"log"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeDBWriter writes report rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client greptime.Client
	db     string
	table  string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer and auto-creates the
// report log table if needed.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	ddl := `
CREATE TABLE IF NOT EXISTS ais_report_log (
  session STRING TAG,
  endpoint STRING TAG,
  report_type STRING TAG,
  tick BIGINT,
  self_count BIGINT,
  self_bytes BIGINT,
  others_count BIGINT,
  others_bytes BIGINT,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client: client,
		db:     database,
		table:  "ais_report_log",
	}, nil
}

// WriteReport inserts a single row.
func (w *GreptimeDBWriter) WriteReport(row ReportRow) error {
	return w.WriteReports([]ReportRow{row})
}

// WriteReports inserts multiple rows.
func (w *GreptimeDBWriter) WriteReports(rows []ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.table)
	tbl.AddTagColumn("session", types.StringType, 0)
	tbl.AddTagColumn("endpoint", types.StringType, 0)
	tbl.AddTagColumn("report_type", types.StringType, 0)
	tbl.AddFieldColumn("tick", types.Int64Type)
	tbl.AddFieldColumn("self_count", types.Int64Type)
	tbl.AddFieldColumn("self_bytes", types.Int64Type)
	tbl.AddFieldColumn("others_count", types.Int64Type)
	tbl.AddFieldColumn("others_bytes", types.Int64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("session", r.Session)
		tbl.AppendTagValue("endpoint", r.Endpoint)
		tbl.AppendTagValue("report_type", string(r.Type))
		tbl.AppendFieldValue("tick", int64(r.Tick))
		tbl.AppendFieldValue("self_count", int64(r.SelfCount))
		tbl.AppendFieldValue("self_bytes", int64(r.SelfBytes))
		tbl.AppendFieldValue("others_count", int64(r.OthersCount))
		tbl.AppendFieldValue("others_bytes", int64(r.OthersBytes))
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] Write failed: %v", err)
		return err
	}
	return nil
}
