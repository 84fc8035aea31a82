package reporter

import "time"

// ReportTypeStatus is the read-only projection of one report type's
// statistics. The rolling windows are reduced to single sums at read time.
type ReportTypeStatus struct {
	LastReport        string `json:"last_report"`
	TotalReports      int64  `json:"total_reports"`
	TotalBytes        int64  `json:"total_bytes"`
	ReportsInLastHour int64  `json:"reports_in_last_hour"`
	BytesInLastHour   int64  `json:"bytes_in_last_hour"`
	ReportsInLastDay  int64  `json:"reports_in_last_day"`
	BytesInLastDay    int64  `json:"bytes_in_last_day"`
}

// EndpointStatus is the serializable view of one endpoint.
type EndpointStatus struct {
	Address    string           `json:"address"`
	Port       int              `json:"port"`
	Started    time.Time        `json:"started"`
	TotalBytes int64            `json:"total_bytes"`
	Position   ReportTypeStatus `json:"position"`
	Static     ReportTypeStatus `json:"static"`
}

// Snapshot is the full status projection consumed by the query surface.
type Snapshot struct {
	Session   string                    `json:"session"`
	State     State                     `json:"state"`
	Tick      uint64                    `json:"tick"`
	Endpoints map[string]EndpointStatus `json:"endpoints"`
}

func reportTypeStatus(s *ReportTypeStats) ReportTypeStatus {
	last := "never"
	if !s.LastReport.IsZero() {
		last = s.LastReport.UTC().Format(time.RFC3339)
	}
	return ReportTypeStatus{
		LastReport:        last,
		TotalReports:      s.TotalReports,
		TotalBytes:        s.TotalBytes,
		ReportsInLastHour: sum(s.HourReports[:]),
		BytesInLastHour:   sum(s.HourBytes[:]),
		ReportsInLastDay:  sum(s.DayReports[:]),
		BytesInLastDay:    sum(s.DayBytes[:]),
	}
}

// Snapshot renders the current statistics. Safe to call while ticks run.
func (r *Reporter) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := Snapshot{
		Session:   r.session,
		State:     r.state,
		Tick:      r.tick,
		Endpoints: make(map[string]EndpointStatus, len(r.endpoints)),
	}
	for _, ep := range r.endpoints {
		snap.Endpoints[ep.Config.Name] = EndpointStatus{
			Address:    ep.Config.Address,
			Port:       ep.Config.Port,
			Started:    ep.Stats.Started,
			TotalBytes: ep.Stats.TotalBytes,
			Position:   reportTypeStatus(&ep.Stats.Position),
			Static:     reportTypeStatus(&ep.Stats.Static),
		}
	}
	return snap
}
