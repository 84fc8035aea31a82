// Reporter orchestrating per-endpoint report schedules on a shared heartbeat
package reporter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ais-reporter/internal/config"
	"ais-reporter/internal/encoder"
	"ais-reporter/internal/logging"
	"ais-reporter/internal/transport"
	"ais-reporter/internal/vessel"
)

// State is the scheduler lifecycle state, exposed on status snapshots.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopped  State = "stopped"
	StateDegraded State = "degraded"
)

// IndexSource resolves an update-interval index path to its current value.
// Paths with no value resolve to index 0.
type IndexSource interface {
	Value(path string) (int, bool)
}

// ReportWriter receives one row per emitted report batch, for the activity
// log sinks.
type ReportWriter interface {
	WriteReport(ReportRow) error
}

// Optional: report writers may support batch mode.
type batchReportWriter interface {
	WriteReports([]ReportRow) error
}

// ReportRow is one report-log record: what one generator call transmitted
// for one endpoint on one tick.
type ReportRow struct {
	Session     string     `json:"session"`
	Endpoint    string     `json:"endpoint"`
	Type        ReportType `json:"type"`
	Tick        uint64     `json:"tick"`
	SelfCount   int        `json:"self_count"`
	SelfBytes   int        `json:"self_bytes"`
	OthersCount int        `json:"others_count"`
	OthersBytes int        `json:"others_bytes"`
	Timestamp   time.Time  `json:"timestamp"`
}

// Deps bundles the injected collaborators. Indexes and ReportLog may be nil.
type Deps struct {
	Source      vessel.Source
	Encoder     encoder.Encoder
	Transmitter transport.Transmitter
	Indexes     IndexSource
	ReportLog   ReportWriter
}

// Reporter drives all endpoint schedules from a single fixed-period
// heartbeat. All per-tick work runs sequentially under one mutex; status
// snapshots share that mutex, so reads see either the previous or the
// current tick, never a torn one.
type Reporter struct {
	session     string
	ownMMSI     string
	endpoints   []*Endpoint
	source      vessel.Source
	encoder     encoder.Encoder
	transmitter transport.Transmitter
	indexes     IndexSource
	reportLog   ReportWriter
	tickPeriod  time.Duration
	tick        uint64
	state       State
	log         *slog.Logger
	now         func() time.Time
	mu          sync.Mutex
}

// New builds a Reporter from canonical endpoints. Statistics blocks start
// zeroed with Started set to the current time.
func New(session, ownMMSI string, endpoints []config.Endpoint, deps Deps, tickPeriod time.Duration) *Reporter {
	if tickPeriod <= 0 {
		tickPeriod = config.DefaultTickPeriod
	}
	r := &Reporter{
		session:     session,
		ownMMSI:     ownMMSI,
		source:      deps.Source,
		encoder:     deps.Encoder,
		transmitter: deps.Transmitter,
		indexes:     deps.Indexes,
		reportLog:   deps.ReportLog,
		tickPeriod:  tickPeriod,
		state:       StateIdle,
		log:         slog.Default(),
		now:         time.Now,
	}
	started := r.now()
	for _, ep := range endpoints {
		r.endpoints = append(r.endpoints, newEndpoint(ep, started))
	}
	return r
}

// Run starts the heartbeat and blocks until ctx is done. With no endpoints
// configured it records the degraded state and returns without arming the
// timer.
func (r *Reporter) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	r.mu.Lock()
	r.log = log
	if len(r.endpoints) == 0 {
		r.state = StateDegraded
		r.mu.Unlock()
		log.Warn("no reporting endpoints configured, reporter not started")
		return
	}
	r.state = StateRunning
	r.mu.Unlock()

	log.Info("starting reporter", "tick_period", r.tickPeriod, "endpoints", len(r.endpoints))
	ticker := time.NewTicker(r.tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.runTick()
		case <-ctx.Done():
			r.mu.Lock()
			r.state = StateStopped
			r.mu.Unlock()
			log.Info("stopping reporter")
			return
		}
	}
}

// runTick processes every endpoint once, advances all rolling windows, and
// increments the tick counter exactly once. A failing endpoint is logged and
// skipped; it never stops the others.
func (r *Reporter) runTick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var rows []ReportRow
	for _, ep := range r.endpoints {
		epRows, err := r.processEndpoint(ep, now)
		if err != nil {
			r.log.Error("endpoint skipped for this tick", "endpoint", ep.Config.Name, "err", err)
		}
		rows = append(rows, epRows...)
		ep.Stats.Advance(r.tick + 1)
	}
	r.tick++

	r.writeReportLog(rows)
}

// processEndpoint resolves the active schedule for both classes and invokes
// each generator at most once, with the per-class flags threaded through.
// Rows produced before a mid-endpoint failure are kept; the error skips only
// the remainder of this endpoint's tick.
func (r *Reporter) processEndpoint(ep *Endpoint, now time.Time) ([]ReportRow, error) {
	selfIdx := r.resolveIndex(ep.Config.Self)
	othersIdx := r.resolveIndex(ep.Config.Others)

	posSelf := fires(ep.Config.Self.PositionUpdateIntervals, selfIdx, r.tick)
	posOthers := fires(ep.Config.Others.PositionUpdateIntervals, othersIdx, r.tick)
	staticSelf := fires(ep.Config.Self.StaticUpdateIntervals, selfIdx, r.tick)
	staticOthers := fires(ep.Config.Others.StaticUpdateIntervals, othersIdx, r.tick)

	var rows []ReportRow
	if posSelf || posOthers {
		res, err := r.generatePosition(ep, posSelf, posOthers, now)
		ep.Stats.Fold(PositionType, res, now)
		rows = append(rows, r.row(ep, PositionType, res, now))
		if err != nil {
			return rows, err
		}
	}
	if staticSelf || staticOthers {
		res, err := r.generateStatic(ep, staticSelf, staticOthers, now)
		ep.Stats.Fold(StaticType, res, now)
		rows = append(rows, r.row(ep, StaticType, res, now))
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// resolveIndex reads the runtime interval selector for a class. Missing
// paths, missing values, and negative values resolve to 0; values past the
// end of the interval sequences clamp later, in intervalAt.
func (r *Reporter) resolveIndex(cc config.ClassConfig) int {
	if cc.UpdateIntervalIndexPath == "" || r.indexes == nil {
		return 0
	}
	v, ok := r.indexes.Value(cc.UpdateIntervalIndexPath)
	if !ok || v < 0 {
		return 0
	}
	return v
}

func (r *Reporter) row(ep *Endpoint, t ReportType, res ReportStatistics, now time.Time) ReportRow {
	return ReportRow{
		Session:     r.session,
		Endpoint:    ep.Config.Name,
		Type:        t,
		Tick:        r.tick,
		SelfCount:   res.SelfCount,
		SelfBytes:   res.SelfBytes,
		OthersCount: res.OthersCount,
		OthersBytes: res.OthersBytes,
		Timestamp:   now,
	}
}

// writeReportLog fans rows out to the activity log, using batch mode if the
// writer supports it.
func (r *Reporter) writeReportLog(rows []ReportRow) {
	if r.reportLog == nil || len(rows) == 0 {
		return
	}
	if bw, ok := r.reportLog.(batchReportWriter); ok {
		if err := bw.WriteReports(rows); err != nil {
			r.log.Error("report log batch write failed", "err", err)
		}
		return
	}
	for _, row := range rows {
		if err := r.reportLog.WriteReport(row); err != nil {
			r.log.Error("report log write failed", "endpoint", row.Endpoint, "err", err)
		}
	}
}
