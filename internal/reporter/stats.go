package reporter

import "time"

// Ring sizes for the rolling activity windows.
const (
	HourSlots = 60
	DaySlots  = 24
)

// ReportType names the two report categories an endpoint emits.
type ReportType string

const (
	PositionType ReportType = "position"
	StaticType   ReportType = "static"
)

// ReportStatistics is what one generator call produced, split per vessel
// class. Byte counts include the framing byte appended to each sentence.
type ReportStatistics struct {
	SelfCount   int
	SelfBytes   int
	OthersCount int
	OthersBytes int
}

func (r ReportStatistics) reports() int64 { return int64(r.SelfCount + r.OthersCount) }
func (r ReportStatistics) bytes() int64   { return int64(r.SelfBytes + r.OthersBytes) }

// ReportTypeStats tracks cumulative and rolling activity for one report type
// on one endpoint. The windows are decaying natural-period buckets: every
// tick adds into slot 0, and after every ringSize completed ticks the ring
// shifts one slot, dropping the oldest. The hour/day sums are therefore
// bucket approximations, not exact sliding windows.
type ReportTypeStats struct {
	LastReport   time.Time
	TotalReports int64
	TotalBytes   int64
	HourReports  [HourSlots]int64
	HourBytes    [HourSlots]int64
	DayReports   [DaySlots]int64
	DayBytes     [DaySlots]int64
}

// fold adds a generator result. Called only on ticks where this report type
// actually fired.
func (s *ReportTypeStats) fold(res ReportStatistics, now time.Time) {
	s.LastReport = now
	s.TotalReports += res.reports()
	s.TotalBytes += res.bytes()
	s.HourReports[0] += res.reports()
	s.HourBytes[0] += res.bytes()
	s.DayReports[0] += res.reports()
	s.DayBytes[0] += res.bytes()
}

// advance rotates the rings that are due. completed is the number of ticks
// finished including the current one, so the first hour rotation lands after
// the 60th tick.
func (s *ReportTypeStats) advance(completed uint64) {
	if completed%HourSlots == 0 {
		rotate(s.HourReports[:])
		rotate(s.HourBytes[:])
	}
	if completed%DaySlots == 0 {
		rotate(s.DayReports[:])
		rotate(s.DayBytes[:])
	}
}

// rotate drops the oldest slot and inserts a fresh zero slot at the front.
func rotate(ring []int64) {
	copy(ring[1:], ring[:len(ring)-1])
	ring[0] = 0
}

func sum(ring []int64) int64 {
	var total int64
	for _, v := range ring {
		total += v
	}
	return total
}

// Statistics is the per-endpoint aggregate, created at start and mutated
// only by the scheduler.
type Statistics struct {
	Started    time.Time
	TotalBytes int64
	Position   ReportTypeStats
	Static     ReportTypeStats
}

// Fold records a generator result for one report type.
func (s *Statistics) Fold(t ReportType, res ReportStatistics, now time.Time) {
	s.TotalBytes += res.bytes()
	switch t {
	case PositionType:
		s.Position.fold(res, now)
	case StaticType:
		s.Static.fold(res, now)
	}
}

// Advance moves both report types' rolling windows forward by one tick.
func (s *Statistics) Advance(completed uint64) {
	s.Position.advance(completed)
	s.Static.advance(completed)
}
