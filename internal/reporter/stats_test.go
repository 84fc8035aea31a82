package reporter

import (
	"testing"
	"time"
)

func foldN(s *ReportTypeStats, ticks int, perTick int, now time.Time) {
	for t := 0; t < ticks; t++ {
		s.fold(ReportStatistics{SelfCount: perTick, SelfBytes: perTick * 10}, now)
		s.advance(uint64(t + 1))
	}
}

func TestHourWindow_NoRotationBeforeFullRing(t *testing.T) {
	var s ReportTypeStats
	foldN(&s, HourSlots-1, 2, testNow)

	if got := sum(s.HourReports[:]); got != 118 {
		t.Errorf("hour report sum after 59 ticks = %d, want 118", got)
	}
	if s.TotalReports != 118 {
		t.Errorf("total reports = %d, want 118", s.TotalReports)
	}
}

func TestHourWindow_RotatesOnFullRing(t *testing.T) {
	var s ReportTypeStats
	foldN(&s, HourSlots, 2, testNow)

	// the 60th completed tick rotates: slot 0 is fresh, nothing is lost yet
	if s.HourReports[0] != 0 {
		t.Errorf("front slot = %d, want 0 after rotation", s.HourReports[0])
	}
	if got := sum(s.HourReports[:]); got != 120 {
		t.Errorf("hour report sum after rotation = %d, want 120", got)
	}
}

func TestHourWindow_DropsOldestAfterFullCycle(t *testing.T) {
	var s ReportTypeStats
	// 60 rotations push the first bucket off the end of the ring
	foldN(&s, HourSlots*HourSlots, 1, testNow)

	if got := sum(s.HourReports[:]); got >= s.TotalReports {
		t.Errorf("hour sum %d should have decayed below total %d", got, s.TotalReports)
	}
	if s.TotalReports != int64(HourSlots*HourSlots) {
		t.Errorf("total reports = %d, want %d", s.TotalReports, HourSlots*HourSlots)
	}
}

func TestDayWindow_RotatesIndependently(t *testing.T) {
	var s ReportTypeStats
	foldN(&s, DaySlots, 1, testNow)

	if s.DayReports[0] != 0 {
		t.Errorf("day front slot = %d, want 0 after 24 completed ticks", s.DayReports[0])
	}
	// the hour ring has not rotated yet at tick 24
	if s.HourReports[0] != int64(DaySlots) {
		t.Errorf("hour front slot = %d, want %d", s.HourReports[0], DaySlots)
	}
}

func TestWindowSumsNeverExceedTotals(t *testing.T) {
	var s ReportTypeStats
	for tick := 0; tick < 500; tick++ {
		s.fold(ReportStatistics{OthersCount: tick % 3, OthersBytes: (tick % 3) * 40}, testNow)
		s.advance(uint64(tick + 1))
		if got := sum(s.HourReports[:]); got > s.TotalReports {
			t.Fatalf("tick %d: hour sum %d exceeds total %d", tick, got, s.TotalReports)
		}
		if got := sum(s.DayBytes[:]); got > s.TotalBytes {
			t.Fatalf("tick %d: day byte sum %d exceeds total %d", tick, got, s.TotalBytes)
		}
	}
}

func TestStatistics_FoldRoutesByType(t *testing.T) {
	var s Statistics
	s.Fold(PositionType, ReportStatistics{SelfCount: 1, SelfBytes: 30}, testNow)
	s.Fold(StaticType, ReportStatistics{OthersCount: 2, OthersBytes: 80}, testNow)

	if s.Position.TotalReports != 1 || s.Static.TotalReports != 2 {
		t.Errorf("routed totals position=%d static=%d, want 1/2", s.Position.TotalReports, s.Static.TotalReports)
	}
	if s.TotalBytes != 110 {
		t.Errorf("endpoint total bytes = %d, want 110", s.TotalBytes)
	}
}
