package reporter

import (
	"time"

	"ais-reporter/internal/config"
)

// Endpoint pairs one canonical destination with its runtime statistics.
// Both live for the process lifetime.
type Endpoint struct {
	Config config.Endpoint
	Stats  Statistics
}

func newEndpoint(cfg config.Endpoint, started time.Time) *Endpoint {
	return &Endpoint{
		Config: cfg,
		Stats:  Statistics{Started: started},
	}
}

// intervalAt selects the active interval from a sequence. Out-of-range
// selector values clamp to the nearest valid slot.
func intervalAt(seq []int, idx int) int {
	if len(seq) == 0 {
		return 0
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	return seq[idx]
}

// fires decides whether a report type is due on this tick. A zero interval
// never fires.
func fires(seq []int, idx int, tick uint64) bool {
	interval := intervalAt(seq, idx)
	return interval > 0 && tick%uint64(interval) == 0
}
