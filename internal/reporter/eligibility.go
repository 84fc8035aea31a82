package reporter

import (
	"time"

	"ais-reporter/internal/vessel"
)

// VesselClass distinguishes the installation's own vessel from everything
// else it tracks.
type VesselClass string

const (
	ClassSelf   VesselClass = "self"
	ClassOthers VesselClass = "others"
)

// classOf assigns a vessel to self or others by identity match.
func classOf(v vessel.Record, ownMMSI string) VesselClass {
	if ownMMSI != "" && v.MMSI == ownMMSI {
		return ClassSelf
	}
	return ClassOthers
}

// isEligible reports whether a vessel should be reported for a class: it
// must belong to the class, have a timestamped fix, and the fix must be no
// older than the expiry interval. The boundary is inclusive: a fix aged
// exactly expiry is still reported.
func isEligible(v vessel.Record, class VesselClass, ownMMSI string, expiry time.Duration, now time.Time) bool {
	if classOf(v, ownMMSI) != class {
		return false
	}
	if v.Position == nil || v.Position.Timestamp.IsZero() {
		return false
	}
	return now.Sub(v.Position.Timestamp) <= expiry
}
