// Vessel data model shared by the feed, the registry, and the reporter.
package vessel

import "time"

// Transceiver is the vessel's AIS transceiver class.
type Transceiver string

const (
	TransceiverClassA Transceiver = "A"
	TransceiverClassB Transceiver = "B"
)

// Fix is a position fix together with the time it was reported.
type Fix struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

// Navigation holds course and motion data in SI units (radians, m/s) as the
// upstream data source reports them. Absent values stay nil.
type Navigation struct {
	CourseOverGroundRad *float64
	SpeedOverGroundMps  *float64
	HeadingRad          *float64
	RateOfTurnRadSec    *float64
	ManeuverIndicator   *int
}

// Statics are the descriptive attributes sent in static data reports.
// Absent values stay nil.
type Statics struct {
	Name         *string
	CallSign     *string
	ShipType     *int
	Destination  *string
	DraughtM     *float64
	ToBowM       *float64
	ToSternM     *float64
	ToPortM      *float64
	ToStarboardM *float64
}

// Record is one vessel as known to the registry. Position is nil until the
// first fix arrives.
type Record struct {
	MMSI        string
	Transceiver Transceiver
	Position    *Fix
	Navigation  Navigation
	Statics     Statics
}

// Source enumerates the currently known vessels.
type Source interface {
	List() ([]Record, error)
}
