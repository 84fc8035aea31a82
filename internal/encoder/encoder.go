// Sentence encoding for AIS position and static data reports.
package encoder

import "fmt"

// Sentinel values substituted when an input field is unavailable, as defined
// by the AIS payload formats.
const (
	HeadingUnavailable    = 511
	RateOfTurnUnavailable = -128
	SecondUnavailable     = 60
)

// PositionFields is the flattened, unit-converted input for one position
// report. Callers convert radians to degrees and m/s to knots before
// encoding and substitute the sentinel constants for absent data.
type PositionFields struct {
	MMSI       uint32
	ClassB     bool
	Latitude   float64
	Longitude  float64
	CourseDeg  float64
	SpeedKnots float64
	HeadingDeg uint16
	RateOfTurn int8
	Maneuver   uint8
	Second     uint8
}

// StaticFields is the input for one static data report.
type StaticFields struct {
	MMSI         uint32
	Name         string
	CallSign     string
	ShipType     uint8
	Destination  string
	DraughtM     float64
	ToBowM       float64
	ToSternM     float64
	ToPortM      float64
	ToStarboardM float64
}

// EncodeError reports that a vessel's fields could not be encoded into a
// valid sentence. It is recoverable per vessel.
type EncodeError struct {
	MMSI uint32
	Kind string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s report for %d failed", e.Kind, e.MMSI)
}

// Encoder produces complete NMEA sentences ready for transmission.
// EncodeStatic yields the single class-A sentence (type 5); the part A/B
// calls yield the two class-B sentences (type 24 part 0 and 1).
type Encoder interface {
	EncodePosition(f PositionFields) (string, error)
	EncodeStatic(f StaticFields) (string, error)
	EncodeStaticPartA(f StaticFields) (string, error)
	EncodeStaticPartB(f StaticFields) (string, error)
}
