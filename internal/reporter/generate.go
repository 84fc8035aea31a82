package reporter

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"ais-reporter/internal/encoder"
	"ais-reporter/internal/vessel"
)

// Unit conversions applied before handing fields to the encoder: the
// registry reports SI units (radians, m/s), the wire format wants degrees
// and knots.
const knotsPerMps = 1.9438444924574

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// aisRateOfTurn converts rad/s into the AIS ROT field encoding
// (4.733 * sqrt(deg/min), signed).
func aisRateOfTurn(radSec float64) int8 {
	degMin := radToDeg(radSec) * 60
	v := 4.733 * math.Sqrt(math.Abs(degMin))
	if degMin < 0 {
		v = -v
	}
	if v > 126 {
		v = 126
	} else if v < -126 {
		v = -126
	}
	return int8(math.Round(v))
}

// positionFields flattens a vessel record into encoder input, substituting
// the documented fallbacks for absent data.
func positionFields(v vessel.Record) (encoder.PositionFields, error) {
	mmsi, err := strconv.ParseUint(v.MMSI, 10, 32)
	if err != nil {
		return encoder.PositionFields{}, fmt.Errorf("invalid MMSI %q: %w", v.MMSI, err)
	}
	f := encoder.PositionFields{
		MMSI:       uint32(mmsi),
		ClassB:     v.Transceiver == vessel.TransceiverClassB,
		Latitude:   v.Position.Latitude,
		Longitude:  v.Position.Longitude,
		HeadingDeg: encoder.HeadingUnavailable,
		RateOfTurn: encoder.RateOfTurnUnavailable,
		Second:     encoder.SecondUnavailable,
	}
	if c := v.Navigation.CourseOverGroundRad; c != nil {
		f.CourseDeg = radToDeg(*c)
	}
	if s := v.Navigation.SpeedOverGroundMps; s != nil {
		f.SpeedKnots = *s * knotsPerMps
	}
	if h := v.Navigation.HeadingRad; h != nil {
		f.HeadingDeg = uint16(math.Round(radToDeg(*h)))
	}
	if r := v.Navigation.RateOfTurnRadSec; r != nil {
		f.RateOfTurn = aisRateOfTurn(*r)
	}
	if m := v.Navigation.ManeuverIndicator; m != nil {
		f.Maneuver = uint8(*m)
	}
	if ts := v.Position.Timestamp; !ts.IsZero() {
		f.Second = uint8(ts.UTC().Second())
	}
	return f, nil
}

// staticFields flattens the descriptive attributes; absent fields encode as
// their zero values, which the wire format treats as "not available".
func staticFields(v vessel.Record) (encoder.StaticFields, error) {
	mmsi, err := strconv.ParseUint(v.MMSI, 10, 32)
	if err != nil {
		return encoder.StaticFields{}, fmt.Errorf("invalid MMSI %q: %w", v.MMSI, err)
	}
	f := encoder.StaticFields{MMSI: uint32(mmsi)}
	if s := v.Statics.Name; s != nil {
		f.Name = *s
	}
	if s := v.Statics.CallSign; s != nil {
		f.CallSign = *s
	}
	if s := v.Statics.ShipType; s != nil {
		f.ShipType = uint8(*s)
	}
	if s := v.Statics.Destination; s != nil {
		f.Destination = *s
	}
	if s := v.Statics.DraughtM; s != nil {
		f.DraughtM = *s
	}
	if s := v.Statics.ToBowM; s != nil {
		f.ToBowM = *s
	}
	if s := v.Statics.ToSternM; s != nil {
		f.ToSternM = *s
	}
	if s := v.Statics.ToPortM; s != nil {
		f.ToPortM = *s
	}
	if s := v.Statics.ToStarboardM; s != nil {
		f.ToStarboardM = *s
	}
	return f, nil
}

// classFor decides which class a vessel reports under for this call, or
// false when that class was not requested.
func (r *Reporter) classFor(v vessel.Record, reportSelf, reportOthers bool) (VesselClass, bool) {
	class := classOf(v, r.ownMMSI)
	if class == ClassSelf && reportSelf {
		return class, true
	}
	if class == ClassOthers && reportOthers {
		return class, true
	}
	return class, false
}

// generatePosition emits position reports for all eligible vessels of the
// requested classes to one endpoint. Encode failures skip the vessel;
// transmit failures abort the endpoint for this tick.
func (r *Reporter) generatePosition(ep *Endpoint, reportSelf, reportOthers bool, now time.Time) (ReportStatistics, error) {
	var res ReportStatistics
	vessels, err := r.source.List()
	if err != nil {
		return res, fmt.Errorf("listing vessels: %w", err)
	}
	for _, v := range vessels {
		class, wanted := r.classFor(v, reportSelf, reportOthers)
		if !wanted {
			continue
		}
		cc := ep.Config.Others
		if class == ClassSelf {
			cc = ep.Config.Self
		}
		if !isEligible(v, class, r.ownMMSI, cc.ExpiryInterval, now) {
			continue
		}
		fields, err := positionFields(v)
		if err != nil {
			r.log.Debug("position report skipped", "mmsi", v.MMSI, "err", err)
			continue
		}
		sentence, err := r.encoder.EncodePosition(fields)
		if err != nil {
			r.log.Debug("position encode failed", "mmsi", v.MMSI, "err", err)
			continue
		}
		n, err := r.transmit(ep, sentence)
		if err != nil {
			return res, err
		}
		res.add(class, 1, n)
	}
	return res, nil
}

// generateStatic emits static data reports. Class A vessels produce one
// type 5 sentence; class B vessels produce both type 24 parts, and a failure
// encoding either part discards the whole report uncounted.
func (r *Reporter) generateStatic(ep *Endpoint, reportSelf, reportOthers bool, now time.Time) (ReportStatistics, error) {
	var res ReportStatistics
	vessels, err := r.source.List()
	if err != nil {
		return res, fmt.Errorf("listing vessels: %w", err)
	}
	for _, v := range vessels {
		class, wanted := r.classFor(v, reportSelf, reportOthers)
		if !wanted {
			continue
		}
		cc := ep.Config.Others
		if class == ClassSelf {
			cc = ep.Config.Self
		}
		if !isEligible(v, class, r.ownMMSI, cc.ExpiryInterval, now) {
			continue
		}
		fields, err := staticFields(v)
		if err != nil {
			r.log.Debug("static report skipped", "mmsi", v.MMSI, "err", err)
			continue
		}

		if v.Transceiver == vessel.TransceiverClassB {
			partA, err := r.encoder.EncodeStaticPartA(fields)
			if err != nil {
				r.log.Debug("static part A encode failed", "mmsi", v.MMSI, "err", err)
				continue
			}
			partB, err := r.encoder.EncodeStaticPartB(fields)
			if err != nil {
				r.log.Debug("static part B encode failed", "mmsi", v.MMSI, "err", err)
				continue
			}
			nA, err := r.transmit(ep, partA)
			if err != nil {
				return res, err
			}
			nB, err := r.transmit(ep, partB)
			if err != nil {
				return res, err
			}
			res.add(class, 1, nA+nB)
			continue
		}

		sentence, err := r.encoder.EncodeStatic(fields)
		if err != nil {
			r.log.Debug("static encode failed", "mmsi", v.MMSI, "err", err)
			continue
		}
		n, err := r.transmit(ep, sentence)
		if err != nil {
			return res, err
		}
		res.add(class, 1, n)
	}
	return res, nil
}

// transmit sends one framed sentence and returns the accounted byte count
// (sentence length plus the framing byte).
func (r *Reporter) transmit(ep *Endpoint, sentence string) (int, error) {
	payload := append([]byte(sentence), '\n')
	if _, err := r.transmitter.Send(payload, ep.Config.Address, ep.Config.Port); err != nil {
		return 0, fmt.Errorf("sending to %s:%d: %w", ep.Config.Address, ep.Config.Port, err)
	}
	return len(sentence) + 1, nil
}

// add folds one report into the class bucket.
func (r *ReportStatistics) add(class VesselClass, reports, bytes int) {
	if class == ClassSelf {
		r.SelfCount += reports
		r.SelfBytes += bytes
	} else {
		r.OthersCount += reports
		r.OthersBytes += bytes
	}
}
