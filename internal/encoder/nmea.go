package encoder

import (
	"strings"

	ais "github.com/BertoldVdb/go-ais"
	"github.com/BertoldVdb/go-ais/aisnmea"
)

// NMEA encodes reports into !AIVDM sentences using the go-ais codec.
type NMEA struct {
	nmea *aisnmea.NMEACodec
}

// NewNMEA returns an Encoder backed by a fresh go-ais codec.
func NewNMEA() *NMEA {
	codec := ais.CodecNew(false, false)
	return &NMEA{nmea: aisnmea.NMEACodecNew(codec)}
}

// encode wraps a packet into VDM sentences. Multi-fragment payloads (type 5
// regularly spills into two fragments) are joined with CRLF and treated as
// one sentence by callers.
func (e *NMEA) encode(kind string, mmsi uint32, p ais.Packet) (string, error) {
	sentences := e.nmea.EncodeSentence(aisnmea.VdmPacket{
		TalkerID:    "AI",
		MessageType: "VDM",
		Channel:     'A',
		Packet:      p,
	})
	if len(sentences) == 0 {
		return "", &EncodeError{MMSI: mmsi, Kind: kind}
	}
	return strings.Join(sentences, "\r\n"), nil
}

// EncodePosition emits a type 1 report for class A vessels and a type 18
// report for class B.
func (e *NMEA) EncodePosition(f PositionFields) (string, error) {
	if f.ClassB {
		msg := ais.StandardClassBPositionReport{
			Header:      ais.Header{MessageID: 18, UserID: f.MMSI},
			Valid:       true,
			Sog:         ais.Field10(f.SpeedKnots),
			Longitude:   ais.FieldLatLonFine(f.Longitude),
			Latitude:    ais.FieldLatLonFine(f.Latitude),
			Cog:         ais.Field10(f.CourseDeg),
			TrueHeading: f.HeadingDeg,
			Timestamp:   f.Second,
		}
		return e.encode("position", f.MMSI, msg)
	}
	msg := ais.PositionReport{
		Header:                    ais.Header{MessageID: 1, UserID: f.MMSI},
		Valid:                     true,
		RateOfTurn:                int16(f.RateOfTurn),
		Sog:                       ais.Field10(f.SpeedKnots),
		Longitude:                 ais.FieldLatLonFine(f.Longitude),
		Latitude:                  ais.FieldLatLonFine(f.Latitude),
		Cog:                       ais.Field10(f.CourseDeg),
		TrueHeading:               f.HeadingDeg,
		Timestamp:                 f.Second,
		SpecialManoeuvreIndicator: f.Maneuver,
	}
	return e.encode("position", f.MMSI, msg)
}

// EncodeStatic emits the class A static and voyage report (type 5).
func (e *NMEA) EncodeStatic(f StaticFields) (string, error) {
	msg := ais.ShipStaticData{
		Header:               ais.Header{MessageID: 5, UserID: f.MMSI},
		Valid:                true,
		CallSign:             f.CallSign,
		Name:                 f.Name,
		Type:                 f.ShipType,
		Dimension:            dimension(f),
		MaximumStaticDraught: ais.Field10(f.DraughtM),
		Destination:          f.Destination,
	}
	return e.encode("static", f.MMSI, msg)
}

// EncodeStaticPartA emits part 0 of the class B static report (type 24).
func (e *NMEA) EncodeStaticPartA(f StaticFields) (string, error) {
	msg := ais.StaticDataReport{
		Header:     ais.Header{MessageID: 24, UserID: f.MMSI},
		Valid:      true,
		PartNumber: false,
		ReportA: ais.StaticDataReportA{
			Valid: true,
			Name:  f.Name,
		},
	}
	return e.encode("static part A", f.MMSI, msg)
}

// EncodeStaticPartB emits part 1 of the class B static report (type 24).
func (e *NMEA) EncodeStaticPartB(f StaticFields) (string, error) {
	msg := ais.StaticDataReport{
		Header:     ais.Header{MessageID: 24, UserID: f.MMSI},
		Valid:      true,
		PartNumber: true,
		ReportB: ais.StaticDataReportB{
			Valid:     true,
			ShipType:  f.ShipType,
			CallSign:  f.CallSign,
			Dimension: dimension(f),
		},
	}
	return e.encode("static part B", f.MMSI, msg)
}

func dimension(f StaticFields) ais.FieldDimension {
	return ais.FieldDimension{
		A: uint16(f.ToBowM),
		B: uint16(f.ToSternM),
		C: uint8(f.ToPortM),
		D: uint8(f.ToStarboardM),
	}
}
