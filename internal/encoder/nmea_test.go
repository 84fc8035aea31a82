package encoder

import (
	"math"
	"strings"
	"testing"

	ais "github.com/BertoldVdb/go-ais"
	"github.com/BertoldVdb/go-ais/aisnmea"
)

func decodeAll(t *testing.T, sentence string) *aisnmea.VdmPacket {
	t.Helper()
	codec := aisnmea.NMEACodecNew(ais.CodecNew(false, false))
	var decoded *aisnmea.VdmPacket
	for _, line := range strings.Split(sentence, "\r\n") {
		d, err := codec.ParseSentence(line)
		if err != nil {
			t.Fatalf("produced sentence does not parse: %v (%q)", err, line)
		}
		if d != nil {
			decoded = d
		}
	}
	if decoded == nil || decoded.Packet == nil {
		t.Fatalf("no packet decoded from %q", sentence)
	}
	return decoded
}

func TestEncodePosition_ClassA_RoundTrip(t *testing.T) {
	e := NewNMEA()
	f := PositionFields{
		MMSI:       230099999,
		Latitude:   60.1699,
		Longitude:  24.9384,
		CourseDeg:  123.4,
		SpeedKnots: 7.5,
		HeadingDeg: 124,
		RateOfTurn: 5,
		Second:     42,
	}

	sentence, err := e.EncodePosition(f)
	if err != nil {
		t.Fatalf("EncodePosition() returned error: %v", err)
	}
	if !strings.HasPrefix(sentence, "!AIVDM") {
		t.Fatalf("sentence = %q, want !AIVDM prefix", sentence)
	}

	decoded := decodeAll(t, sentence)
	msg, ok := decoded.Packet.(ais.PositionReport)
	if !ok {
		t.Fatalf("decoded packet is %T, want PositionReport", decoded.Packet)
	}
	if msg.UserID != f.MMSI {
		t.Errorf("MMSI = %d, want %d", msg.UserID, f.MMSI)
	}
	if math.Abs(float64(msg.Latitude)-f.Latitude) > 1e-4 {
		t.Errorf("latitude = %f, want %f", float64(msg.Latitude), f.Latitude)
	}
	if msg.TrueHeading != f.HeadingDeg {
		t.Errorf("heading = %d, want %d", msg.TrueHeading, f.HeadingDeg)
	}
	if msg.Timestamp != f.Second {
		t.Errorf("timestamp = %d, want %d", msg.Timestamp, f.Second)
	}
}

func TestEncodePosition_ClassB_RoundTrip(t *testing.T) {
	e := NewNMEA()
	f := PositionFields{
		MMSI:       230088888,
		ClassB:     true,
		Latitude:   59.95,
		Longitude:  10.75,
		SpeedKnots: 4.2,
		HeadingDeg: HeadingUnavailable,
		Second:     SecondUnavailable,
	}

	sentence, err := e.EncodePosition(f)
	if err != nil {
		t.Fatalf("EncodePosition() returned error: %v", err)
	}

	decoded := decodeAll(t, sentence)
	msg, ok := decoded.Packet.(ais.StandardClassBPositionReport)
	if !ok {
		t.Fatalf("decoded packet is %T, want StandardClassBPositionReport", decoded.Packet)
	}
	if msg.UserID != f.MMSI {
		t.Errorf("MMSI = %d, want %d", msg.UserID, f.MMSI)
	}
	if msg.TrueHeading != HeadingUnavailable {
		t.Errorf("heading = %d, want sentinel %d", msg.TrueHeading, HeadingUnavailable)
	}
}

func TestEncodeStatic_ClassA_RoundTrip(t *testing.T) {
	e := NewNMEA()
	f := StaticFields{
		MMSI:         230099999,
		Name:         "TESTSHIP",
		CallSign:     "OH1ABC",
		ShipType:     70,
		Destination:  "HELSINKI",
		DraughtM:     4.5,
		ToBowM:       90,
		ToSternM:     30,
		ToPortM:      10,
		ToStarboardM: 10,
	}

	sentence, err := e.EncodeStatic(f)
	if err != nil {
		t.Fatalf("EncodeStatic() returned error: %v", err)
	}

	// type 5 payloads regularly span two fragments
	decoded := decodeAll(t, sentence)
	msg, ok := decoded.Packet.(ais.ShipStaticData)
	if !ok {
		t.Fatalf("decoded packet is %T, want ShipStaticData", decoded.Packet)
	}
	if msg.UserID != f.MMSI || msg.Type != f.ShipType {
		t.Errorf("identity = %d/%d, want %d/%d", msg.UserID, msg.Type, f.MMSI, f.ShipType)
	}
	if got := strings.TrimRight(msg.Name, "@ "); got != f.Name {
		t.Errorf("name = %q, want %q", got, f.Name)
	}
	if msg.Dimension.A != 90 || msg.Dimension.C != 10 {
		t.Errorf("dimension = %+v, want A=90 C=10", msg.Dimension)
	}
}

func TestEncodeStaticParts_RoundTrip(t *testing.T) {
	e := NewNMEA()
	f := StaticFields{MMSI: 230088888, Name: "BEASTIE", CallSign: "OH1ABC", ShipType: 36, ToBowM: 6, ToSternM: 4, ToPortM: 2, ToStarboardM: 2}

	partA, err := e.EncodeStaticPartA(f)
	if err != nil {
		t.Fatalf("EncodeStaticPartA() returned error: %v", err)
	}
	partB, err := e.EncodeStaticPartB(f)
	if err != nil {
		t.Fatalf("EncodeStaticPartB() returned error: %v", err)
	}

	a, ok := decodeAll(t, partA).Packet.(ais.StaticDataReport)
	if !ok || a.PartNumber {
		t.Fatalf("part A decoded wrong: %+v", a)
	}
	if got := strings.TrimRight(a.ReportA.Name, "@ "); got != f.Name {
		t.Errorf("part A name = %q, want %q", got, f.Name)
	}

	b, ok := decodeAll(t, partB).Packet.(ais.StaticDataReport)
	if !ok || !b.PartNumber {
		t.Fatalf("part B decoded wrong: %+v", b)
	}
	if got := strings.TrimRight(b.ReportB.CallSign, "@ "); got != f.CallSign {
		t.Errorf("part B call sign = %q, want %q", got, f.CallSign)
	}
	if b.ReportB.ShipType != f.ShipType {
		t.Errorf("part B ship type = %d, want %d", b.ReportB.ShipType, f.ShipType)
	}
}
