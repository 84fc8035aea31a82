package reporter

import (
	"errors"
	"math"
	"testing"

	"ais-reporter/internal/config"
	"ais-reporter/internal/encoder"
	"ais-reporter/internal/vessel"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func TestPositionFields_Conversions(t *testing.T) {
	rec := freshVessel("230099999", vessel.TransceiverClassA)
	rec.Navigation = vessel.Navigation{
		CourseOverGroundRad: floatPtr(math.Pi / 2),
		SpeedOverGroundMps:  floatPtr(1.0),
		HeadingRad:          floatPtr(math.Pi),
		ManeuverIndicator:   intPtr(1),
	}

	f, err := positionFields(rec)
	if err != nil {
		t.Fatalf("positionFields() returned error: %v", err)
	}
	if math.Abs(f.CourseDeg-90) > 1e-9 {
		t.Errorf("course = %f deg, want 90", f.CourseDeg)
	}
	if math.Abs(f.SpeedKnots-1.9438444924574) > 1e-9 {
		t.Errorf("speed = %f kn, want 1.9438444924574", f.SpeedKnots)
	}
	if f.HeadingDeg != 180 {
		t.Errorf("heading = %d deg, want 180", f.HeadingDeg)
	}
	if f.Maneuver != 1 {
		t.Errorf("maneuver = %d, want 1", f.Maneuver)
	}
	if f.Second != uint8(rec.Position.Timestamp.UTC().Second()) {
		t.Errorf("second = %d, want fix timestamp second", f.Second)
	}
}

func TestPositionFields_Fallbacks(t *testing.T) {
	rec := vessel.Record{
		MMSI:     "230099999",
		Position: &vessel.Fix{Latitude: 60, Longitude: 25},
	}

	f, err := positionFields(rec)
	if err != nil {
		t.Fatalf("positionFields() returned error: %v", err)
	}
	if f.HeadingDeg != encoder.HeadingUnavailable {
		t.Errorf("heading = %d, want sentinel %d", f.HeadingDeg, encoder.HeadingUnavailable)
	}
	if f.RateOfTurn != encoder.RateOfTurnUnavailable {
		t.Errorf("rate of turn = %d, want sentinel %d", f.RateOfTurn, encoder.RateOfTurnUnavailable)
	}
	if f.Maneuver != 0 {
		t.Errorf("maneuver = %d, want 0", f.Maneuver)
	}
	if f.Second != encoder.SecondUnavailable {
		t.Errorf("second = %d, want sentinel %d", f.Second, encoder.SecondUnavailable)
	}
}

func TestPositionFields_InvalidMMSI(t *testing.T) {
	rec := vessel.Record{MMSI: "not-a-number", Position: &vessel.Fix{}}
	if _, err := positionFields(rec); err == nil {
		t.Fatal("expected error for non-numeric MMSI")
	}
}

func TestAISRateOfTurn(t *testing.T) {
	// 0.0031 rad/s is roughly 10.7 deg/min; the field encodes 4.733*sqrt
	radSec := 10.0 / 60 * math.Pi / 180
	got := aisRateOfTurn(radSec)
	if got != 15 {
		t.Errorf("ROT(10 deg/min) = %d, want 15", got)
	}
	if neg := aisRateOfTurn(-radSec); neg != -15 {
		t.Errorf("ROT(-10 deg/min) = %d, want -15", neg)
	}
	// far beyond the encodable range clamps
	if huge := aisRateOfTurn(10); huge != 126 {
		t.Errorf("ROT clamp = %d, want 126", huge)
	}
}

func TestGenerateStatic_ClassBBothPartsOrNothing(t *testing.T) {
	own := freshVessel("230099999", vessel.TransceiverClassB)
	own.Statics = vessel.Statics{Name: strPtr("BEASTIE"), CallSign: strPtr("OH1ABC"), ShipType: intPtr(36)}
	src := &mockSource{vessels: []vessel.Record{own}}
	tx := &mockTransmitter{}
	enc := &mockEncoder{partBErr: errors.New("field overflow")}
	ep := testEndpointCfg("primary", testClass([]int{0}, []int{1}), testClass([]int{0}, []int{0}))
	r := newTestReporter([]config.Endpoint{ep}, Deps{Source: src, Encoder: enc, Transmitter: tx})

	r.runTick()

	if len(tx.sent) != 0 {
		t.Fatalf("part B failed, nothing should transmit; got %d sends", len(tx.sent))
	}
	snap := r.Snapshot()
	if snap.Endpoints["primary"].Static.TotalReports != 0 {
		t.Errorf("failed class B static must not be counted")
	}
}

func TestGenerateStatic_ClassBPartAFailureSkipsPartB(t *testing.T) {
	own := freshVessel("230099999", vessel.TransceiverClassB)
	src := &mockSource{vessels: []vessel.Record{own}}
	enc := &mockEncoder{partAErr: errors.New("field overflow")}
	ep := testEndpointCfg("primary", testClass([]int{0}, []int{1}), testClass([]int{0}, []int{0}))
	r := newTestReporter([]config.Endpoint{ep}, Deps{Source: src, Encoder: enc, Transmitter: &mockTransmitter{}})

	r.runTick()

	if enc.partBCalls != 0 {
		t.Errorf("part B encoded %d times after part A failed, want 0", enc.partBCalls)
	}
}

func TestGenerateStatic_ClassBCountsOneReportTwoSentences(t *testing.T) {
	own := freshVessel("230099999", vessel.TransceiverClassB)
	src := &mockSource{vessels: []vessel.Record{own}}
	tx := &mockTransmitter{}
	ep := testEndpointCfg("primary", testClass([]int{0}, []int{1}), testClass([]int{0}, []int{0}))
	r := newTestReporter([]config.Endpoint{ep}, Deps{Source: src, Encoder: &mockEncoder{}, Transmitter: tx})

	r.runTick()

	if len(tx.sent) != 2 {
		t.Fatalf("class B static should transmit both parts, got %d sends", len(tx.sent))
	}
	snap := r.Snapshot()
	st := snap.Endpoints["primary"].Static
	if st.TotalReports != 1 {
		t.Errorf("class B static counts as one report, got %d", st.TotalReports)
	}
	wantBytes := int64(len(mockPartASentence) + 1 + len(mockPartBSentence) + 1)
	if st.TotalBytes != wantBytes {
		t.Errorf("static bytes = %d, want %d", st.TotalBytes, wantBytes)
	}
}

func TestGenerateStatic_ClassASingleSentence(t *testing.T) {
	other := freshVessel("230011111", vessel.TransceiverClassA)
	src := &mockSource{vessels: []vessel.Record{other}}
	tx := &mockTransmitter{}
	ep := testEndpointCfg("primary", testClass([]int{0}, []int{0}), testClass([]int{0}, []int{1}))
	r := newTestReporter([]config.Endpoint{ep}, Deps{Source: src, Encoder: &mockEncoder{}, Transmitter: tx})

	r.runTick()

	if len(tx.sent) != 1 {
		t.Fatalf("class A static should transmit one sentence, got %d", len(tx.sent))
	}
	if got := tx.sent[0].payload; got != mockStaticSentence+"\n" {
		t.Errorf("payload = %q, want type 5 sentence", got)
	}
}

func TestGeneratePosition_EncodeFailureSkipsVessel(t *testing.T) {
	src := &mockSource{vessels: []vessel.Record{
		{MMSI: "bad-mmsi", Position: freshVessel("x", vessel.TransceiverClassA).Position},
		freshVessel("230011111", vessel.TransceiverClassA),
	}}
	tx := &mockTransmitter{}
	ep := testEndpointCfg("primary", testClass([]int{0}, []int{0}), testClass([]int{1}, []int{0}))
	r := newTestReporter([]config.Endpoint{ep}, Deps{Source: src, Encoder: &mockEncoder{}, Transmitter: tx})

	r.runTick()

	if len(tx.sent) != 1 {
		t.Errorf("unencodable vessel should be skipped, healthy one reported; got %d sends", len(tx.sent))
	}
}

func TestGeneratePosition_SourceError(t *testing.T) {
	src := &mockSource{err: errors.New("upstream gone")}
	ep := testEndpointCfg("primary", testClass([]int{1}, []int{0}), testClass([]int{0}, []int{0}))
	r := newTestReporter([]config.Endpoint{ep}, Deps{Source: src, Encoder: &mockEncoder{}, Transmitter: &mockTransmitter{}})

	r.runTick()

	snap := r.Snapshot()
	if snap.Tick != 1 {
		t.Errorf("tick must advance past a failing source, got %d", snap.Tick)
	}
	if snap.Endpoints["primary"].Position.TotalReports != 0 {
		t.Errorf("no reports expected when the source fails")
	}
}
