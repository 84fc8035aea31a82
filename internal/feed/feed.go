// UDP NMEA listener feeding the vessel registry.
package feed

import (
	"context"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	ais "github.com/BertoldVdb/go-ais"
	"github.com/BertoldVdb/go-ais/aisnmea"

	"ais-reporter/internal/logging"
	"ais-reporter/internal/vessel"
)

// Feed listens for AIS VDM sentences on a UDP port and upserts vessel
// records. It handles position reports (types 1-3 and 18) and static data
// (types 5 and 24); everything else is ignored.
type Feed struct {
	registry *vessel.Registry
	nmea     *aisnmea.NMEACodec
	port     int
}

// New returns a Feed for the given registry and listen port.
func New(registry *vessel.Registry, port int) *Feed {
	codec := ais.CodecNew(false, false)
	codec.DropSpace = true
	return &Feed{
		registry: registry,
		nmea:     aisnmea.NMEACodecNew(codec),
		port:     port,
	}
}

// Run listens until ctx is done. Malformed sentences are dropped silently;
// the next datagram is the retry.
func (f *Feed) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	pc, err := net.ListenPacket("udp", fmt.Sprintf(":%d", f.port))
	if err != nil {
		return fmt.Errorf("feed listen: %w", err)
	}
	go func() {
		<-ctx.Done()
		pc.Close()
	}()
	log.Info("feed listening", "port", f.port)

	buf := make([]byte, 2048)
	for {
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("feed read error", "err", err)
			continue
		}
		for _, line := range strings.Split(string(buf[:n]), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			f.handleSentence(line)
		}
	}
}

// handleSentence decodes one sentence and applies it to the registry.
// Multi-fragment messages stay buffered inside the codec until complete.
func (f *Feed) handleSentence(line string) {
	decoded, err := f.nmea.ParseSentence(line)
	if err != nil || decoded == nil || decoded.Packet == nil {
		return
	}
	mmsi := strconv.FormatUint(uint64(decoded.Packet.GetHeader().UserID), 10)

	switch m := decoded.Packet.(type) {
	case ais.PositionReport:
		f.registry.UpdatePosition(mmsi, vessel.TransceiverClassA, fix(float64(m.Latitude), float64(m.Longitude)), navigation(
			float64(m.Cog), float64(m.Sog), m.TrueHeading, int8(m.RateOfTurn), int(m.SpecialManoeuvreIndicator)))
	case ais.StandardClassBPositionReport:
		f.registry.UpdatePosition(mmsi, vessel.TransceiverClassB, fix(float64(m.Latitude), float64(m.Longitude)), navigation(
			float64(m.Cog), float64(m.Sog), m.TrueHeading, rotUnavailable, maneuverUnavailable))
	case ais.ShipStaticData:
		shipType := int(m.Type)
		draught := float64(m.MaximumStaticDraught)
		f.registry.UpdateStatics(mmsi, vessel.TransceiverClassA, vessel.Statics{
			Name:         optString(m.Name),
			CallSign:     optString(m.CallSign),
			ShipType:     &shipType,
			Destination:  optString(m.Destination),
			DraughtM:     &draught,
			ToBowM:       optDim(float64(m.Dimension.A)),
			ToSternM:     optDim(float64(m.Dimension.B)),
			ToPortM:      optDim(float64(m.Dimension.C)),
			ToStarboardM: optDim(float64(m.Dimension.D)),
		})
	case ais.StaticDataReport:
		if m.ReportA.Valid {
			f.registry.UpdateStatics(mmsi, vessel.TransceiverClassB, vessel.Statics{
				Name: optString(m.ReportA.Name),
			})
		}
		if m.ReportB.Valid {
			shipType := int(m.ReportB.ShipType)
			f.registry.UpdateStatics(mmsi, vessel.TransceiverClassB, vessel.Statics{
				CallSign:     optString(m.ReportB.CallSign),
				ShipType:     &shipType,
				ToBowM:       optDim(float64(m.ReportB.Dimension.A)),
				ToSternM:     optDim(float64(m.ReportB.Dimension.B)),
				ToPortM:      optDim(float64(m.ReportB.Dimension.C)),
				ToStarboardM: optDim(float64(m.ReportB.Dimension.D)),
			})
		}
	}
}

// AIS "not available" sentinels on the wire.
const (
	cogUnavailable      = 360.0
	sogUnavailable      = 102.3
	headingUnavailable  = 511
	rotUnavailable      = -128
	maneuverUnavailable = 0
)

const mpsPerKnot = 1 / 1.9438444924574

// nowUTC is a variable so tests can pin the fix timestamp.
var nowUTC = func() time.Time { return time.Now().UTC() }

func fix(lat, lon float64) vessel.Fix {
	return vessel.Fix{Latitude: lat, Longitude: lon, Timestamp: nowUTC()}
}

// navigation converts wire units (degrees, knots) into the registry's SI
// units, leaving unavailable values nil.
func navigation(cogDeg, sogKnots float64, headingDeg uint16, rot int8, maneuver int) vessel.Navigation {
	var nav vessel.Navigation
	if cogDeg < cogUnavailable {
		v := cogDeg * math.Pi / 180
		nav.CourseOverGroundRad = &v
	}
	if sogKnots < sogUnavailable {
		v := sogKnots * mpsPerKnot
		nav.SpeedOverGroundMps = &v
	}
	if headingDeg < headingUnavailable {
		v := float64(headingDeg) * math.Pi / 180
		nav.HeadingRad = &v
	}
	if rot != rotUnavailable {
		v := aisRateOfTurnToRadSec(rot)
		nav.RateOfTurnRadSec = &v
	}
	if maneuver != maneuverUnavailable {
		m := maneuver
		nav.ManeuverIndicator = &m
	}
	return nav
}

// aisRateOfTurnToRadSec inverts the AIS ROT encoding (4.733 * sqrt(deg/min)).
func aisRateOfTurnToRadSec(rot int8) float64 {
	degMin := math.Pow(float64(rot)/4.733, 2)
	if rot < 0 {
		degMin = -degMin
	}
	return degMin * math.Pi / 180 / 60
}

func optString(s string) *string {
	s = strings.TrimRight(s, "@ ")
	if s == "" {
		return nil
	}
	return &s
}

func optDim(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
